//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mergington/activityhub/internal/testutil"
)

// registerStudent creates a fresh student account and returns its email.
func registerStudent(t *testing.T, client *testutil.Client, password string) string {
	t.Helper()

	email := testutil.RandomEmail()
	resp, err := client.POST("/auth/register", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": "Test Student",
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return email
}

// loginStudent registers and logs in a new student, leaving the client
// authenticated as that student.
func loginStudent(t *testing.T, client *testutil.Client) string {
	t.Helper()

	const password = "password123"
	email := registerStudent(t, client, password)
	client.LoginAs(t, email, password)
	return email
}

// errorMessage extracts the error envelope message from a response.
func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()

	var result struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Error.Message
}
