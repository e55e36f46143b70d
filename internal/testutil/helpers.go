package testutil

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"testing"
)

const letters = "abcdefghijklmnopqrstuvwxyz"

// RandomEmail returns a unique-enough school email for test accounts.
func RandomEmail() string {
	b := make([]byte, 10)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("%s@mergington.edu", b)
}

// DecodeJSON decodes a response body into v and closes the body.
func DecodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
