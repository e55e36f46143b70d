package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mergington/activityhub/internal/domain"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users map[string]*domain.User
	order []string
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[string]*domain.User)}
}

func (m *mockRepository) InsertUser(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.Email]; ok {
		return ErrEmailExists
	}
	m.users[user.Email] = user
	m.order = append(m.order, user.Email)
	return nil
}

func (m *mockRepository) FindUser(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) ListUsers(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(m.order))
	for _, email := range m.order {
		out = append(out, m.users[email])
	}
	return out, nil
}

// mockAuthenticator implements Authenticator for testing.
type mockAuthenticator struct {
	issued     string
	verifyMail string
	verifyRole domain.Role
	verifyErr  error
}

func (m *mockAuthenticator) Issue(_ *domain.User) (string, error) {
	if m.issued == "" {
		return "token", nil
	}
	return m.issued, nil
}

func (m *mockAuthenticator) Verify(_ string) (string, domain.Role, error) {
	return m.verifyMail, m.verifyRole, m.verifyErr
}

func newService(repo *mockRepository, auth *mockAuthenticator) *Service {
	return NewService(repo, auth, "@mergington.edu")
}

func seedUser(t *testing.T, repo *mockRepository, email, password string, role domain.Role, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		ID:           "seed-" + email,
		Email:        email,
		FullName:     "Seed User",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, repo.InsertUser(context.Background(), user))
	return user
}

func TestRegister_Student(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo, &mockAuthenticator{})

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "newkid@mergington.edu",
		Password: "password123",
		FullName: "New Kid",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, user.Role, "role defaults to student")
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "existing@mergington.edu", "whatever1", domain.RoleStudent, true)
	service := newService(repo, &mockAuthenticator{})

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "existing@mergington.edu",
		Password: "password123",
		FullName: "Dup",
	}, nil)

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegister_InvalidDomain(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo, &mockAuthenticator{})

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "outsider@gmail.com",
		Password: "password123",
		FullName: "Outsider",
	}, nil)

	assert.ErrorIs(t, err, ErrInvalidDomain)
	assert.Empty(t, repo.users)
}

func TestRegister_RoleEscalationDenied(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo, &mockAuthenticator{})

	for _, role := range []domain.Role{domain.RoleTeacher, domain.RoleAdmin} {
		_, err := service.Register(context.Background(), RegisterInput{
			Email:    "sneaky@mergington.edu",
			Password: "password123",
			FullName: "Sneaky",
			Role:     role,
		}, nil)
		assert.ErrorIs(t, err, ErrRoleEscalationDenied, "anonymous caller requesting %s", role)
	}

	student := &domain.User{Role: domain.RoleStudent}
	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "sneaky@mergington.edu",
		Password: "password123",
		FullName: "Sneaky",
		Role:     domain.RoleTeacher,
	}, student)
	assert.ErrorIs(t, err, ErrRoleEscalationDenied, "student caller requesting teacher")
}

func TestRegister_AdminMayCreateTeacher(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo, &mockAuthenticator{})
	admin := &domain.User{Role: domain.RoleAdmin}

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "teacher@mergington.edu",
		Password: "password123",
		FullName: "New Teacher",
		Role:     domain.RoleTeacher,
	}, admin)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleTeacher, user.Role)
}

func TestLogin_Success(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "student@mergington.edu", "secret123", domain.RoleStudent, true)
	service := newService(repo, &mockAuthenticator{issued: "signed-token"})

	token, user, err := service.Login(context.Background(), "student@mergington.edu", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	assert.Equal(t, "student@mergington.edu", user.Email)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "student@mergington.edu", "secret123", domain.RoleStudent, true)
	service := newService(repo, &mockAuthenticator{})

	_, _, err := service.Login(context.Background(), "student@mergington.edu", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email yields the same error as a bad password.
	_, _, err = service.Login(context.Background(), "ghost@mergington.edu", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_AccountInactive(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "suspended@mergington.edu", "secret123", domain.RoleStudent, false)
	service := newService(repo, &mockAuthenticator{})

	_, _, err := service.Login(context.Background(), "suspended@mergington.edu", "secret123")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthenticate_ReturnsLiveRecord(t *testing.T) {
	repo := newMockRepository()
	user := seedUser(t, repo, "student@mergington.edu", "secret123", domain.RoleStudent, true)
	// The token claims an admin role snapshot; the live record wins.
	auth := &mockAuthenticator{verifyMail: user.Email, verifyRole: domain.RoleAdmin}
	service := newService(repo, auth)

	resolved, err := service.Authenticate(context.Background(), "any-token")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, resolved.Role)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo, &mockAuthenticator{verifyErr: ErrInvalidToken})

	_, err := service.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_AccountDeactivated(t *testing.T) {
	repo := newMockRepository()
	user := seedUser(t, repo, "suspended@mergington.edu", "secret123", domain.RoleStudent, false)
	service := newService(repo, &mockAuthenticator{verifyMail: user.Email, verifyRole: user.Role})

	// A token issued before deactivation stops working immediately.
	_, err := service.Authenticate(context.Background(), "pre-suspension-token")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthenticate_UserVanished(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo, &mockAuthenticator{verifyMail: "ghost@mergington.edu"})

	_, err := service.Authenticate(context.Background(), "stale-token")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers_AdminOnly(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "a@mergington.edu", "secret123", domain.RoleStudent, true)
	seedUser(t, repo, "b@mergington.edu", "secret123", domain.RoleStudent, true)
	service := newService(repo, &mockAuthenticator{})

	users, err := service.ListUsers(context.Background(), &domain.User{Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	for _, role := range []domain.Role{domain.RoleStudent, domain.RoleTeacher} {
		_, err := service.ListUsers(context.Background(), &domain.User{Role: role})
		assert.ErrorIs(t, err, ErrForbidden, "role %s", role)
	}
}
