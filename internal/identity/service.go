// Package identity provides user registration, login, and token-based
// identity resolution.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mergington/activityhub/internal/domain"
)

// Repository defines the interface for user storage.
type Repository interface {
	InsertUser(ctx context.Context, user *domain.User) error
	FindUser(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// Authenticator issues and verifies bearer tokens.
type Authenticator interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (email string, role domain.Role, err error)
}

// Service implements identity business logic.
type Service struct {
	repo        Repository
	auth        Authenticator
	emailDomain string
}

// NewService creates a new identity service. emailDomain is the required
// email suffix for registration, e.g. "@mergington.edu".
func NewService(repo Repository, auth Authenticator, emailDomain string) *Service {
	return &Service{
		repo:        repo,
		auth:        auth,
		emailDomain: emailDomain,
	}
}

// RegisterInput holds data for creating a new account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     domain.Role
}

// Register creates a new account. actor is the authenticated caller, or
// nil for anonymous self-registration. Only admins may create non-student
// accounts.
func (s *Service) Register(ctx context.Context, input RegisterInput, actor *domain.User) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrRoleEscalationDenied, input.Role)
	}

	if !strings.HasSuffix(input.Email, s.emailDomain) {
		return nil, ErrInvalidDomain
	}

	if role != domain.RoleStudent && (actor == nil || actor.Role != domain.RoleAdmin) {
		return nil, ErrRoleEscalationDenied
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.InsertUser(ctx, user); err != nil {
		return nil, err
	}

	recordRegistration(string(role))

	return user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.FindUser(ctx, email)
	if err != nil {
		// Equalize the response for unknown emails and bad passwords.
		recordLogin("failure")
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		recordLogin("failure")
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		recordLogin("inactive")
		return "", nil, ErrAccountInactive
	}

	token, err := s.auth.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	recordLogin("success")

	return token, user, nil
}

// Authenticate resolves a raw bearer token to the current stored user
// record. The token's embedded role is a snapshot at issuance and is
// never used for authorization; the live record wins.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	email, _, err := s.auth.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindUser(ctx, email)
	if err != nil {
		// Token outlived the account.
		return nil, ErrUserNotFound
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return user, nil
}

// ListUsers returns all accounts in registration order. Admin only.
func (s *Service) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if !actor.Role.In(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.repo.ListUsers(ctx)
}
