package identity

import "errors"

// Registration errors.
var (
	ErrEmailExists          = errors.New("email already registered")
	ErrInvalidDomain        = errors.New("only school email addresses are allowed")
	ErrRoleEscalationDenied = errors.New("cannot self-register as teacher or admin")
)

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("you don't have permission to perform this action")
)
