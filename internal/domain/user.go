package domain

// Role represents a user's role in the school.
type Role string

// User roles. The set is closed: anything else is rejected at the boundary.
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// IsValid checks if the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// In reports whether the role is in the allowed set. Roles carry no
// hierarchy: every operation enumerates the roles it accepts.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// User represents a registered account. Email is the unique identifier
// across the store. PasswordHash is a bcrypt digest and is never
// serialized in responses.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"is_active"`
}
