package roster

import "errors"

// Roster mutation errors.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadyEnrolled  = errors.New("you are already signed up for this activity")
	ErrActivityFull     = errors.New("activity is full")
	ErrNotEnrolled      = errors.New("you are not signed up for this activity")
	ErrStudentsOnly     = errors.New("only students can sign up for activities")
)
