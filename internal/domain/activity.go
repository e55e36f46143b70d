package domain

// Activity represents an extracurricular activity with a bounded roster.
// Name is the unique key. Participants holds enrolled student emails in
// signup order.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// IsFull returns true when the roster is at capacity.
func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// HasParticipant reports whether email is already enrolled.
func (a *Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hold the snapshot without
// racing with roster mutations.
func (a *Activity) Clone() *Activity {
	c := *a
	c.Participants = append([]string(nil), a.Participants...)
	return &c
}
