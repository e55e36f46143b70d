// Package memory implements the authoritative in-memory store for users
// and activity rosters. All state is process-lifetime: a restart resets
// to the seeded configuration.
package memory

import (
	"context"
	"sync"

	"github.com/mergington/activityhub/internal/domain"
	"github.com/mergington/activityhub/internal/identity"
	"github.com/mergington/activityhub/internal/roster"
)

// Store is the single shared store behind both the identity and roster
// modules. One RWMutex guards everything; every mutation is atomic under
// the write lock, so check-then-act sequences never interleave.
type Store struct {
	mu sync.RWMutex

	users     map[string]*domain.User
	userOrder []string

	activities    map[string]*domain.Activity
	activityOrder []string
}

// NewStore creates a store seeded with the given activities. Activity
// order is preserved for listings.
func NewStore(activities []domain.Activity) *Store {
	s := &Store{
		users:      make(map[string]*domain.User),
		activities: make(map[string]*domain.Activity),
	}

	for i := range activities {
		a := activities[i].Clone()
		if a.Participants == nil {
			a.Participants = make([]string, 0)
		}
		s.activities[a.Name] = a
		s.activityOrder = append(s.activityOrder, a.Name)
	}

	return s
}

// InsertUser adds a user. Fails with identity.ErrEmailExists if the
// email is already registered.
func (s *Store) InsertUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return identity.ErrEmailExists
	}

	u := *user
	s.users[u.Email] = &u
	s.userOrder = append(s.userOrder, u.Email)
	return nil
}

// FindUser looks up a user by email.
func (s *Store) FindUser(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return nil, identity.ErrUserNotFound
	}

	u := *user
	return &u, nil
}

// ListUsers returns all users in registration order.
func (s *Store) ListUsers(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.User, 0, len(s.userOrder))
	for _, email := range s.userOrder {
		u := *s.users[email]
		out = append(out, &u)
	}
	return out, nil
}

// FindActivity returns a snapshot of a single activity.
func (s *Store) FindActivity(_ context.Context, name string) (*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	activity, ok := s.activities[name]
	if !ok {
		return nil, roster.ErrActivityNotFound
	}
	return activity.Clone(), nil
}

// ListActivities returns snapshots of all activities in seed order.
func (s *Store) ListActivities(_ context.Context) ([]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Activity, 0, len(s.activityOrder))
	for _, name := range s.activityOrder {
		out = append(out, s.activities[name].Clone())
	}
	return out, nil
}

// Enroll adds email to an activity roster under the write lock. Check
// order is fixed for deterministic error precedence: existence, then
// membership, then capacity.
func (s *Store) Enroll(_ context.Context, activityName, email string) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity, ok := s.activities[activityName]
	if !ok {
		return nil, roster.ErrActivityNotFound
	}

	if activity.HasParticipant(email) {
		return nil, roster.ErrAlreadyEnrolled
	}

	if activity.IsFull() {
		return nil, roster.ErrActivityFull
	}

	activity.Participants = append(activity.Participants, email)
	return activity.Clone(), nil
}

// Withdraw removes email from an activity roster under the write lock.
func (s *Store) Withdraw(_ context.Context, activityName, email string) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity, ok := s.activities[activityName]
	if !ok {
		return nil, roster.ErrActivityNotFound
	}

	for i, p := range activity.Participants {
		if p == email {
			activity.Participants = append(activity.Participants[:i], activity.Participants[i+1:]...)
			return activity.Clone(), nil
		}
	}

	return nil, roster.ErrNotEnrolled
}
