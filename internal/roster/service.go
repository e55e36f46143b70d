// Package roster manages capacity-bounded enrollment in activities.
package roster

import (
	"context"

	"github.com/mergington/activityhub/internal/domain"
	"github.com/mergington/activityhub/internal/pkg/ctxlog"
)

// Repository defines the interface for activity storage. Enroll and
// Withdraw run the whole check-then-act sequence atomically with respect
// to other mutators of the same activity.
type Repository interface {
	FindActivity(ctx context.Context, name string) (*domain.Activity, error)
	ListActivities(ctx context.Context) ([]*domain.Activity, error)

	// Enroll adds email to the activity roster. Check order is fixed:
	// existence, then membership, then capacity.
	Enroll(ctx context.Context, activityName, email string) (*domain.Activity, error)
	// Withdraw removes email from the activity roster.
	Withdraw(ctx context.Context, activityName, email string) (*domain.Activity, error)
}

// Service implements roster business logic.
type Service struct {
	repo Repository
}

// NewService creates a new roster service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListActivities returns a snapshot of all activities in seed order.
func (s *Service) ListActivities(ctx context.Context) ([]*domain.Activity, error) {
	return s.repo.ListActivities(ctx)
}

// Signup enrolls the actor in an activity. Students only.
func (s *Service) Signup(ctx context.Context, activityName string, actor *domain.User) (*domain.Activity, error) {
	if !actor.Role.In(domain.RoleStudent) {
		return nil, ErrStudentsOnly
	}

	activity, err := s.repo.Enroll(ctx, activityName, actor.Email)
	if err != nil {
		recordSignup("failure")
		return nil, err
	}

	recordSignup("success")
	ctxlog.FromContext(ctx).Info("student signed up",
		"activity", activity.Name,
		"email", actor.Email,
		"enrolled", len(activity.Participants),
		"capacity", activity.MaxParticipants,
	)

	return activity, nil
}

// Unregister removes the actor from an activity's roster.
func (s *Service) Unregister(ctx context.Context, activityName string, actor *domain.User) (*domain.Activity, error) {
	activity, err := s.repo.Withdraw(ctx, activityName, actor.Email)
	if err != nil {
		recordUnregister("failure")
		return nil, err
	}

	recordUnregister("success")
	ctxlog.FromContext(ctx).Info("student unregistered",
		"activity", activity.Name,
		"email", actor.Email,
	)

	return activity, nil
}
