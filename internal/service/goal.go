package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mochitomo/mochitomo/internal/model"
	"github.com/mochitomo/mochitomo/internal/store"
	"github.com/mochitomo/mochitomo/internal/validation"
)

var (
	ErrNearDeadline = errors.New("deadline is within the warning window")
)

// GoalStore is the goal record store the services read and write through.
type GoalStore interface {
	Create(ctx context.Context, record *model.GoalRecord) (*model.GoalRecord, error)
	ObserveQuery(ctx context.Context) (*store.Subscription, error)
}

type GoalService struct {
	store GoalStore
	rules validation.GoalRules
	now   func() time.Time
}

func NewGoalService(store GoalStore, rules validation.GoalRules) *GoalService {
	return &GoalService{
		store: store,
		rules: rules,
		now:   time.Now,
	}
}

// Submit validates the form and stores it as one goal record.
//
// Invalid fields return a *validation.FormError, which also carries the
// near-deadline flag so both can be shown at once. A deadline inside the
// warning window returns ErrNearDeadline on every attempt; there is no
// confirmation step. Store failures are returned wrapped and not retried.
func (s *GoalService) Submit(ctx context.Context, form validation.GoalForm) (*model.GoalRecord, error) {
	res := validation.ValidateGoalForm(form, s.now(), s.rules)

	if len(res.Errors) > 0 {
		return nil, &validation.FormError{Fields: res.Errors, NearDeadline: res.NearDeadline}
	}
	if res.NearDeadline {
		return nil, ErrNearDeadline
	}

	record, err := s.store.Create(ctx, res.Input.Record())
	if err != nil {
		return nil, fmt.Errorf("failed to submit goal: %w", err)
	}

	slog.Info("goal submitted", "goal_id", record.ID, "goal_date", record.GoalDate)
	return record, nil
}
