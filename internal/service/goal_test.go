package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mochitomo/mochitomo/internal/model"
	"github.com/mochitomo/mochitomo/internal/store"
	"github.com/mochitomo/mochitomo/internal/validation"
)

// memRepo is an in-memory goal record repository.
type memRepo struct {
	mu        sync.Mutex
	records   []model.GoalRecord
	createErr error
}

func (r *memRepo) Create(_ context.Context, record *model.GoalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, *record)
	return nil
}

func (r *memRepo) All(_ context.Context) ([]model.GoalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.GoalRecord(nil), r.records...), nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

var jst = time.FixedZone("JST", 9*60*60)

func newGoalService(repo *memRepo) *GoalService {
	s := NewGoalService(store.NewGoalStore(repo), validation.GoalRules{WarningDays: 7, Location: jst})
	s.now = func() time.Time { return time.Date(2026, 10, 15, 15, 0, 0, 0, jst) }
	return s
}

func goalForm(deadline string) validation.GoalForm {
	return validation.GoalForm{
		Goal:     "毎朝5km走る",
		Reward1:  "ランニングシューズ",
		Money1:   "12000",
		Reward2:  "ヨガマット",
		Money2:   "4000",
		Deadline: deadline,
	}
}

func TestGoalService_Submit(t *testing.T) {
	repo := &memRepo{}
	s := newGoalService(repo)

	record, err := s.Submit(context.Background(), goalForm("2026-12-01"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if repo.count() != 1 {
		t.Fatalf("store creates = %d, want exactly 1", repo.count())
	}
	stored := repo.records[0]
	if stored.Goal != "毎朝5km走る" || stored.Reward1 != "ランニングシューズ" || stored.Money1 != 12000 ||
		stored.Reward2 != "ヨガマット" || stored.Money2 != 4000 || stored.GoalDate != "2026-12-01" {
		t.Errorf("stored record = %+v", stored)
	}
	if record.ID == "" || record.CreatedAt == nil {
		t.Errorf("returned record missing id or creation time: %+v", record)
	}
}

func TestGoalService_Submit_PastDeadlineProceeds(t *testing.T) {
	repo := &memRepo{}
	s := newGoalService(repo)

	if _, err := s.Submit(context.Background(), goalForm("2026-10-10")); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if repo.count() != 1 {
		t.Errorf("store creates = %d, want 1", repo.count())
	}
}

func TestGoalService_Submit_NearDeadline(t *testing.T) {
	repo := &memRepo{}
	s := newGoalService(repo)

	// Resubmitting warns again; nothing is remembered between attempts.
	for attempt := 1; attempt <= 2; attempt++ {
		_, err := s.Submit(context.Background(), goalForm("2026-10-20"))
		if !errors.Is(err, ErrNearDeadline) {
			t.Fatalf("attempt %d: error = %v, want ErrNearDeadline", attempt, err)
		}
	}
	if repo.count() != 0 {
		t.Errorf("store creates = %d, want 0", repo.count())
	}
}

func TestGoalService_Submit_InvalidFields(t *testing.T) {
	repo := &memRepo{}
	s := newGoalService(repo)

	form := goalForm("2026-10-20")
	form.Goal = ""
	form.Money2 = "abc"

	_, err := s.Submit(context.Background(), form)

	var formErr *validation.FormError
	if !errors.As(err, &formErr) {
		t.Fatalf("error = %v, want *validation.FormError", err)
	}
	if formErr.Fields[validation.FieldGoal] == "" || formErr.Fields[validation.FieldMoney2] == "" {
		t.Errorf("fields = %v, want goal and money2", formErr.Fields)
	}
	if !formErr.NearDeadline {
		t.Error("NearDeadline = false, want true for a deadline five days out")
	}
	if repo.count() != 0 {
		t.Errorf("store creates = %d, want 0", repo.count())
	}
}

func TestGoalService_Submit_StoreFailure(t *testing.T) {
	storeErr := errors.New("disk full")
	repo := &memRepo{createErr: storeErr}
	s := newGoalService(repo)

	_, err := s.Submit(context.Background(), goalForm("2026-12-01"))
	if !errors.Is(err, storeErr) {
		t.Errorf("error = %v, want wrapping %v", err, storeErr)
	}
}
