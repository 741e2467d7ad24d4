package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mochitomo/mochitomo/internal/model"
	"github.com/mochitomo/mochitomo/internal/store"
)

func newResultService(t *testing.T, delay time.Duration) (*ResultService, *store.GoalStore) {
	t.Helper()
	goals := store.NewGoalStore(&memRepo{})
	s := NewResultService(goals, TimedReviewer{Delay: delay}, time.Hour)
	t.Cleanup(func() {
		s.Shutdown()
		goals.Close()
	})
	return s, goals
}

// waitFor reads page updates until match returns true.
func waitFor(t *testing.T, p *ResultPage, match func(ResultState) bool) ResultState {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case st := <-p.Updates():
			if match(st) {
				return st
			}
		case <-timeout:
			t.Fatalf("timed out waiting for page state; last state %+v", p.State())
			return ResultState{}
		}
	}
}

func createGoal(t *testing.T, goals *store.GoalStore, goal string) *model.GoalRecord {
	t.Helper()
	record, err := goals.Create(context.Background(), &model.GoalRecord{
		Goal: goal, Reward1: "A", Money1: 100, Reward2: "B", Money2: 200, GoalDate: "2026-12-24",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return record
}

func TestResultPage_FollowsLatestRecord(t *testing.T) {
	s, goals := newResultService(t, time.Second)

	p, err := s.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	empty := waitFor(t, p, func(ResultState) bool { return true })
	if empty.HasGoal {
		t.Errorf("initial state = %+v, want no goal yet", empty)
	}

	createGoal(t, goals, "毎日勉強")
	st := waitFor(t, p, func(st ResultState) bool { return st.HasGoal })
	want := [2]model.UserGoalView{
		{Goal: "毎日勉強", Reward: "A", Amount: 100, Status: model.AuditPending, Deadline: "2026-12-24"},
		{Goal: "毎日勉強", Reward: "B", Amount: 200, Status: model.AuditPending, Deadline: "2026-12-24"},
	}
	if got := st.Views.Participants(); got != want {
		t.Errorf("Participants() = %+v, want %+v", got, want)
	}

	time.Sleep(time.Millisecond)
	latest := createGoal(t, goals, "禁酒")
	st = waitFor(t, p, func(st ResultState) bool { return st.GoalID == latest.ID })
	if st.Views.First.Goal != "禁酒" {
		t.Errorf("First.Goal = %q, want the newest record", st.Views.First.Goal)
	}
}

func TestResultPage_SubmitProof(t *testing.T) {
	const delay = 60 * time.Millisecond
	s, goals := newResultService(t, delay)
	createGoal(t, goals, "毎日勉強")

	p, err := s.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	waitFor(t, p, func(st ResultState) bool { return st.HasGoal })

	start := time.Now()
	if err := p.SubmitProof("receipt.png"); err != nil {
		t.Fatalf("SubmitProof() error = %v", err)
	}

	st := p.State()
	if st.Status != model.AuditPending || st.ProofName != "receipt.png" {
		t.Errorf("state right after upload = %+v, want pending with the file name", st)
	}

	st = waitFor(t, p, func(st ResultState) bool { return st.Status == model.AuditSuccess })
	if elapsed := time.Since(start); elapsed < delay {
		t.Errorf("success after %v, want at least %v", elapsed, delay)
	}
	if st.Views.First.Status != model.AuditSuccess || st.Views.Second.Status != model.AuditSuccess {
		t.Errorf("views = %+v, want both 目標達成", st.Views)
	}
	if st.Views.First.Goal != "毎日勉強" {
		t.Errorf("goal fields changed after review: %+v", st.Views.First)
	}
}

func TestResultPage_CloseStopsUpdates(t *testing.T) {
	s, goals := newResultService(t, 30*time.Millisecond)

	p, err := s.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.Close(p.ID)

	select {
	case <-p.Done():
	default:
		t.Fatal("Done() not closed after Close")
	}

	// Drop anything published before the close.
	select {
	case <-p.Updates():
	default:
	}

	createGoal(t, goals, "閉じた後")
	select {
	case st := <-p.Updates():
		t.Errorf("update after close: %+v", st)
	case <-time.After(100 * time.Millisecond):
	}

	if err := p.SubmitProof("late.png"); !errors.Is(err, ErrPageClosed) {
		t.Errorf("SubmitProof() error = %v, want ErrPageClosed", err)
	}
	if goals.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", goals.Subscribers())
	}
	if _, err := s.Page(p.ID); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("Page() error = %v, want ErrPageNotFound", err)
	}

	// Closing twice is harmless.
	s.Close(p.ID)
	p.Close()
}

func TestResultPage_CloseCancelsReview(t *testing.T) {
	s, goals := newResultService(t, 50*time.Millisecond)
	createGoal(t, goals, "g")

	p, err := s.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := p.SubmitProof("proof.png"); err != nil {
		t.Fatalf("SubmitProof() error = %v", err)
	}
	s.Close(p.ID)

	time.Sleep(120 * time.Millisecond)
	if got := p.State().Status; got != model.AuditPending {
		t.Errorf("Status after close = %s, want 審査中", got)
	}
}

func TestResultService_Attach(t *testing.T) {
	s, _ := newResultService(t, time.Second)

	if _, _, err := s.Attach("missing"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("Attach(missing) error = %v, want ErrPageNotFound", err)
	}

	p, err := s.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got, release, err := s.Attach(p.ID)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if got != p {
		t.Error("Attach() returned a different page")
	}
	release()
}

func TestResultService_CleanupIdlePages(t *testing.T) {
	s, goals := newResultService(t, time.Second)

	idle, err := s.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	streamed, err := s.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	_, release, err := s.Attach(streamed.ID)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer release()

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	s.cleanup()

	if s.OpenPages() != 1 {
		t.Errorf("OpenPages() = %d, want 1", s.OpenPages())
	}
	select {
	case <-idle.Done():
	default:
		t.Error("idle page still open")
	}
	if _, err := s.Page(streamed.ID); err != nil {
		t.Errorf("streamed page was closed: %v", err)
	}
	if goals.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", goals.Subscribers())
	}
}

func TestResultService_Shutdown(t *testing.T) {
	s, goals := newResultService(t, time.Second)

	for range 3 {
		if _, err := s.Open(context.Background()); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
	}
	s.Shutdown()

	if s.OpenPages() != 0 {
		t.Errorf("OpenPages() = %d, want 0", s.OpenPages())
	}
	if goals.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", goals.Subscribers())
	}
}
