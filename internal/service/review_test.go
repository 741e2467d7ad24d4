package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mochitomo/mochitomo/internal/model"
)

type statusLog struct {
	mu      sync.Mutex
	entries []model.AuditStatus
	ch      chan model.AuditStatus
}

func newStatusLog() *statusLog {
	return &statusLog{ch: make(chan model.AuditStatus, 16)}
}

func (l *statusLog) record(s model.AuditStatus) {
	l.mu.Lock()
	l.entries = append(l.entries, s)
	l.mu.Unlock()
	l.ch <- s
}

func (l *statusLog) wait(t *testing.T, want model.AuditStatus) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s := <-l.ch:
			if s == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for status %s", want)
		}
	}
}

type failingReviewer struct{}

func (failingReviewer) Review(context.Context, Proof) (model.AuditStatus, error) {
	return model.AuditPending, errors.New("reviewer unavailable")
}

func TestAudit_PendingThenSuccessAfterDelay(t *testing.T) {
	const delay = 80 * time.Millisecond
	log := newStatusLog()
	a := NewAudit(TimedReviewer{Delay: delay}, log.record)
	defer a.Close()

	start := time.Now()
	a.Submit(Proof{FileName: "proof.png"})

	if got := a.Status(); got != model.AuditPending {
		t.Fatalf("Status() right after Submit = %s, want 審査中", got)
	}

	log.wait(t, model.AuditSuccess)
	if elapsed := time.Since(start); elapsed < delay {
		t.Errorf("success after %v, before the %v delay", elapsed, delay)
	}
	if got := a.Status(); got != model.AuditSuccess {
		t.Errorf("Status() = %s, want 目標達成", got)
	}
}

func TestAudit_CloseCancelsReview(t *testing.T) {
	log := newStatusLog()
	a := NewAudit(TimedReviewer{Delay: 50 * time.Millisecond}, log.record)

	a.Submit(Proof{FileName: "proof.png"})
	log.wait(t, model.AuditPending)
	a.Close()

	time.Sleep(150 * time.Millisecond)
	if got := a.Status(); got != model.AuditPending {
		t.Errorf("Status() after Close = %s, want 審査中", got)
	}
	select {
	case s := <-log.ch:
		t.Errorf("transition %s reported after Close", s)
	default:
	}

	// Submitting to a closed audit is ignored.
	a.Submit(Proof{FileName: "again.png"})
	select {
	case s := <-log.ch:
		t.Errorf("transition %s reported for a closed audit", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAudit_ResubmitRestartsReview(t *testing.T) {
	const delay = 60 * time.Millisecond
	log := newStatusLog()
	a := NewAudit(TimedReviewer{Delay: delay}, log.record)
	defer a.Close()

	a.Submit(Proof{FileName: "first.png"})
	time.Sleep(delay / 2)
	second := time.Now()
	a.Submit(Proof{FileName: "second.png"})

	log.wait(t, model.AuditSuccess)
	if elapsed := time.Since(second); elapsed < delay {
		t.Errorf("success %v after the second upload, want at least %v", elapsed, delay)
	}

	time.Sleep(delay)
	log.mu.Lock()
	defer log.mu.Unlock()
	successes := 0
	for _, s := range log.entries {
		if s == model.AuditSuccess {
			successes++
		}
	}
	if successes != 1 {
		t.Errorf("success reported %d times, want 1 (entries %v)", successes, log.entries)
	}
}

func TestAudit_ReviewerErrorIsFailure(t *testing.T) {
	log := newStatusLog()
	a := NewAudit(failingReviewer{}, log.record)
	defer a.Close()

	a.Submit(Proof{FileName: "proof.png"})
	log.wait(t, model.AuditFailure)
	if got := a.Status(); got != model.AuditFailure {
		t.Errorf("Status() = %s, want 失敗", got)
	}
}

func TestTimedReviewer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, err := TimedReviewer{Delay: time.Hour}.Review(ctx, Proof{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if status != model.AuditPending {
		t.Errorf("status = %s, want 審査中", status)
	}
}
