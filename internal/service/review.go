package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mochitomo/mochitomo/internal/model"
)

// Proof is a submitted proof of completion.
type Proof struct {
	GoalID   string
	FileName string
}

// Reviewer decides whether a proof shows the goal was achieved.
type Reviewer interface {
	Review(ctx context.Context, proof Proof) (model.AuditStatus, error)
}

// TimedReviewer stands in for a real review: every proof is approved
// once Delay has passed.
type TimedReviewer struct {
	Delay time.Duration
}

func (r TimedReviewer) Review(ctx context.Context, proof Proof) (model.AuditStatus, error) {
	timer := time.NewTimer(r.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return model.AuditPending, ctx.Err()
	case <-timer.C:
		return model.AuditSuccess, nil
	}
}

// Audit tracks one review at a time: pending -> success | failure.
// Submitting a new proof cancels the review in flight.
type Audit struct {
	reviewer Reviewer
	onChange func(model.AuditStatus)

	mu     sync.Mutex
	status model.AuditStatus
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

// NewAudit starts in pending. onChange is called after every transition,
// outside the audit's lock.
func NewAudit(reviewer Reviewer, onChange func(model.AuditStatus)) *Audit {
	return &Audit{
		reviewer: reviewer,
		onChange: onChange,
		status:   model.AuditPending,
	}
}

func (a *Audit) Status() model.AuditStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Submit resets the status to pending and starts reviewing proof.
func (a *Audit) Submit(proof Proof) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.gen++
	gen := a.gen
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.status = model.AuditPending
	a.mu.Unlock()

	a.notify(model.AuditPending)

	go a.run(ctx, cancel, gen, proof)
}

// Close cancels the review in flight. No transition is reported afterwards.
func (a *Audit) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Audit) run(ctx context.Context, cancel context.CancelFunc, gen uint64, proof Proof) {
	defer cancel()

	status, err := a.reviewer.Review(ctx, proof)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		slog.Error("proof review failed", "error", err, "goal_id", proof.GoalID)
		status = model.AuditFailure
	}
	if !status.Valid() {
		status = model.AuditFailure
	}

	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.status = status
	a.cancel = nil
	a.mu.Unlock()

	slog.Info("proof reviewed", "goal_id", proof.GoalID, "status", status)
	a.notify(status)
}

func (a *Audit) notify(status model.AuditStatus) {
	if a.onChange != nil {
		a.onChange(status)
	}
}
