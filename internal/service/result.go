package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mochitomo/mochitomo/internal/model"
	"github.com/mochitomo/mochitomo/internal/store"
)

var (
	ErrPageNotFound = errors.New("result page not found")
	ErrPageClosed   = errors.New("result page closed")
)

// ResultState is everything the goal result page shows.
type ResultState struct {
	GoalID    string
	Views     model.GoalViews
	HasGoal   bool
	Status    model.AuditStatus
	ProofName string
	LoadErr   error // last snapshot could not be loaded; a reload may help
}

// ResultPage is one open goal result page. It follows the live goal
// record set until closed.
type ResultPage struct {
	ID string

	sub     *store.Subscription
	audit   *Audit
	updates *store.Mailbox[ResultState]
	done    chan struct{}

	mu        sync.Mutex
	latest    model.GoalRecord
	hasGoal   bool
	proofName string
	loadErr   error
	closed    bool
	openedAt  time.Time
	streams   int
}

// State returns the current page state.
func (p *ResultPage) State() ResultState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// Updates delivers the newest state after every change. Unread states are
// replaced by newer ones.
func (p *ResultPage) Updates() <-chan ResultState {
	return p.updates.C()
}

// Done is closed when the page is closed.
func (p *ResultPage) Done() <-chan struct{} {
	return p.done
}

// SubmitProof records the selected proof and starts its review. The
// status is pending right away.
func (p *ResultPage) SubmitProof(fileName string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPageClosed
	}
	p.proofName = fileName
	goalID := p.latest.ID
	p.mu.Unlock()

	p.audit.Submit(Proof{GoalID: goalID, FileName: fileName})
	return nil
}

// Close stops following the record set and cancels a review in flight.
// After Close returns no further state is published.
func (p *ResultPage) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	p.sub.Unsubscribe()
	p.audit.Close()
}

func (p *ResultPage) follow() {
	for {
		select {
		case <-p.done:
			return
		case <-p.sub.Done():
			return
		case snap := <-p.sub.C():
			p.apply(snap)
		}
	}
}

// apply recomputes the page from a full snapshot.
func (p *ResultPage) apply(snap store.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	if snap.Err != nil {
		p.loadErr = snap.Err
		p.publishLocked()
		return
	}

	p.loadErr = nil
	p.latest, p.hasGoal = LatestRecord(snap.Items)
	p.publishLocked()
}

func (p *ResultPage) statusChanged(model.AuditStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.publishLocked()
}

func (p *ResultPage) publishLocked() {
	p.updates.Offer(p.stateLocked())
}

func (p *ResultPage) stateLocked() ResultState {
	status := p.audit.Status()
	st := ResultState{
		Status:    status,
		ProofName: p.proofName,
		HasGoal:   p.hasGoal,
		LoadErr:   p.loadErr,
	}
	if p.hasGoal {
		st.GoalID = p.latest.ID
		st.Views = ViewsFor(p.latest, status)
	}
	return st
}

// ResultService keeps the open result pages.
type ResultService struct {
	store    GoalStore
	reviewer Reviewer
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	pages map[string]*ResultPage
	stop  chan struct{}
	once  sync.Once
}

// NewResultService starts a cleanup loop that closes pages nobody is
// streaming once they are older than ttl.
func NewResultService(store GoalStore, reviewer Reviewer, ttl time.Duration) *ResultService {
	s := &ResultService{
		store:    store,
		reviewer: reviewer,
		ttl:      ttl,
		now:      time.Now,
		pages:    make(map[string]*ResultPage),
		stop:     make(chan struct{}),
	}

	go s.cleanupLoop()

	return s
}

// Open creates a page following the live goal record set.
func (s *ResultService) Open(ctx context.Context) (*ResultPage, error) {
	sub, err := s.store.ObserveQuery(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}

	p := &ResultPage{
		ID:       uuid.New().String(),
		sub:      sub,
		updates:  store.NewMailbox[ResultState](),
		done:     make(chan struct{}),
		openedAt: s.now(),
	}
	p.audit = NewAudit(s.reviewer, p.statusChanged)

	s.mu.Lock()
	s.pages[p.ID] = p
	s.mu.Unlock()

	go p.follow()

	slog.Debug("result page opened", "page_id", p.ID)
	return p, nil
}

func (s *ResultService) Page(id string) (*ResultPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages[id]
	if !ok {
		return nil, ErrPageNotFound
	}
	return p, nil
}

// Attach marks the page as streamed to a client. The returned release
// func must be called when the stream ends.
func (s *ResultService) Attach(id string) (*ResultPage, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages[id]
	if !ok {
		return nil, nil, ErrPageNotFound
	}

	p.mu.Lock()
	p.streams++
	p.mu.Unlock()

	release := func() {
		p.mu.Lock()
		p.streams--
		p.mu.Unlock()
	}
	return p, release, nil
}

// Close closes and forgets a page. Unknown ids are ignored.
func (s *ResultService) Close(id string) {
	s.mu.Lock()
	p, ok := s.pages[id]
	delete(s.pages, id)
	s.mu.Unlock()

	if ok {
		p.Close()
		slog.Debug("result page closed", "page_id", id)
	}
}

// OpenPages returns the number of open pages.
func (s *ResultService) OpenPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Shutdown closes every page and stops the cleanup loop.
func (s *ResultService) Shutdown() {
	s.once.Do(func() { close(s.stop) })

	s.mu.Lock()
	pages := s.pages
	s.pages = make(map[string]*ResultPage)
	s.mu.Unlock()

	for _, p := range pages {
		p.Close()
	}
}

func (s *ResultService) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup closes pages that are past ttl and not being streamed.
func (s *ResultService) cleanup() {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var stale []*ResultPage
	for id, p := range s.pages {
		p.mu.Lock()
		idle := p.streams == 0 && p.openedAt.Before(cutoff)
		p.mu.Unlock()
		if idle {
			stale = append(stale, p)
			delete(s.pages, id)
		}
	}
	s.mu.Unlock()

	for _, p := range stale {
		p.Close()
	}
	if len(stale) > 0 {
		slog.Debug("closed idle result pages", "count", len(stale))
	}
}
