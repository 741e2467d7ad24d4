package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mochitomo/mochitomo/internal/model"
	"github.com/mochitomo/mochitomo/internal/repository"
)

// Snapshot is the full goal record set at one point in time.
// Err is set when the set could not be loaded; Items is then empty.
type Snapshot struct {
	Items []model.GoalRecord
	Err   error
}

// Subscription receives a Snapshot after it is opened and after every
// change. Only the newest undelivered snapshot is kept.
type Subscription struct {
	id    uint64
	box   *Mailbox[Snapshot]
	done  chan struct{}
	once  sync.Once
	store *GoalStore
}

func (s *Subscription) C() <-chan Snapshot {
	return s.box.C()
}

// Done is closed once the subscription is torn down.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe stops delivery. It is safe to call more than once and
// before any snapshot has arrived.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.store.remove(s.id)
		close(s.done)
	})
}

func (s *Subscription) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// GoalStore persists goal records and pushes the record set to live
// subscribers after every write.
type GoalStore struct {
	repo repository.GoalRecordRepository
	now  func() time.Time

	publishMu sync.Mutex // serializes load+deliver so snapshots arrive in write order

	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
}

func NewGoalStore(repo repository.GoalRecordRepository) *GoalStore {
	return &GoalStore{
		repo: repo,
		now:  time.Now,
		subs: make(map[uint64]*Subscription),
	}
}

// Create stores a new record stamped with an id and creation time.
func (s *GoalStore) Create(ctx context.Context, record *model.GoalRecord) (*model.GoalRecord, error) {
	created := *record
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	createdAt := s.now().UTC()
	created.CreatedAt = &createdAt

	err := s.repo.Create(ctx, &created)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal record: %w", err)
	}

	s.publish(context.WithoutCancel(ctx))

	return &created, nil
}

// ObserveQuery opens a live query over all goal records. The subscription
// ends when ctx is done or Unsubscribe is called.
func (s *GoalStore) ObserveQuery(ctx context.Context) (*Subscription, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.nextID++
	sub := &Subscription{
		id:    s.nextID,
		box:   NewMailbox[Snapshot](),
		done:  make(chan struct{}),
		store: s,
	}
	s.subs[sub.id] = sub
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-sub.done:
		}
	}()

	go s.deliver(context.WithoutCancel(ctx), sub)

	return sub, nil
}

// Subscribers returns the number of open subscriptions.
func (s *GoalStore) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close tears down every open subscription.
func (s *GoalStore) Close() {
	s.mu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (s *GoalStore) remove(id uint64) {
	s.mu.Lock()
	delete(s.subs, id)
	s.mu.Unlock()
}

// deliver sends the current record set to a single new subscriber.
func (s *GoalStore) deliver(ctx context.Context, sub *Subscription) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	if sub.closed() {
		return
	}
	snapshot := s.load(ctx)
	if sub.closed() {
		return
	}
	sub.box.Offer(snapshot)
}

// publish sends the current record set to every subscriber.
func (s *GoalStore) publish(ctx context.Context) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	snapshot := s.load(ctx)
	for _, sub := range subs {
		if !sub.closed() {
			sub.box.Offer(snapshot)
		}
	}
}

func (s *GoalStore) load(ctx context.Context) Snapshot {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	items, err := s.repo.All(ctx)
	if err != nil {
		slog.Error("failed to load goal records", "error", err)
		return Snapshot{Err: fmt.Errorf("failed to load goal records: %w", err)}
	}
	return Snapshot{Items: items}
}
