package store

// Mailbox is a single-slot channel where a newer value replaces an unread
// older one. Senders never block.
type Mailbox[T any] struct {
	ch chan T
}

func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

// C is the receive side.
func (m *Mailbox[T]) C() <-chan T {
	return m.ch
}

// Offer stores v, dropping an unread previous value.
// Concurrent Offer calls must be serialized by the caller.
func (m *Mailbox[T]) Offer(v T) {
	for {
		select {
		case m.ch <- v:
			return
		default:
		}
		select {
		case <-m.ch:
		default:
		}
	}
}
