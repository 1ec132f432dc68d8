package stream

import (
	"sync"

	"sahara/pkg/queue"
)

// subscriberBuffer bounds how many events a slow client may lag behind
// before updates are dropped for it.
const subscriberBuffer = 16

// Broker fans committed post events out to live feed subscribers. Publish
// never blocks on a slow subscriber.
type Broker struct {
	mu          sync.Mutex
	closed      bool
	subscribers map[*Subscriber]struct{}
}

type Subscriber struct {
	broker *Broker
	ch     chan queue.PostEvent
	once   sync.Once
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[*Subscriber]struct{}),
	}
}

func (b *Broker) Subscribe() *Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscriber{
		broker: b,
		ch:     make(chan queue.PostEvent, subscriberBuffer),
	}
	if !b.closed {
		b.subscribers[sub] = struct{}{}
	} else {
		close(sub.ch)
	}
	return sub
}

func (b *Broker) Publish(event queue.PostEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subscribers {
		select {
		case sub.ch <- event:
		default:
			// Slow subscriber, drop the event for it.
		}
	}
}

// SubscriberCount reports how many live subscribers are attached.
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Close detaches every subscriber and rejects new ones.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, sub)
	}
}

// Events is the receive side of the subscription. The channel closes when
// the subscriber or the broker shuts down.
func (s *Subscriber) Events() <-chan queue.PostEvent {
	return s.ch
}

// Unsubscribe detaches from the broker. Safe to call more than once; after
// it returns no further events are delivered.
func (s *Subscriber) Unsubscribe() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		defer s.broker.mu.Unlock()

		if _, ok := s.broker.subscribers[s]; ok {
			delete(s.broker.subscribers, s)
			close(s.ch)
		}
	})
}
