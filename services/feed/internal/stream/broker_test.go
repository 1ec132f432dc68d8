package stream

import (
	"testing"
	"time"

	"sahara/pkg/queue"

	"github.com/stretchr/testify/assert"
)

func TestBroker_PublishReachesAllSubscribers(t *testing.T) {
	broker := NewBroker()
	defer broker.Close()

	first := broker.Subscribe()
	second := broker.Subscribe()

	broker.Publish(queue.PostEvent{PostID: "post-1"})

	select {
	case event := <-first.Events():
		assert.Equal(t, "post-1", event.PostID)
	case <-time.After(time.Second):
		t.Fatal("first subscriber never received the event")
	}

	select {
	case event := <-second.Events():
		assert.Equal(t, "post-1", event.PostID)
	case <-time.After(time.Second):
		t.Fatal("second subscriber never received the event")
	}
}

func TestBroker_UnsubscribeStopsDelivery(t *testing.T) {
	broker := NewBroker()
	defer broker.Close()

	sub := broker.Subscribe()
	assert.Equal(t, 1, broker.SubscriberCount())

	sub.Unsubscribe()
	assert.Equal(t, 0, broker.SubscriberCount())

	// The channel is closed exactly once; a second call is a no-op.
	sub.Unsubscribe()

	_, open := <-sub.Events()
	assert.False(t, open)

	broker.Publish(queue.PostEvent{PostID: "post-2"})
}

func TestBroker_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	broker := NewBroker()
	defer broker.Close()

	sub := broker.Subscribe()
	defer sub.Unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			broker.Publish(queue.PostEvent{PostID: "post"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestBroker_CloseDetachesSubscribers(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe()

	broker.Close()

	_, open := <-sub.Events()
	assert.False(t, open)
	assert.Equal(t, 0, broker.SubscriberCount())

	// Subscribing after close yields an already-closed channel.
	late := broker.Subscribe()
	_, open = <-late.Events()
	assert.False(t, open)
}
