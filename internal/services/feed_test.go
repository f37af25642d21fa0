package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedHubDeliversToAllSubscribers(t *testing.T) {
	hub := NewFeedHub()

	a, unsubA := hub.Subscribe()
	b, unsubB := hub.Subscribe()
	defer unsubA()
	defer unsubB()

	evt := FeedEvent{Type: "entry_created", Timestamp: time.Now().UTC()}
	hub.Publish(evt)

	for _, ch := range []<-chan FeedEvent{a, b} {
		select {
		case got := <-ch:
			assert.Equal(t, "entry_created", got.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestFeedHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewFeedHub()

	ch, unsub := hub.Subscribe()
	unsub()

	_, open := <-ch
	assert.False(t, open)

	// Double unsubscribe is a no-op
	unsub()

	// Publishing after unsubscribe must not panic
	hub.Publish(FeedEvent{Type: "vent_created"})
}

func TestFeedHubNeverBlocksPublisher(t *testing.T) {
	hub := NewFeedHub()

	_, unsub := hub.Subscribe()
	defer unsub()

	// Fill the subscriber buffer well past capacity; Publish must stay
	// non-blocking and simply drop the overflow.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(FeedEvent{Type: "entry_created"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}

func TestFeedHubSubscribersAreIndependent(t *testing.T) {
	hub := NewFeedHub()

	a, unsubA := hub.Subscribe()
	_, unsubB := hub.Subscribe()
	unsubB()

	hub.Publish(FeedEvent{Type: "entry_created"})

	select {
	case got := <-a:
		require.Equal(t, "entry_created", got.Type)
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber did not receive event")
	}
	unsubA()
}
