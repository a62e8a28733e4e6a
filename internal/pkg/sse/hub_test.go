package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToSubscriber(t *testing.T) {
	hub := NewHub()
	events, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	other, cleanupOther := hub.Subscribe("user-2")
	defer cleanupOther()

	delivered := hub.Publish(Event{RecipientID: "user-1", Name: "leave.pending", Data: "x"})
	assert.Equal(t, 1, delivered)

	select {
	case ev := <-events:
		assert.Equal(t, "leave.pending", ev.Name)
	default:
		t.Fatal("expected an event for user-1")
	}

	select {
	case <-other:
		t.Fatal("user-2 must not receive user-1 events")
	default:
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	events, cleanup := hub.Subscribe("user-1")
	require.Equal(t, 1, hub.SubscriberCount("user-1"))

	cleanup()
	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("user-1"))

	_, ok := <-events
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Publish(Event{RecipientID: "user-1"}))
}

func TestHub_FullBufferDropsEvent(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	for i := 0; i < hub.bufferSize; i++ {
		require.Equal(t, 1, hub.Publish(Event{RecipientID: "user-1"}))
	}
	assert.Equal(t, 0, hub.Publish(Event{RecipientID: "user-1"}))
}
