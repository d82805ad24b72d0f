package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	id, ch := bus.Subscribe(4)
	defer bus.Unsubscribe(id)

	bus.PublishNew(EventTaskCompleted, "u1", "t1", map[string]any{"actual_minutes": 45})

	select {
	case event := <-ch:
		assert.Equal(t, EventTaskCompleted, event.Type)
		assert.Equal(t, "u1", event.UserID)
		assert.Equal(t, "t1", event.TaskID)
		assert.Equal(t, 45, event.Payload["actual_minutes"])
		assert.NotEmpty(t, event.ID)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered within timeout")
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := New()
	id1, ch1 := bus.Subscribe(1)
	defer bus.Unsubscribe(id1)
	id2, ch2 := bus.Subscribe(1)
	defer bus.Unsubscribe(id2)

	bus.PublishNew(EventTaskCreated, "u1", "t1", nil)

	for _, ch := range []<-chan *Event{ch1, ch2} {
		select {
		case event := <-ch:
			assert.Equal(t, EventTaskCreated, event.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBus_DropsWhenBufferFull(t *testing.T) {
	bus := New()
	id, ch := bus.Subscribe(1)
	defer bus.Unsubscribe(id)

	bus.PublishNew(EventTaskCreated, "u1", "t1", nil)
	bus.PublishNew(EventTaskMissed, "u1", "t2", nil)

	event := <-ch
	assert.Equal(t, EventTaskCreated, event.Type)

	select {
	case event := <-ch:
		t.Fatalf("expected second event to be dropped, got %s", event.Type)
	default:
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := New()
	id, ch := bus.Subscribe(1)

	bus.Unsubscribe(id)

	_, ok := <-ch
	require.False(t, ok)

	// Publishing after unsubscribe must not panic.
	bus.PublishNew(EventTaskCreated, "u1", "t1", nil)
}
