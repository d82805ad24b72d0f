package eventbus

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type EventType string

const (
	EventTaskCreated     EventType = "task_created"
	EventTaskCompleted   EventType = "task_completed"
	EventTaskMissed      EventType = "task_missed"
	EventTaskRescheduled EventType = "rescheduled"
	EventTaskDecomposed  EventType = "task_decomposed"
)

type Event struct {
	ID        string
	Type      EventType
	UserID    string
	TaskID    string
	Payload   map[string]any
	CreatedAt time.Time
}

type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan *Event
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[string]chan *Event),
	}
}

func (b *Bus) Subscribe(bufSize int) (string, <-chan *Event) {
	id := ulid.Make().String()
	ch := make(chan *Event, bufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// buffer full, drop event for this subscriber
		}
	}
}

func (b *Bus) PublishNew(eventType EventType, userID, taskID string, payload map[string]any) {
	b.Publish(&Event{
		ID:        ulid.Make().String(),
		Type:      eventType,
		UserID:    userID,
		TaskID:    taskID,
		Payload:   payload,
		CreatedAt: time.Now(),
	})
}
