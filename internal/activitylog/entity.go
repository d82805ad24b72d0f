package activitylog

import "time"

type EventType string

const (
	EventRescheduled    EventType = "rescheduled"
	EventTaskCompleted  EventType = "task_completed"
	EventTaskMissed     EventType = "task_missed"
	EventTaskDecomposed EventType = "task_decomposed"
)

// Payload carries the event-specific fields. Only the fields relevant to the
// event type are set.
type Payload struct {
	From              *time.Time `yaml:"from,omitempty" json:"from,omitempty"`
	To                *time.Time `yaml:"to,omitempty" json:"to,omitempty"`
	RescheduleCount   int        `yaml:"reschedule_count,omitempty" json:"reschedule_count,omitempty"`
	Rationale         string     `yaml:"rationale,omitempty" json:"rationale,omitempty"`
	EstimatedMinutes  int        `yaml:"estimated_minutes,omitempty" json:"estimated_minutes,omitempty"`
	ActualMinutes     int        `yaml:"actual_minutes,omitempty" json:"actual_minutes,omitempty"`
	SubtasksGenerated int        `yaml:"subtasks_generated,omitempty" json:"subtasks_generated,omitempty"`
	TemplateID        string     `yaml:"template_id,omitempty" json:"template_id,omitempty"`
}

// Entry is an append-only audit record. Entries are never updated or deleted.
type Entry struct {
	ID        string    `yaml:"id" json:"id"`
	UserID    string    `yaml:"user_id" json:"user_id"`
	TaskID    string    `yaml:"task_id" json:"task_id"`
	EventType EventType `yaml:"event_type" json:"event_type"`
	Payload   Payload   `yaml:"payload" json:"payload"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}
