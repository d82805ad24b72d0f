package task

import "time"

type Category string

const (
	CategoryLearning Category = "learning"
	CategoryWork     Category = "work"
	CategoryHealth   Category = "health"
	CategoryPersonal Category = "personal"
	CategoryInfo     Category = "info"
	CategoryCreative Category = "creative"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryLearning, CategoryWork, CategoryHealth, CategoryPersonal, CategoryInfo, CategoryCreative:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
)

// DecompositionSource records how a subtask row came to exist.
type DecompositionSource string

const (
	SourceTemplate   DecompositionSource = "template"
	SourceUserCustom DecompositionSource = "user_custom"
)

// Task is the central entity. A subtask is a Task with IsSubtask set and a
// ParentTaskID; SubtaskOrder is contiguous 1..N within a sibling group.
type Task struct {
	ID                  string              `yaml:"id" json:"id"`
	UserID              string              `yaml:"user_id" json:"user_id"`
	Title               string              `yaml:"title" json:"title"`
	Category            Category            `yaml:"category" json:"category"`
	Priority            Priority            `yaml:"priority" json:"priority"`
	Status              Status              `yaml:"status" json:"status"`
	DueAt               *time.Time          `yaml:"due_at,omitempty" json:"due_at,omitempty"`
	EstimatedMinutes    int                 `yaml:"estimated_minutes,omitempty" json:"estimated_minutes,omitempty"`
	ActualMinutes       int                 `yaml:"actual_minutes,omitempty" json:"actual_minutes,omitempty"`
	RescheduleCount     int                 `yaml:"reschedule_count" json:"reschedule_count"`
	ParentTaskID        string              `yaml:"parent_task_id,omitempty" json:"parent_task_id,omitempty"`
	IsSubtask           bool                `yaml:"is_subtask" json:"is_subtask"`
	SubtaskOrder        int                 `yaml:"subtask_order,omitempty" json:"subtask_order,omitempty"`
	IsBlocking          bool                `yaml:"is_blocking" json:"is_blocking"`
	DecompositionSource DecompositionSource `yaml:"decomposition_source,omitempty" json:"decomposition_source,omitempty"`
	CompletedAt         *time.Time          `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt           time.Time           `yaml:"created_at" json:"created_at"`
	UpdatedAt           time.Time           `yaml:"updated_at" json:"updated_at"`
}
