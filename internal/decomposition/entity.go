package decomposition

import (
	"time"

	"github.com/joymec19/smart-scheduler/internal/task"
)

// SubType narrows a category template to a finer-grained step list.
// Empty means no sub-type applies.
type SubType string

const SubTypeLongFormArticle SubType = "long_form_article"

// Step is a transient subtask draft produced by the engine before it is
// persisted as a Task row.
type Step struct {
	Title            string        `json:"title"`
	EstimatedMinutes int           `json:"estimated_minutes"`
	Order            int           `json:"order"`
	IsBlocking       bool          `json:"is_blocking"`
	Category         task.Category `json:"category"`
	// SplitSuggestion signals the UI to visually suggest an explicit split
	// when the user has repeatedly deleted steps like this one.
	SplitSuggestion bool `json:"split_suggestion,omitempty"`
}

type TemplateStep struct {
	Title            string `yaml:"title" json:"title"`
	EstimatedMinutes int    `yaml:"estimated_minutes" json:"estimated_minutes"`
	IsBlocking       bool   `yaml:"is_blocking" json:"is_blocking"`
	Order            int    `yaml:"order,omitempty" json:"order,omitempty"`
}

// Template is a stored step list. System templates have no owner; at most one
// non-system template exists per (owner, category, sub-type).
type Template struct {
	ID         string         `yaml:"id" json:"id"`
	UserID     string         `yaml:"user_id,omitempty" json:"user_id,omitempty"`
	Category   task.Category  `yaml:"category" json:"category"`
	SubType    SubType        `yaml:"sub_type,omitempty" json:"sub_type,omitempty"`
	Priority   task.Priority  `yaml:"priority,omitempty" json:"priority,omitempty"`
	Steps      []TemplateStep `yaml:"steps" json:"steps"`
	IsSystem   bool           `yaml:"is_system" json:"is_system"`
	UsageCount int            `yaml:"usage_count" json:"usage_count"`
	CreatedAt  time.Time      `yaml:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `yaml:"updated_at" json:"updated_at"`
}

type EditAction string

const (
	EditDeleted   EditAction = "deleted"
	EditRenamed   EditAction = "renamed"
	EditMerged    EditAction = "merged"
	EditReordered EditAction = "reordered"
)

// Edit describes one user modification to a generated step list. Which fields
// are set depends on Action: deleted uses StepTitle; renamed uses From/To;
// merged uses Steps/Into; reordered uses StepTitle/ToOrder.
type Edit struct {
	Action    EditAction `yaml:"action" json:"action"`
	StepTitle string     `yaml:"step_title,omitempty" json:"step_title,omitempty"`
	From      string     `yaml:"from,omitempty" json:"from,omitempty"`
	To        string     `yaml:"to,omitempty" json:"to,omitempty"`
	Steps     []string   `yaml:"steps,omitempty" json:"steps,omitempty"`
	Into      string     `yaml:"into,omitempty" json:"into,omitempty"`
	ToOrder   int        `yaml:"to_order,omitempty" json:"to_order,omitempty"`
}

// QA captures the clarifying question shown to the user and their answer.
type QA struct {
	Question string `yaml:"question,omitempty" json:"question,omitempty"`
	Answer   string `yaml:"answer,omitempty" json:"answer,omitempty"`
}

// Log records one decomposition run. Created once per run; UserEdits is
// filled in later when the user adjusts the generated steps.
type Log struct {
	ID                       string    `yaml:"id" json:"id"`
	UserID                   string    `yaml:"user_id" json:"user_id"`
	ParentTaskID             string    `yaml:"parent_task_id" json:"parent_task_id"`
	TemplateID               string    `yaml:"template_id,omitempty" json:"template_id,omitempty"`
	OriginalEstimatedMinutes int       `yaml:"original_estimated_minutes" json:"original_estimated_minutes"`
	SubtasksGenerated        int       `yaml:"subtasks_generated" json:"subtasks_generated"`
	UserEdits                []Edit    `yaml:"user_edits" json:"user_edits"`
	ClarifyingAnswers        QA        `yaml:"clarifying_answers" json:"clarifying_answers"`
	CreatedAt                time.Time `yaml:"created_at" json:"created_at"`
}
