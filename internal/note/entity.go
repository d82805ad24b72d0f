package note

import (
	"time"

	"github.com/joymec19/smart-scheduler/internal/task"
)

// Note is a mental note: a short capture of something learned or noticed,
// optionally tied to the task the user was working on.
type Note struct {
	ID        string        `yaml:"id" json:"id"`
	UserID    string        `yaml:"user_id" json:"user_id"`
	Content   string        `yaml:"content" json:"content"`
	Category  task.Category `yaml:"category" json:"category"`
	Tags      []string      `yaml:"tags,omitempty" json:"tags,omitempty"`
	TaskID    string        `yaml:"task_id,omitempty" json:"task_id,omitempty"`
	CreatedAt time.Time     `yaml:"created_at" json:"created_at"`
}
