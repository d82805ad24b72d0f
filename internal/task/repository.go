package task

import (
	"context"
	"time"
)

// Filter narrows List results. Zero values mean "no constraint". All reads
// are scoped to a single owner.
type Filter struct {
	Status   Status
	Category Category
	Priority Priority
}

type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, userID string, filter Filter) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error

	// ListByParent returns the subtasks of a parent ordered by SubtaskOrder.
	ListByParent(ctx context.Context, parentTaskID string) ([]*Task, error)
	// ListCompletedByCategory returns up to limit completed tasks in the
	// category with a completion timestamp, most recent first.
	ListCompletedByCategory(ctx context.Context, userID string, category Category, limit int) ([]*Task, error)
	// ListDueBetween returns the owner's tasks whose DueAt falls within [from, to].
	ListDueBetween(ctx context.Context, userID string, from, to time.Time) ([]*Task, error)
	// ListByIDs resolves a set of task IDs, skipping unknown ones.
	ListByIDs(ctx context.Context, ids []string) ([]*Task, error)
}
