package note

import (
	"context"
	"time"

	"github.com/joymec19/smart-scheduler/internal/task"
)

type Filter struct {
	Category task.Category
	Tag      string
}

type Repository interface {
	Create(ctx context.Context, n *Note) error
	// List returns the user's notes newest first, narrowed by any non-zero
	// filter fields.
	List(ctx context.Context, userID string, filter Filter) ([]*Note, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Note, error)
	// ListCreatedBetween returns notes whose creation time falls in
	// [from, to], used for weekly insight aggregation.
	ListCreatedBetween(ctx context.Context, userID string, from, to time.Time) ([]*Note, error)
}
