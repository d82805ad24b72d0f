package decomposition

import (
	"context"

	"github.com/joymec19/smart-scheduler/internal/task"
)

type TemplateRepository interface {
	Create(ctx context.Context, tpl *Template) error
	Update(ctx context.Context, tpl *Template) error
	Get(ctx context.Context, id string) (*Template, error)
	// FindUserTemplate returns the user's non-system template for the
	// (category, subType) pair with the highest usage count, or nil when
	// none exists.
	FindUserTemplate(ctx context.Context, userID string, category task.Category, subType SubType) (*Template, error)
	// IncrementUsage bumps the template's usage count by one.
	IncrementUsage(ctx context.Context, id string) error
}

type LogRepository interface {
	Create(ctx context.Context, log *Log) error
	Get(ctx context.Context, id string) (*Log, error)
	// UpdateEdits replaces the log's edit list and returns the updated row.
	UpdateEdits(ctx context.Context, id string, edits []Edit) (*Log, error)
	// ListRecentWithEdits returns the user's newest logs that carry at least
	// one edit, newest first, up to limit.
	ListRecentWithEdits(ctx context.Context, userID string, limit int) ([]*Log, error)
	// ListRecent returns the user's newest logs regardless of edits.
	ListRecent(ctx context.Context, userID string, limit int) ([]*Log, error)
}
