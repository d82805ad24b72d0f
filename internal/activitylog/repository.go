package activitylog

import "context"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	// ListRecentByTypes returns up to limit entries of the given types for
	// the owner, most recent first.
	ListRecentByTypes(ctx context.Context, userID string, types []EventType, limit int) ([]*Entry, error)
}
