package nudge

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, n *Nudge) error
	Get(ctx context.Context, id string) (*Nudge, error)
	Update(ctx context.Context, n *Nudge) error
	// ListTriggeredBetween returns the user's non-dismissed nudges whose
	// TriggeredAt falls in [from, to]. Used for the daily cap check.
	ListTriggeredBetween(ctx context.Context, userID string, from, to time.Time) ([]*Nudge, error)
	// ListSurfaced returns nudges that should be shown: neither dismissed
	// nor acted, with TriggeredAt at or before now.
	ListSurfaced(ctx context.Context, userID string, now time.Time) ([]*Nudge, error)
}
