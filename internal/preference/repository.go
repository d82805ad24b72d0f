package preference

import "context"

type Repository interface {
	// Get returns the stored preference for the user, or Default when none
	// has been saved yet.
	Get(ctx context.Context, userID string) (*Preference, error)
	Upsert(ctx context.Context, pref *Preference) error
}
