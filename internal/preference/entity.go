package preference

import "time"

// Granularity expresses how finely a user wants tasks broken down.
type Granularity string

const (
	GranularityFewerSteps Granularity = "fewer_steps"
	GranularityBalanced   Granularity = "balanced"
	GranularityMoreDetail Granularity = "more_detail"
)

func (g Granularity) Valid() bool {
	switch g {
	case GranularityFewerSteps, GranularityBalanced, GranularityMoreDetail:
		return true
	}
	return false
}

// Preference holds a user's decomposition tuning. PreferredChunkMinutes of
// zero means no chunking is applied.
type Preference struct {
	UserID                string      `yaml:"user_id" json:"user_id"`
	PreferredChunkMinutes int         `yaml:"preferred_chunk_minutes,omitempty" json:"preferred_chunk_minutes,omitempty"`
	Granularity           Granularity `yaml:"granularity" json:"granularity"`
	UpdatedAt             time.Time   `yaml:"updated_at" json:"updated_at"`
}

func Default(userID string) *Preference {
	return &Preference{
		UserID:      userID,
		Granularity: GranularityBalanced,
	}
}
