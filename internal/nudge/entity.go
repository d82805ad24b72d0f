package nudge

import "time"

type Type string

const (
	TypePattern        Type = "pattern"
	TypeMomentum       Type = "momentum"
	TypeContentCapture Type = "content_capture"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusActed     Status = "acted"
	StatusDismissed Status = "dismissed"
)

// Nudge is a short-lived advisory card generated from a behavioral rule.
// Acted and dismissed are terminal; snoozing pushes TriggeredAt forward an
// hour. Nudges are never hard-deleted.
type Nudge struct {
	ID          string    `yaml:"id" json:"id"`
	UserID      string    `yaml:"user_id" json:"user_id"`
	Type        Type      `yaml:"type" json:"type"`
	Title       string    `yaml:"title" json:"title"`
	Message     string    `yaml:"message" json:"message"`
	ImpactScore float64   `yaml:"impact_score" json:"impact_score"`
	Status      Status    `yaml:"status" json:"status"`
	TriggeredAt time.Time `yaml:"triggered_at" json:"triggered_at"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
}
