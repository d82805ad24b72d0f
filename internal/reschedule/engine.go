package reschedule

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/joymec19/smart-scheduler/internal/task"
)

// bucket is a time-of-day window [Start, End) with the hour used when a slot
// in that window is suggested.
type bucket struct {
	Name        string
	Start       int
	End         int
	DefaultHour int
}

// Iteration order matters: ties favor morning.
var timeBuckets = []bucket{
	{Name: "morning", Start: 6, End: 12, DefaultHour: 9},
	{Name: "afternoon", Start: 12, End: 17, DefaultHour: 14},
	{Name: "evening", Start: 17, End: 22, DefaultHour: 18},
}

type priorityDefault struct {
	Bucket     string
	OffsetDays int
}

var priorityDefaults = map[task.Priority]priorityDefault{
	task.PriorityHigh:   {Bucket: "morning", OffsetDays: 1},
	task.PriorityMedium: {Bucket: "afternoon", OffsetDays: 1},
	task.PriorityLow:    {Bucket: "morning", OffsetDays: 6},
}

// Suggestion is a recommended reschedule slot with an explanation the UI
// shows verbatim.
type Suggestion struct {
	SuggestedDatetime time.Time `json:"suggested_datetime"`
	RationaleText     string    `json:"rationale_text"`
	ConfidenceScore   float64   `json:"confidence_score"`
}

// Engine recommends reschedule times from the user's completion-time
// histogram, with priority-keyed defaults when too little history exists.
type Engine struct {
	tasks task.Repository
	now   func() time.Time
}

func NewEngine(tasks task.Repository) *Engine {
	return &Engine{tasks: tasks, now: time.Now}
}

// NewEngineWithClock injects the time source, for deterministic slot tests.
func NewEngineWithClock(tasks task.Repository, now func() time.Time) *Engine {
	return &Engine{tasks: tasks, now: now}
}

// Suggest recommends a new due time for the task. A history fetch failure is
// logged and treated as an empty history rather than failing the caller.
func (e *Engine) Suggest(ctx context.Context, t *task.Task) *Suggestion {
	history, err := e.tasks.ListCompletedByCategory(ctx, t.UserID, t.Category, 20)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch completion history",
			slog.String("category", string(t.Category)), slog.Any("error", err))
	}

	var completions []time.Time
	for _, h := range history {
		if h.CompletedAt != nil {
			completions = append(completions, *h.CompletedAt)
		}
	}

	if len(completions) < 5 {
		def, ok := priorityDefaults[t.Priority]
		if !ok {
			def = priorityDefaults[task.PriorityMedium]
		}
		dayLabel := "tomorrow"
		if def.OffsetDays != 1 {
			dayLabel = fmt.Sprintf("in %d days", def.OffsetDays)
		}
		return &Suggestion{
			SuggestedDatetime: e.slotDatetime(def.Bucket, def.OffsetDays),
			RationaleText: fmt.Sprintf(
				"Not enough history for %s tasks yet. Based on your %s priority, we suggest the %s slot (%s) %s.",
				t.Category, t.Priority, def.Bucket, formatBucketTime(def.Bucket), dayLabel),
			ConfidenceScore: 0.3,
		}
	}

	counts := map[string]int{}
	for _, completedAt := range completions {
		if name, ok := bucketForHour(completedAt.Local().Hour()); ok {
			counts[name]++
		}
	}

	best := "morning"
	bestCount := -1
	for _, b := range timeBuckets {
		if counts[b.Name] > bestCount {
			best = b.Name
			bestCount = counts[b.Name]
		}
	}
	bestCount = counts[best]

	confidence := math.Min(0.5+float64(bestCount)/float64(len(completions))*0.5, 0.95)
	confidence = math.Round(confidence*100) / 100

	return &Suggestion{
		SuggestedDatetime: e.slotDatetime(best, 1),
		RationaleText: fmt.Sprintf(
			"You complete %s tasks most often in the %s — %d of your last %d completions happened then. We've picked %s tomorrow.",
			t.Category, best, bestCount, len(completions), formatBucketTime(best)),
		ConfidenceScore: confidence,
	}
}

func bucketForHour(hour int) (string, bool) {
	for _, b := range timeBuckets {
		if hour >= b.Start && hour < b.End {
			return b.Name, true
		}
	}
	return "", false
}

func (e *Engine) slotDatetime(bucketName string, offsetDays int) time.Time {
	hour := 9
	for _, b := range timeBuckets {
		if b.Name == bucketName {
			hour = b.DefaultHour
		}
	}
	day := e.now().AddDate(0, 0, offsetDays)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

func formatBucketTime(bucketName string) string {
	hour := 9
	for _, b := range timeBuckets {
		if b.Name == bucketName {
			hour = b.DefaultHour
		}
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour
	if hour > 12 {
		display = hour - 12
	}
	return fmt.Sprintf("%d:00 %s", display, suffix)
}
