package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/joymec19/smart-scheduler/internal/note"
	"github.com/joymec19/smart-scheduler/internal/task"
)

// Range selects the reporting window for the aggregations.
type Range string

const (
	RangeThisWeek  Range = "this_week"
	RangeLastWeek  Range = "last_week"
	RangeThisMonth Range = "this_month"
)

func (r Range) Valid() bool {
	switch r {
	case RangeThisWeek, RangeLastWeek, RangeThisMonth:
		return true
	}
	return false
}

// DateRange resolves a named range relative to now. Weeks start Monday 00:00
// local time; this_week and this_month end today at 23:59:59.999, last_week
// covers the preceding Monday through Sunday.
func DateRange(now time.Time, r Range) (time.Time, time.Time) {
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999000000, now.Location())

	switch r {
	case RangeThisWeek:
		day := int(now.Weekday())
		if day == 0 {
			day = 7
		}
		start := now.AddDate(0, 0, -(day - 1))
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
		return start, endOfToday

	case RangeLastWeek:
		day := int(now.Weekday())
		if day == 0 {
			day = 7
		}
		start := now.AddDate(0, 0, -(day-1)-7)
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 0, 6)
		end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999000000, now.Location())
		return start, end
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, endOfToday
}

// RateResult carries the completion percentage with its raw counts.
type RateResult struct {
	Rate      int `json:"rate"`
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Insight is a short coaching message ready for display.
type Insight struct {
	ID    string `json:"id"`
	Icon  string `json:"icon"`
	Text  string `json:"text"`
	Route string `json:"route"`
}

// Engine aggregates weekly completion, accuracy, and note-taking stats into
// short natural-language insights.
type Engine struct {
	tasks task.Repository
	notes note.Repository
	now   func() time.Time
}

func NewEngine(tasks task.Repository, notes note.Repository) *Engine {
	return &Engine{tasks: tasks, notes: notes, now: time.Now}
}

// NewEngineWithClock injects the time source for deterministic range tests.
func NewEngineWithClock(tasks task.Repository, notes note.Repository, now func() time.Time) *Engine {
	return &Engine{tasks: tasks, notes: notes, now: now}
}

// CompletionRate reports what share of tasks due in the range completed.
func (e *Engine) CompletionRate(ctx context.Context, userID string, r Range) (*RateResult, error) {
	from, to := DateRange(e.now(), r)
	due, err := e.tasks.ListDueBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return &RateResult{}, nil
	}
	completed := 0
	for _, t := range due {
		if t.Status == task.StatusCompleted {
			completed++
		}
	}
	return &RateResult{
		Rate:      roundPercent(completed, len(due)),
		Total:     len(due),
		Completed: completed,
	}, nil
}

// MissedByCategory counts missed tasks due in the range, per category.
func (e *Engine) MissedByCategory(ctx context.Context, userID string, r Range) (map[task.Category]int, error) {
	from, to := DateRange(e.now(), r)
	due, err := e.tasks.ListDueBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	counts := map[task.Category]int{}
	for _, t := range due {
		if t.Status == task.StatusMissed {
			counts[t.Category]++
		}
	}
	return counts, nil
}

// TimeAccuracy returns round(sum(actual)/sum(estimated)*100) over completed
// tasks in the range carrying both fields, or nil when none qualify.
func (e *Engine) TimeAccuracy(ctx context.Context, userID string, r Range) (*int, error) {
	from, to := DateRange(e.now(), r)
	due, err := e.tasks.ListDueBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	totalEst, totalAct := 0, 0
	qualifying := false
	for _, t := range due {
		if t.Status != task.StatusCompleted || t.EstimatedMinutes <= 0 || t.ActualMinutes <= 0 {
			continue
		}
		qualifying = true
		totalEst += t.EstimatedMinutes
		totalAct += t.ActualMinutes
	}
	if !qualifying || totalEst == 0 {
		return nil, nil
	}
	accuracy := roundPercent(totalAct, totalEst)
	return &accuracy, nil
}

// NotesCreatedByCategory counts notes created in the range, per category.
func (e *Engine) NotesCreatedByCategory(ctx context.Context, userID string, r Range) (map[task.Category]int, error) {
	from, to := DateRange(e.now(), r)
	notes, err := e.notes.ListCreatedBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	counts := map[task.Category]int{}
	for _, n := range notes {
		counts[n.Category]++
	}
	return counts, nil
}

// GenerateInsights fetches this week's aggregates in parallel and derives up
// to three display strings, in a stable order: completion, missed category,
// time accuracy, note habit.
func (e *Engine) GenerateInsights(ctx context.Context, userID string) ([]Insight, error) {
	var (
		rate     *RateResult
		missed   map[task.Category]int
		accuracy *int
		noteCats map[task.Category]int
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		rate, err = e.CompletionRate(ctx, userID, RangeThisWeek)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		missed, err = e.MissedByCategory(ctx, userID, RangeThisWeek)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		accuracy, err = e.TimeAccuracy(ctx, userID, RangeThisWeek)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		noteCats, err = e.NotesCreatedByCategory(ctx, userID, RangeThisWeek)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var insights []Insight

	if rate.Total > 0 {
		if rate.Rate >= 80 {
			insights = append(insights, Insight{
				ID:    "comp_high",
				Icon:  "🏆",
				Text:  fmt.Sprintf("%d%% completion rate this week — outstanding! Keep the streak alive.", rate.Rate),
				Route: "/tasks",
			})
		} else if rate.Rate < 50 && rate.Total >= 3 {
			insights = append(insights, Insight{
				ID:    "comp_low",
				Icon:  "⚡",
				Text:  fmt.Sprintf("%d%% tasks done this week. Try breaking them into 15-min chunks to build momentum.", rate.Rate),
				Route: "/tasks",
			})
		}
	}

	if cat, count := worstCategory(missed); count > 0 {
		plural := ""
		if count > 1 {
			plural = "s"
		}
		insights = append(insights, Insight{
			ID:    "missed_cat",
			Icon:  "📋",
			Text:  fmt.Sprintf("You missed %d %s task%s this week. Try scheduling them before noon.", count, cat, plural),
			Route: "/tasks",
		})
	}

	if accuracy != nil {
		if *accuracy > 130 {
			insights = append(insights, Insight{
				ID:    "time_over",
				Icon:  "⏱",
				Text:  fmt.Sprintf("Tasks are taking %d%% of estimated time. Add a 30%% buffer when planning next week.", *accuracy),
				Route: "/tasks",
			})
		} else if *accuracy < 70 {
			insights = append(insights, Insight{
				ID:    "time_under",
				Icon:  "🚀",
				Text:  fmt.Sprintf("You finish tasks in just %d%% of your estimates — you're faster than you think!", *accuracy),
				Route: "/tasks",
			})
		}
	}

	totalNotes := 0
	for _, count := range noteCats {
		totalNotes += count
	}
	if totalNotes >= 3 {
		topCat, _ := worstCategory(noteCats)
		insights = append(insights, Insight{
			ID:    "notes_habit",
			Icon:  "📝",
			Text:  fmt.Sprintf("You captured %d notes this week — mostly %s. Review them to spot recurring themes.", totalNotes, topCat),
			Route: "/notes",
		})
	}

	if len(insights) > 3 {
		insights = insights[:3]
	}
	return insights, nil
}

// worstCategory returns the category with the highest count.
func worstCategory(counts map[task.Category]int) (task.Category, int) {
	var top task.Category
	topCount := 0
	for cat, count := range counts {
		if count > topCount {
			top = cat
			topCount = count
		}
	}
	return top, topCount
}

func roundPercent(part, whole int) int {
	return int(float64(part)/float64(whole)*100 + 0.5)
}
