package suggestion

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/joymec19/smart-scheduler/internal/activitylog"
	"github.com/joymec19/smart-scheduler/internal/task"
)

// SplitStep is one half of a proposed task split.
type SplitStep struct {
	Title            string `json:"title"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	IsBlocking       bool   `json:"is_blocking"`
}

// PatternSuggestion proposes a concrete split for a step type the user keeps
// putting off. HasSuggestion is false when no pattern clears the threshold.
type PatternSuggestion struct {
	HasSuggestion  bool        `json:"has_suggestion"`
	SuggestionText string      `json:"suggestion_text,omitempty"`
	SuggestedSplit []SplitStep `json:"suggested_split,omitempty"`
}

// ChainLink is one subtask in a dependency chain, annotated with the ids of
// the upstream blocking siblings that must complete before it can start.
type ChainLink struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	SubtaskOrder     int         `json:"subtask_order"`
	IsBlocking       bool        `json:"is_blocking"`
	Status           task.Status `json:"status"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	BlockedBy        []string    `json:"blocked_by"`
	CanStart         bool        `json:"can_start"`
}

// Engine detects deferral patterns in the activity history and computes
// subtask dependency chains.
type Engine struct {
	tasks    task.Repository
	activity activitylog.Repository
}

func NewEngine(tasks task.Repository, activity activitylog.Repository) *Engine {
	return &Engine{tasks: tasks, activity: activity}
}

type deferralGroup struct {
	count            int
	title            string
	estimatedMinutes int
}

// GetPatternSuggestion looks for a step type the user has deferred at least
// three times in the given category and proposes splitting it into a short
// collect step and a longer execute step. Suggestions are advisory, so a
// history fetch failure is logged and reported as "no suggestion".
func (e *Engine) GetPatternSuggestion(ctx context.Context, userID string, category task.Category) (*PatternSuggestion, error) {
	empty := &PatternSuggestion{}

	entries, err := e.activity.ListRecentByTypes(ctx, userID,
		[]activitylog.EventType{activitylog.EventTaskMissed, activitylog.EventRescheduled}, 50)
	if err != nil {
		slog.WarnContext(ctx, "deferral history fetch failed, skipping pattern suggestion",
			slog.String("user_id", userID), slog.Any("error", err))
		return empty, nil
	}
	if len(entries) == 0 {
		return empty, nil
	}

	deferCounts := map[string]int{}
	var ids []string
	for _, entry := range entries {
		if deferCounts[entry.TaskID] == 0 {
			ids = append(ids, entry.TaskID)
		}
		deferCounts[entry.TaskID]++
	}

	subtasks, err := e.tasks.ListByIDs(ctx, ids)
	if err != nil {
		slog.WarnContext(ctx, "deferred subtask fetch failed, skipping pattern suggestion",
			slog.String("user_id", userID), slog.Any("error", err))
		return empty, nil
	}

	groups := map[string]*deferralGroup{}
	var keywords []string
	for _, sub := range subtasks {
		if !sub.IsSubtask || sub.Category != category {
			continue
		}
		count := deferCounts[sub.ID]
		if count == 0 {
			continue
		}
		words := strings.Fields(sub.Title)
		if len(words) == 0 {
			continue
		}
		keyword := strings.ToLower(words[0])
		group, ok := groups[keyword]
		if !ok {
			group = &deferralGroup{title: sub.Title, estimatedMinutes: sub.EstimatedMinutes}
			groups[keyword] = group
			keywords = append(keywords, keyword)
		}
		group.count += count
		if sub.EstimatedMinutes > group.estimatedMinutes {
			group.estimatedMinutes = sub.EstimatedMinutes
		}
	}

	// Pick the most-deferred group with 3+ deferrals, first encountered
	// winning ties.
	var top *deferralGroup
	for _, keyword := range keywords {
		group := groups[keyword]
		if group.count < 3 {
			continue
		}
		if top == nil || group.count > top.count {
			top = group
		}
	}
	if top == nil {
		return empty, nil
	}

	collectMinutes := minInt(10, int(math.Round(float64(top.estimatedMinutes)*0.25)))
	readMinutes := top.estimatedMinutes - collectMinutes

	return &PatternSuggestion{
		HasSuggestion: true,
		SuggestionText: fmt.Sprintf(
			`You tend to delay "%s" tasks. Want me to split it into "collect links" (%d min) and "read 2 articles" (%d min)?`,
			top.title, collectMinutes, readMinutes),
		SuggestedSplit: []SplitStep{
			{Title: "Collect links", EstimatedMinutes: collectMinutes, IsBlocking: true},
			{Title: "Read 2 articles", EstimatedMinutes: readMinutes, IsBlocking: false},
		},
	}, nil
}

// GetDependencyChain returns the parent's subtasks in order. Each link lists
// every earlier blocking sibling that has not completed; a link can start
// only when that list is empty.
func (e *Engine) GetDependencyChain(ctx context.Context, parentTaskID string) ([]ChainLink, error) {
	subtasks, err := e.tasks.ListByParent(ctx, parentTaskID)
	if err != nil {
		return nil, err
	}

	chain := make([]ChainLink, len(subtasks))
	for i, sub := range subtasks {
		blockedBy := []string{}
		for _, prev := range subtasks[:i] {
			if prev.IsBlocking && prev.Status != task.StatusCompleted {
				blockedBy = append(blockedBy, prev.ID)
			}
		}
		chain[i] = ChainLink{
			ID:               sub.ID,
			Title:            sub.Title,
			SubtaskOrder:     sub.SubtaskOrder,
			IsBlocking:       sub.IsBlocking,
			Status:           sub.Status,
			EstimatedMinutes: sub.EstimatedMinutes,
			BlockedBy:        blockedBy,
			CanStart:         len(blockedBy) == 0,
		}
	}
	return chain, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
