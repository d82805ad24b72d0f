package decomposition

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joymec19/smart-scheduler/internal/activitylog"
	"github.com/joymec19/smart-scheduler/internal/eventbus"
	"github.com/joymec19/smart-scheduler/internal/preference"
	"github.com/joymec19/smart-scheduler/internal/task"
)

// Engine turns a task into an ordered, dependency-aware subtask list using
// category templates and heuristics, and learns from how users edit the
// results. All logic is rule based.
type Engine struct {
	templates TemplateRepository
	logs      LogRepository
	tasks     task.Repository
	activity  activitylog.Repository
	prefs     preference.Repository
	bus       *eventbus.Bus
}

func NewEngine(
	templates TemplateRepository,
	logs LogRepository,
	tasks task.Repository,
	activity activitylog.Repository,
	prefs preference.Repository,
	bus *eventbus.Bus,
) *Engine {
	return &Engine{
		templates: templates,
		logs:      logs,
		tasks:     tasks,
		activity:  activity,
		prefs:     prefs,
		bus:       bus,
	}
}

// GenerateResult is the outcome of one generation run. TemplateID is set only
// when a stored user template was used instead of the built-in defaults.
type GenerateResult struct {
	Steps              []Step `json:"steps"`
	TemplateID         string `json:"template_id,omitempty"`
	ClarifyingQuestion string `json:"clarifying_question"`
}

// GenerateSubtasks produces an ordered subtask draft list for the task. The
// user-template lookup is best effort; any failure there falls back to the
// built-in templates.
func (e *Engine) GenerateSubtasks(ctx context.Context, t *task.Task, clarifyingAnswer string, pref *preference.Preference) (*GenerateResult, error) {
	tpl := lookupSystemTemplate(t.Category)
	subType := InferSubType(t.Category, clarifyingAnswer)
	steps := baseSteps(tpl, subType)
	templateID := ""

	if t.UserID != "" {
		userTpl, err := e.templates.FindUserTemplate(ctx, t.UserID, t.Category, subType)
		if err != nil {
			slog.WarnContext(ctx, "user template lookup failed, using defaults",
				slog.String("user_id", t.UserID), slog.Any("error", err))
		} else if userTpl != nil && len(userTpl.Steps) > 0 {
			steps = make([]TemplateStep, len(userTpl.Steps))
			copy(steps, userTpl.Steps)
			templateID = userTpl.ID
		}
	}

	steps = applyPriorityAdjustment(steps, t.Priority)

	if t.EstimatedMinutes > 0 {
		steps = scaleToTargetMinutes(steps, t.EstimatedMinutes)
	}

	if pref != nil {
		if pref.PreferredChunkMinutes > 0 {
			steps = applyChunkSize(steps, pref.PreferredChunkMinutes)
		}
		switch pref.Granularity {
		case preference.GranularityFewerSteps:
			steps = mergeAdjacentSteps(steps)
		case preference.GranularityMoreDetail:
			steps = splitLargeSteps(steps)
		}
	}

	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = Step{
			Title:            s.Title,
			EstimatedMinutes: maxInt(5, s.EstimatedMinutes),
			Order:            i + 1,
			IsBlocking:       s.IsBlocking,
			Category:         t.Category,
		}
	}
	return &GenerateResult{
		Steps:              out,
		TemplateID:         templateID,
		ClarifyingQuestion: tpl.ClarifyingQuestion,
	}, nil
}

// applyPriorityAdjustment reshapes step durations per priority: high
// compresses to 15-30 min and front-loads blocking steps, medium clamps to
// 20-45 min and injects a midpoint checkpoint, low compresses to 15-25 min.
func applyPriorityAdjustment(steps []TemplateStep, priority task.Priority) []TemplateStep {
	switch priority {
	case task.PriorityHigh:
		n := len(steps)
		out := make([]TemplateStep, n)
		for i, s := range steps {
			s.EstimatedMinutes = clampInt(roundMul(s.EstimatedMinutes, 0.7), 15, 30)
			if i < (n+1)/2 {
				s.IsBlocking = true
			}
			out[i] = s
		}
		return out

	case task.PriorityMedium:
		out := make([]TemplateStep, 0, len(steps)+1)
		for _, s := range steps {
			s.EstimatedMinutes = clampInt(s.EstimatedMinutes, 20, 45)
			out = append(out, s)
		}
		midpoint := len(out) / 2
		checkpoint := TemplateStep{Title: "Checkpoint — review progress", EstimatedMinutes: 10}
		out = append(out[:midpoint], append([]TemplateStep{checkpoint}, out[midpoint:]...)...)
		return out

	case task.PriorityLow:
		out := make([]TemplateStep, len(steps))
		for i, s := range steps {
			s.EstimatedMinutes = clampInt(roundMul(s.EstimatedMinutes, 0.6), 15, 25)
			out[i] = s
		}
		return out
	}
	return steps
}

// scaleToTargetMinutes rescales all durations proportionally so they sum to
// the target, never dropping a step below 5 minutes.
func scaleToTargetMinutes(steps []TemplateStep, targetMinutes int) []TemplateStep {
	total := 0
	for _, s := range steps {
		total += s.EstimatedMinutes
	}
	if total == 0 {
		return steps
	}
	scale := float64(targetMinutes) / float64(total)
	out := make([]TemplateStep, len(steps))
	for i, s := range steps {
		s.EstimatedMinutes = maxInt(5, int(math.Round(float64(s.EstimatedMinutes)*scale)))
		out[i] = s
	}
	return out
}

// applyChunkSize splits any step longer than 1.5x the preferred chunk into
// equal "(i/n)" parts. Only the first part keeps the blocking flag.
func applyChunkSize(steps []TemplateStep, chunkMinutes int) []TemplateStep {
	var out []TemplateStep
	for _, s := range steps {
		if float64(s.EstimatedMinutes) > float64(chunkMinutes)*1.5 {
			parts := int(math.Ceil(float64(s.EstimatedMinutes) / float64(chunkMinutes)))
			partMinutes := int(math.Round(float64(s.EstimatedMinutes) / float64(parts)))
			for i := 0; i < parts; i++ {
				part := s
				part.Title = fmt.Sprintf("%s (%d/%d)", s.Title, i+1, parts)
				part.EstimatedMinutes = partMinutes
				if i > 0 {
					part.IsBlocking = false
				}
				out = append(out, part)
			}
		} else {
			out = append(out, s)
		}
	}
	return out
}

// mergeAdjacentSteps collapses consecutive non-blocking pairs whose combined
// duration stays within 45 minutes, in a single left-to-right pass.
func mergeAdjacentSteps(steps []TemplateStep) []TemplateStep {
	if len(steps) <= 2 {
		return steps
	}
	var out []TemplateStep
	for i := 0; i < len(steps); {
		curr := steps[i]
		if i+1 < len(steps) {
			next := steps[i+1]
			if !curr.IsBlocking && !next.IsBlocking && curr.EstimatedMinutes+next.EstimatedMinutes <= 45 {
				out = append(out, TemplateStep{
					Title:            curr.Title + " + " + next.Title,
					EstimatedMinutes: curr.EstimatedMinutes + next.EstimatedMinutes,
				})
				i += 2
				continue
			}
		}
		out = append(out, curr)
		i++
	}
	return out
}

// splitLargeSteps halves every step longer than 45 minutes. The second half
// is never blocking.
func splitLargeSteps(steps []TemplateStep) []TemplateStep {
	var out []TemplateStep
	for _, s := range steps {
		if s.EstimatedMinutes > 45 {
			half := int(math.Round(float64(s.EstimatedMinutes) / 2))
			first := s
			first.Title = s.Title + " — part 1"
			first.EstimatedMinutes = half
			second := s
			second.Title = s.Title + " — part 2"
			second.EstimatedMinutes = s.EstimatedMinutes - half
			second.IsBlocking = false
			out = append(out, first, second)
		} else {
			out = append(out, s)
		}
	}
	return out
}

// AdjustForUserPatterns calibrates generated step durations against the
// user's history. A step matching a repeatedly deleted title is halved and
// flagged for splitting; otherwise every step is scaled by the user's mean
// actual/estimated completion ratio. History fetches are best effort.
func (e *Engine) AdjustForUserPatterns(ctx context.Context, userID string, steps []Step) []Step {
	logs, err := e.logs.ListRecent(ctx, userID, 10)
	if err != nil {
		slog.WarnContext(ctx, "decomposition log fetch failed, skipping deletion patterns",
			slog.String("user_id", userID), slog.Any("error", err))
	}
	entries, err := e.activity.ListRecentByTypes(ctx, userID,
		[]activitylog.EventType{activitylog.EventTaskCompleted, activitylog.EventTaskMissed, activitylog.EventRescheduled}, 100)
	if err != nil {
		slog.WarnContext(ctx, "activity log fetch failed, skipping estimate calibration",
			slog.String("user_id", userID), slog.Any("error", err))
	}

	deletionCounts := map[string]int{}
	for _, log := range logs {
		for _, edit := range log.UserEdits {
			if edit.Action == EditDeleted && edit.StepTitle != "" {
				deletionCounts[strings.ToLower(edit.StepTitle)]++
			}
		}
	}

	estimateRatio := 1.0
	var completions []*activitylog.Entry
	for _, entry := range entries {
		if entry.EventType == activitylog.EventTaskCompleted {
			completions = append(completions, entry)
		}
	}
	if len(completions) >= 3 {
		var ratios []float64
		for _, c := range completions {
			if c.Payload.ActualMinutes > 0 && c.Payload.EstimatedMinutes > 0 {
				ratios = append(ratios, float64(c.Payload.ActualMinutes)/float64(c.Payload.EstimatedMinutes))
			}
		}
		if len(ratios) > 0 {
			sum := 0.0
			for _, r := range ratios {
				sum += r
			}
			estimateRatio = clampFloat(sum/float64(len(ratios)), 0.5, 2)
		}
	}

	out := make([]Step, len(steps))
	for i, s := range steps {
		titleKey := strings.ToLower(s.Title)

		deferred := false
		for key, count := range deletionCounts {
			if count >= 3 && strings.HasPrefix(titleKey, firstWord(key)) {
				deferred = true
				break
			}
		}
		// Halving a habitually deleted step makes the smaller chunk less
		// intimidating; this overrides pace calibration.
		if deferred && s.EstimatedMinutes > 20 {
			s.EstimatedMinutes = maxInt(5, roundMul(s.EstimatedMinutes, 0.5))
			s.SplitSuggestion = true
		} else if estimateRatio != 1 {
			s.EstimatedMinutes = maxInt(5, int(math.Round(float64(s.EstimatedMinutes)*estimateRatio)))
		}
		out[i] = s
	}
	return out
}

// SaveResult reports the persisted subtask rows and the decomposition log id
// that later edit-learning calls reference.
type SaveResult struct {
	Subtasks []*task.Task `json:"subtasks"`
	LogID    string       `json:"log_id"`
}

// SaveSubtasks persists the drafts as subtask rows of the parent, records the
// decomposition in the activity and decomposition logs, and bumps the used
// template's usage count. The parent fetch and the subtask inserts are fatal;
// the activity append and the usage bump are best effort.
func (e *Engine) SaveSubtasks(ctx context.Context, parentTaskID string, steps []Step, templateID string, qa QA) (*SaveResult, error) {
	parent, err := e.tasks.Get(ctx, parentTaskID)
	if err != nil {
		return nil, err
	}

	source := task.SourceUserCustom
	if templateID != "" {
		source = task.SourceTemplate
	}

	now := time.Now()
	created := make([]*task.Task, 0, len(steps))
	for _, s := range steps {
		sub := &task.Task{
			ID:                  ulid.Make().String(),
			UserID:              parent.UserID,
			Title:               s.Title,
			Category:            parent.Category,
			Priority:            parent.Priority,
			Status:              task.StatusPending,
			EstimatedMinutes:    s.EstimatedMinutes,
			ParentTaskID:        parentTaskID,
			IsSubtask:           true,
			SubtaskOrder:        s.Order,
			IsBlocking:          s.IsBlocking,
			DecompositionSource: source,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := e.tasks.Create(ctx, sub); err != nil {
			return nil, err
		}
		created = append(created, sub)
	}

	if err := e.activity.Append(ctx, &activitylog.Entry{
		ID:        ulid.Make().String(),
		UserID:    parent.UserID,
		TaskID:    parentTaskID,
		EventType: activitylog.EventTaskDecomposed,
		Payload: activitylog.Payload{
			SubtasksGenerated: len(steps),
			TemplateID:        templateID,
		},
		CreatedAt: now,
	}); err != nil {
		slog.WarnContext(ctx, "failed to append decomposition activity entry",
			slog.String("task_id", parentTaskID), slog.Any("error", err))
	}

	log := &Log{
		ID:                       ulid.Make().String(),
		UserID:                   parent.UserID,
		ParentTaskID:             parentTaskID,
		TemplateID:               templateID,
		OriginalEstimatedMinutes: parent.EstimatedMinutes,
		SubtasksGenerated:        len(steps),
		UserEdits:                []Edit{},
		ClarifyingAnswers:        qa,
		CreatedAt:                now,
	}
	if err := e.logs.Create(ctx, log); err != nil {
		return nil, err
	}

	if templateID != "" {
		if err := e.templates.IncrementUsage(ctx, templateID); err != nil {
			slog.WarnContext(ctx, "failed to increment template usage",
				slog.String("template_id", templateID), slog.Any("error", err))
		}
	}

	e.bus.PublishNew(eventbus.EventTaskDecomposed, parent.UserID, parentTaskID, map[string]any{
		"subtasks_generated": len(steps),
	})
	return &SaveResult{Subtasks: created, LogID: log.ID}, nil
}

func firstWord(s string) string {
	if i := strings.Index(s, " "); i >= 0 {
		return s[:i]
	}
	return s
}

func roundMul(n int, factor float64) int {
	return int(math.Round(float64(n) * factor))
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func clampFloat(f, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, f))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
