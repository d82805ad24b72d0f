package decomposition

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/joymec19/smart-scheduler/internal/preference"
)

// LearnFromEdits persists the user's edits onto the decomposition log, then
// looks for the same edit recurring across the user's recent logs. Three or
// more recurrences of one action/subject pair is a strong pattern: the edits
// are replayed onto the base template to produce a personal variant, which is
// upserted as the user's template for that category and sub-type. A merge
// edit in the batch also flips the user's granularity preference to fewer
// steps. Returns whether a strong pattern was found.
func (e *Engine) LearnFromEdits(ctx context.Context, logID string, edits []Edit) (bool, error) {
	log, err := e.logs.UpdateEdits(ctx, logID, edits)
	if err != nil {
		return false, err
	}

	recent, err := e.logs.ListRecentWithEdits(ctx, log.UserID, 10)
	if err != nil {
		slog.WarnContext(ctx, "recent decomposition log scan failed",
			slog.String("user_id", log.UserID), slog.Any("error", err))
	}

	patternCounts := map[string]int{}
	for _, entry := range recent {
		for _, edit := range entry.UserEdits {
			subject := edit.StepTitle
			if subject == "" {
				subject = edit.From
			}
			patternCounts[string(edit.Action)+"::"+subject]++
		}
	}

	hasStrongPattern := false
	for _, count := range patternCounts {
		if count >= 3 {
			hasStrongPattern = true
			break
		}
	}

	if hasStrongPattern && log.TemplateID != "" {
		if err := e.upsertUserTemplate(ctx, log, edits); err != nil {
			slog.WarnContext(ctx, "failed to upsert user template variant",
				slog.String("template_id", log.TemplateID), slog.Any("error", err))
		}
	}

	for _, edit := range edits {
		if edit.Action == EditMerged {
			if err := e.setGranularityFewerSteps(ctx, log.UserID); err != nil {
				slog.WarnContext(ctx, "failed to update granularity preference",
					slog.String("user_id", log.UserID), slog.Any("error", err))
			}
			break
		}
	}

	return hasStrongPattern, nil
}

func (e *Engine) upsertUserTemplate(ctx context.Context, log *Log, edits []Edit) error {
	baseTpl, err := e.templates.Get(ctx, log.TemplateID)
	if err != nil {
		return err
	}

	steps := replayEdits(baseTpl.Steps, edits)
	for i := range steps {
		steps[i].Order = i + 1
	}

	existing, err := e.templates.FindUserTemplate(ctx, log.UserID, baseTpl.Category, baseTpl.SubType)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Steps = steps
		return e.templates.Update(ctx, existing)
	}
	return e.templates.Create(ctx, &Template{
		ID:       ulid.Make().String(),
		UserID:   log.UserID,
		Category: baseTpl.Category,
		SubType:  baseTpl.SubType,
		Priority: baseTpl.Priority,
		Steps:    steps,
		IsSystem: false,
	})
}

// replayEdits applies the edit list, in order, to a copy of the step list.
func replayEdits(base []TemplateStep, edits []Edit) []TemplateStep {
	steps := make([]TemplateStep, len(base))
	copy(steps, base)

	for _, edit := range edits {
		switch edit.Action {
		case EditDeleted:
			var kept []TemplateStep
			for _, s := range steps {
				if s.Title != edit.StepTitle {
					kept = append(kept, s)
				}
			}
			steps = kept

		case EditRenamed:
			for i := range steps {
				if steps[i].Title == edit.From {
					steps[i].Title = edit.To
				}
			}

		case EditMerged:
			if len(edit.Steps) < 2 {
				continue
			}
			idx := -1
			for i, s := range steps {
				if s.Title == edit.Steps[0] {
					idx = i
					break
				}
			}
			if idx == -1 {
				continue
			}
			merged := map[string]bool{}
			for _, title := range edit.Steps {
				merged[title] = true
			}
			total := 0
			var kept []TemplateStep
			for _, s := range steps {
				if merged[s.Title] {
					total += s.EstimatedMinutes
					continue
				}
				kept = append(kept, s)
			}
			combined := TemplateStep{Title: edit.Into, EstimatedMinutes: total}
			if idx > len(kept) {
				idx = len(kept)
			}
			steps = append(kept[:idx], append([]TemplateStep{combined}, kept[idx:]...)...)

		case EditReordered:
			idx := -1
			for i, s := range steps {
				if s.Title == edit.StepTitle {
					idx = i
					break
				}
			}
			if idx == -1 {
				continue
			}
			moved := steps[idx]
			steps = append(steps[:idx], steps[idx+1:]...)
			target := edit.ToOrder - 1
			if target < 0 {
				target = 0
			}
			if target > len(steps) {
				target = len(steps)
			}
			steps = append(steps[:target], append([]TemplateStep{moved}, steps[target:]...)...)
		}
	}
	return steps
}

func (e *Engine) setGranularityFewerSteps(ctx context.Context, userID string) error {
	pref, err := e.prefs.Get(ctx, userID)
	if err != nil {
		return err
	}
	pref.Granularity = preference.GranularityFewerSteps
	return e.prefs.Upsert(ctx, pref)
}
