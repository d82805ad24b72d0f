package decomposition_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joymec19/smart-scheduler/internal/decomposition"
	"github.com/joymec19/smart-scheduler/internal/preference"
	"github.com/joymec19/smart-scheduler/internal/task"
)

func workBaseTemplate(id string) *decomposition.Template {
	return &decomposition.Template{
		ID:       id,
		Category: task.CategoryWork,
		IsSystem: true,
		Steps: []decomposition.TemplateStep{
			{Title: "Clarify requirements", EstimatedMinutes: 20, IsBlocking: true},
			{Title: "Draft outline", EstimatedMinutes: 25, IsBlocking: true},
			{Title: "Create v1", EstimatedMinutes: 45, IsBlocking: true},
			{Title: "Review with stakeholder", EstimatedMinutes: 20, IsBlocking: false},
			{Title: "Finalize and send", EstimatedMinutes: 15, IsBlocking: false},
		},
	}
}

func TestLearnFromEditsStrongPattern(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.templates.Create(ctx, workBaseTemplate("tpl-base")))

	deleted := decomposition.Edit{Action: decomposition.EditDeleted, StepTitle: "Draft outline"}
	base := time.Now()
	for i := 0; i < 2; i++ {
		require.NoError(t, env.logs.Create(ctx, &decomposition.Log{
			ID:           "log-prior-" + string(rune('a'+i)),
			UserID:       "u1",
			ParentTaskID: "t1",
			TemplateID:   "tpl-base",
			UserEdits:    []decomposition.Edit{deleted},
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, env.logs.Create(ctx, &decomposition.Log{
		ID:           "log-current",
		UserID:       "u1",
		ParentTaskID: "t2",
		TemplateID:   "tpl-base",
		UserEdits:    []decomposition.Edit{},
		CreatedAt:    base.Add(2 * time.Minute),
	}))

	// Third identical deletion across three logs crosses the threshold.
	strong, err := env.engine.LearnFromEdits(ctx, "log-current", []decomposition.Edit{deleted})
	require.NoError(t, err)
	assert.True(t, strong)

	variant, err := env.templates.FindUserTemplate(ctx, "u1", task.CategoryWork, "")
	require.NoError(t, err)
	require.NotNil(t, variant)
	require.Len(t, variant.Steps, 4)
	for i, step := range variant.Steps {
		assert.NotEqual(t, "Draft outline", step.Title)
		assert.Equal(t, i+1, step.Order)
	}
	assert.False(t, variant.IsSystem)
	assert.Equal(t, 0, variant.UsageCount)
}

func TestLearnFromEditsNoPattern(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.templates.Create(ctx, workBaseTemplate("tpl-base")))
	require.NoError(t, env.logs.Create(ctx, &decomposition.Log{
		ID:         "log-1",
		UserID:     "u1",
		TemplateID: "tpl-base",
		CreatedAt:  time.Now(),
	}))

	strong, err := env.engine.LearnFromEdits(ctx, "log-1", []decomposition.Edit{
		{Action: decomposition.EditDeleted, StepTitle: "Draft outline"},
	})
	require.NoError(t, err)
	assert.False(t, strong)

	variant, err := env.templates.FindUserTemplate(ctx, "u1", task.CategoryWork, "")
	require.NoError(t, err)
	assert.Nil(t, variant)
}

func TestLearnFromEditsMergeSetsGranularity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.logs.Create(ctx, &decomposition.Log{
		ID:        "log-1",
		UserID:    "u1",
		CreatedAt: time.Now(),
	}))

	_, err := env.engine.LearnFromEdits(ctx, "log-1", []decomposition.Edit{
		{
			Action: decomposition.EditMerged,
			Steps:  []string{"Review with stakeholder", "Finalize and send"},
			Into:   "Review and send",
		},
	})
	require.NoError(t, err)

	pref, err := env.prefs.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, preference.GranularityFewerSteps, pref.Granularity)
}

func TestLearnFromEditsReplaysAllActions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.templates.Create(ctx, workBaseTemplate("tpl-base")))

	edits := []decomposition.Edit{
		{Action: decomposition.EditDeleted, StepTitle: "Clarify requirements"},
		{Action: decomposition.EditRenamed, From: "Create v1", To: "Build it"},
		{Action: decomposition.EditMerged, Steps: []string{"Review with stakeholder", "Finalize and send"}, Into: "Review and send"},
	}
	base := time.Now()
	for i := 0; i < 2; i++ {
		require.NoError(t, env.logs.Create(ctx, &decomposition.Log{
			ID:         "log-prior-" + string(rune('a'+i)),
			UserID:     "u1",
			TemplateID: "tpl-base",
			UserEdits:  edits,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, env.logs.Create(ctx, &decomposition.Log{
		ID:         "log-current",
		UserID:     "u1",
		TemplateID: "tpl-base",
		UserEdits:  []decomposition.Edit{},
		CreatedAt:  base.Add(2 * time.Minute),
	}))

	strong, err := env.engine.LearnFromEdits(ctx, "log-current", edits)
	require.NoError(t, err)
	require.True(t, strong)

	variant, err := env.templates.FindUserTemplate(ctx, "u1", task.CategoryWork, "")
	require.NoError(t, err)
	require.NotNil(t, variant)

	titles := make([]string, len(variant.Steps))
	for i, s := range variant.Steps {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"Draft outline", "Build it", "Review and send"}, titles)

	// Merged step sums the durations of its sources and is never blocking.
	merged := variant.Steps[2]
	assert.Equal(t, 35, merged.EstimatedMinutes)
	assert.False(t, merged.IsBlocking)
}
