package reschedule_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joymec19/smart-scheduler/internal/reschedule"
	"github.com/joymec19/smart-scheduler/internal/task"
	taskrepo "github.com/joymec19/smart-scheduler/internal/task/repositoryimpl"
	"github.com/joymec19/smart-scheduler/pkg/storage"
)

func newRepo(t *testing.T) *taskrepo.YAMLRepository {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return taskrepo.NewYAMLRepository(store)
}

func addCompletion(t *testing.T, repo *taskrepo.YAMLRepository, id string, category task.Category, completedAt time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &task.Task{
		ID:               id,
		UserID:           "u1",
		Title:            "done",
		Category:         category,
		Priority:         task.PriorityMedium,
		Status:           task.StatusCompleted,
		EstimatedMinutes: 30,
		CompletedAt:      &completedAt,
		CreatedAt:        completedAt,
		UpdatedAt:        completedAt,
	}))
}

func localTime(day, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 30, 0, 0, time.Local)
}

func TestSuggestColdStartDefaults(t *testing.T) {
	now := localTime(10, 11)
	tests := []struct {
		priority   task.Priority
		wantHour   int
		wantDay    int
		wantPhrase string
	}{
		{task.PriorityHigh, 9, 11, "morning slot (9:00 AM) tomorrow."},
		{task.PriorityMedium, 14, 11, "afternoon slot (2:00 PM) tomorrow."},
		{task.PriorityLow, 9, 16, "morning slot (9:00 AM) in 6 days."},
	}
	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			engine := reschedule.NewEngineWithClock(newRepo(t), func() time.Time { return now })

			s := engine.Suggest(context.Background(), &task.Task{
				ID: "t1", UserID: "u1", Category: task.CategoryWork, Priority: tt.priority,
			})

			assert.Equal(t, 0.3, s.ConfidenceScore)
			assert.Equal(t, tt.wantDay, s.SuggestedDatetime.Day())
			assert.Equal(t, tt.wantHour, s.SuggestedDatetime.Hour())
			assert.Contains(t, s.RationaleText, "Not enough history for work tasks yet.")
			assert.Contains(t, s.RationaleText, fmt.Sprintf("Based on your %s priority", tt.priority))
			assert.Contains(t, s.RationaleText, tt.wantPhrase)
		})
	}
}

func TestSuggestWarmUnanimousEvening(t *testing.T) {
	repo := newRepo(t)
	for i := 0; i < 5; i++ {
		addCompletion(t, repo, fmt.Sprintf("c%d", i), task.CategoryWork, localTime(1+i, 19))
	}
	now := localTime(10, 11)
	engine := reschedule.NewEngineWithClock(repo, func() time.Time { return now })

	s := engine.Suggest(context.Background(), &task.Task{
		ID: "t1", UserID: "u1", Category: task.CategoryWork, Priority: task.PriorityHigh,
	})

	// 0.5 + 5/5*0.5 = 1.0, capped at 0.95.
	assert.Equal(t, 0.95, s.ConfidenceScore)
	assert.Equal(t, 11, s.SuggestedDatetime.Day())
	assert.Equal(t, 18, s.SuggestedDatetime.Hour())
	assert.Equal(t,
		"You complete work tasks most often in the evening — 5 of your last 5 completions happened then. We've picked 6:00 PM tomorrow.",
		s.RationaleText)
}

func TestSuggestWarmMajorityMorning(t *testing.T) {
	repo := newRepo(t)
	addCompletion(t, repo, "c1", task.CategoryWork, localTime(1, 8))
	addCompletion(t, repo, "c2", task.CategoryWork, localTime(2, 9))
	addCompletion(t, repo, "c3", task.CategoryWork, localTime(3, 10))
	addCompletion(t, repo, "c4", task.CategoryWork, localTime(4, 19))
	addCompletion(t, repo, "c5", task.CategoryWork, localTime(5, 20))
	now := localTime(10, 11)
	engine := reschedule.NewEngineWithClock(repo, func() time.Time { return now })

	s := engine.Suggest(context.Background(), &task.Task{
		ID: "t1", UserID: "u1", Category: task.CategoryWork, Priority: task.PriorityLow,
	})

	// 0.5 + 3/5*0.5 = 0.8, and the slot ignores priority defaults.
	assert.Equal(t, 0.8, s.ConfidenceScore)
	assert.Equal(t, 11, s.SuggestedDatetime.Day())
	assert.Equal(t, 9, s.SuggestedDatetime.Hour())
	assert.Contains(t, s.RationaleText, "most often in the morning — 3 of your last 5 completions")
}

func TestSuggestIgnoresOtherCategoryHistory(t *testing.T) {
	repo := newRepo(t)
	for i := 0; i < 5; i++ {
		addCompletion(t, repo, fmt.Sprintf("c%d", i), task.CategoryHealth, localTime(1+i, 19))
	}
	now := localTime(10, 11)
	engine := reschedule.NewEngineWithClock(repo, func() time.Time { return now })

	s := engine.Suggest(context.Background(), &task.Task{
		ID: "t1", UserID: "u1", Category: task.CategoryWork, Priority: task.PriorityHigh,
	})

	assert.Equal(t, 0.3, s.ConfidenceScore)
}
