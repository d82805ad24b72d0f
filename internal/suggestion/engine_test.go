package suggestion_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joymec19/smart-scheduler/internal/activitylog"
	activitylogrepo "github.com/joymec19/smart-scheduler/internal/activitylog/repositoryimpl"
	"github.com/joymec19/smart-scheduler/internal/suggestion"
	"github.com/joymec19/smart-scheduler/internal/task"
	taskrepo "github.com/joymec19/smart-scheduler/internal/task/repositoryimpl"
	"github.com/joymec19/smart-scheduler/pkg/storage"
)

type testEnv struct {
	engine   *suggestion.Engine
	tasks    *taskrepo.YAMLRepository
	activity *activitylogrepo.YAMLRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	env := &testEnv{
		tasks:    taskrepo.NewYAMLRepository(store),
		activity: activitylogrepo.NewYAMLRepository(store),
	}
	env.engine = suggestion.NewEngine(env.tasks, env.activity)
	return env
}

func (e *testEnv) addSubtask(t *testing.T, id, title string, category task.Category, estimatedMinutes int, status task.Status, blocking bool, order int) {
	t.Helper()
	now := time.Now()
	require.NoError(t, e.tasks.Create(context.Background(), &task.Task{
		ID:               id,
		UserID:           "u1",
		Title:            title,
		Category:         category,
		Priority:         task.PriorityMedium,
		Status:           status,
		EstimatedMinutes: estimatedMinutes,
		ParentTaskID:     "parent-1",
		IsSubtask:        true,
		SubtaskOrder:     order,
		IsBlocking:       blocking,
		CreatedAt:        now,
		UpdatedAt:        now,
	}))
}

func (e *testEnv) addDeferrals(t *testing.T, taskID string, count int) {
	t.Helper()
	base := time.Now()
	for i := 0; i < count; i++ {
		require.NoError(t, e.activity.Append(context.Background(), &activitylog.Entry{
			ID:        fmt.Sprintf("%s-defer-%d", taskID, i),
			UserID:    "u1",
			TaskID:    taskID,
			EventType: activitylog.EventTaskMissed,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestGetPatternSuggestionBelowThreshold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addSubtask(t, "s1", "Read the article", task.CategoryLearning, 40, task.StatusMissed, false, 1)
	env.addDeferrals(t, "s1", 2)

	result, err := env.engine.GetPatternSuggestion(ctx, "u1", task.CategoryLearning)
	require.NoError(t, err)
	assert.False(t, result.HasSuggestion)
	assert.Empty(t, result.SuggestedSplit)
}

func TestGetPatternSuggestionProposesSplit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addSubtask(t, "s1", "Read the article", task.CategoryLearning, 40, task.StatusMissed, false, 1)
	env.addDeferrals(t, "s1", 3)

	result, err := env.engine.GetPatternSuggestion(ctx, "u1", task.CategoryLearning)
	require.NoError(t, err)
	require.True(t, result.HasSuggestion)

	require.Len(t, result.SuggestedSplit, 2)
	assert.Equal(t, "Collect links", result.SuggestedSplit[0].Title)
	assert.Equal(t, 10, result.SuggestedSplit[0].EstimatedMinutes)
	assert.True(t, result.SuggestedSplit[0].IsBlocking)
	assert.Equal(t, "Read 2 articles", result.SuggestedSplit[1].Title)
	assert.Equal(t, 30, result.SuggestedSplit[1].EstimatedMinutes)
	assert.False(t, result.SuggestedSplit[1].IsBlocking)

	assert.Equal(t,
		`You tend to delay "Read the article" tasks. Want me to split it into "collect links" (10 min) and "read 2 articles" (30 min)?`,
		result.SuggestionText)
}

func TestGetPatternSuggestionGroupsByLeadingWord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Two deferrals each for two "Read ..." subtasks count as one group of 4.
	env.addSubtask(t, "s1", "Read chapter one", task.CategoryLearning, 30, task.StatusMissed, false, 1)
	env.addSubtask(t, "s2", "Read chapter two", task.CategoryLearning, 50, task.StatusMissed, false, 2)
	env.addDeferrals(t, "s1", 2)
	env.addDeferrals(t, "s2", 2)

	result, err := env.engine.GetPatternSuggestion(ctx, "u1", task.CategoryLearning)
	require.NoError(t, err)
	require.True(t, result.HasSuggestion)
	// The highest estimate in the group is used for the split sizing.
	assert.Equal(t, 10, result.SuggestedSplit[0].EstimatedMinutes)
	assert.Equal(t, 40, result.SuggestedSplit[1].EstimatedMinutes)
}

type failingActivityRepo struct {
	activitylog.Repository
}

func (failingActivityRepo) ListRecentByTypes(context.Context, string, []activitylog.EventType, int) ([]*activitylog.Entry, error) {
	return nil, errors.New("backend unavailable")
}

type failingTaskRepo struct {
	task.Repository
}

func (failingTaskRepo) ListByIDs(context.Context, []string) ([]*task.Task, error) {
	return nil, errors.New("backend unavailable")
}

func TestGetPatternSuggestionDegradesOnHistoryError(t *testing.T) {
	env := newTestEnv(t)
	engine := suggestion.NewEngine(env.tasks, failingActivityRepo{})

	result, err := engine.GetPatternSuggestion(context.Background(), "u1", task.CategoryLearning)
	require.NoError(t, err)
	assert.False(t, result.HasSuggestion)
	assert.Empty(t, result.SuggestedSplit)
}

func TestGetPatternSuggestionDegradesOnTaskFetchError(t *testing.T) {
	env := newTestEnv(t)
	env.addSubtask(t, "s1", "Read the article", task.CategoryLearning, 40, task.StatusMissed, false, 1)
	env.addDeferrals(t, "s1", 3)
	engine := suggestion.NewEngine(failingTaskRepo{}, env.activity)

	result, err := engine.GetPatternSuggestion(context.Background(), "u1", task.CategoryLearning)
	require.NoError(t, err)
	assert.False(t, result.HasSuggestion)
}

func TestGetPatternSuggestionIgnoresOtherCategories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addSubtask(t, "s1", "Read the article", task.CategoryLearning, 40, task.StatusMissed, false, 1)
	env.addDeferrals(t, "s1", 3)

	result, err := env.engine.GetPatternSuggestion(ctx, "u1", task.CategoryWork)
	require.NoError(t, err)
	assert.False(t, result.HasSuggestion)
}

func TestGetDependencyChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addSubtask(t, "s1", "Clarify requirements", task.CategoryWork, 20, task.StatusCompleted, true, 1)
	env.addSubtask(t, "s2", "Draft outline", task.CategoryWork, 25, task.StatusPending, true, 2)
	env.addSubtask(t, "s3", "Create v1", task.CategoryWork, 45, task.StatusPending, false, 3)
	env.addSubtask(t, "s4", "Review", task.CategoryWork, 20, task.StatusPending, false, 4)

	chain, err := env.engine.GetDependencyChain(ctx, "parent-1")
	require.NoError(t, err)
	require.Len(t, chain, 4)

	// Completed blockers do not block.
	assert.Empty(t, chain[0].BlockedBy)
	assert.True(t, chain[0].CanStart)
	assert.Empty(t, chain[1].BlockedBy)
	assert.True(t, chain[1].CanStart)

	// s2 is blocking and still pending, so everything after it waits.
	assert.Equal(t, []string{"s2"}, chain[2].BlockedBy)
	assert.False(t, chain[2].CanStart)
	assert.Equal(t, []string{"s2"}, chain[3].BlockedBy)
	assert.False(t, chain[3].CanStart)
}

func TestGetDependencyChainEmpty(t *testing.T) {
	env := newTestEnv(t)
	chain, err := env.engine.GetDependencyChain(context.Background(), "no-such-parent")
	require.NoError(t, err)
	assert.Empty(t, chain)
}
