package nudge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joymec19/smart-scheduler/internal/task"
)

const dailyCap = 5

// Generator evaluates behavioral rules against recent task history and emits
// at most five advisory nudges per user per calendar day. The cap check is
// read-then-write without a transaction; concurrent calls may transiently
// overshoot it.
type Generator struct {
	nudges Repository
	tasks  task.Repository
	now    func() time.Time
}

func NewGenerator(nudges Repository, tasks task.Repository) *Generator {
	return &Generator{nudges: nudges, tasks: tasks, now: time.Now}
}

// NewGeneratorWithClock injects the time source for deterministic tests.
func NewGeneratorWithClock(nudges Repository, tasks task.Repository, now func() time.Time) *Generator {
	return &Generator{nudges: nudges, tasks: tasks, now: now}
}

// Generate evaluates the rules in fixed order and returns today's nudges,
// pre-existing plus any newly created. A failure inserting a new nudge is
// logged and the rest still returned.
func (g *Generator) Generate(ctx context.Context, userID string) ([]*Nudge, error) {
	now := g.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999000000, now.Location())

	existing, err := g.nudges.ListTriggeredBetween(ctx, userID, startOfDay, endOfDay)
	if err != nil {
		return nil, err
	}
	if len(existing) >= dailyCap {
		return existing, nil
	}
	slotsLeft := dailyCap - len(existing)

	weekAgo := now.AddDate(0, 0, -7)
	weekTasks, err := g.tasks.ListDueBetween(ctx, userID, weekAgo, endOfDay)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch week tasks for nudge rules",
			slog.String("user_id", userID), slog.Any("error", err))
	}
	todayTasks, err := g.tasks.ListDueBetween(ctx, userID, startOfDay, endOfDay)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch today's tasks for nudge rules",
			slog.String("user_id", userID), slog.Any("error", err))
	}

	var fresh []*Nudge

	// Rule 1 (pattern): missed 2+ tasks in the same category this week.
	if len(fresh) < slotsLeft && weekTasks != nil {
		worstCat, worstCount := worstMissedCategory(weekTasks)
		if worstCat != "" && worstCount >= 2 {
			fresh = append(fresh, &Nudge{
				Type:        TypePattern,
				Title:       "Schedule Earlier",
				Message:     fmt.Sprintf("You've missed %d %s tasks this week. Try scheduling them earlier in the day.", worstCount, worstCat),
				ImpactScore: 0.8,
			})
		}
	}

	// Rule 2 (momentum): completed 3+ tasks today.
	if len(fresh) < slotsLeft && todayTasks != nil {
		completedCount := 0
		for _, t := range todayTasks {
			if t.Status == task.StatusCompleted {
				completedCount++
			}
		}
		if completedCount >= 3 {
			fresh = append(fresh, &Nudge{
				Type:        TypeMomentum,
				Title:       "You're on Fire!",
				Message:     fmt.Sprintf("Amazing! %d tasks done today. Keep the streak going — one more!", completedCount),
				ImpactScore: 0.9,
			})
		}
	}

	// Rule 3 (content): a pending learning task is due today.
	if len(fresh) < slotsLeft && todayTasks != nil {
		for _, t := range todayTasks {
			if t.Category == task.CategoryLearning && t.Status == task.StatusPending {
				fresh = append(fresh, &Nudge{
					Type:        TypeContentCapture,
					Title:       "Capture Your Insights",
					Message:     "You have a learning task today. Open Mental Notes to capture what you discover!",
					ImpactScore: 0.6,
				})
				break
			}
		}
	}

	if len(fresh) == 0 {
		return existing, nil
	}

	out := existing
	for _, n := range fresh {
		n.ID = ulid.Make().String()
		n.UserID = userID
		n.Status = StatusActive
		n.TriggeredAt = now
		n.CreatedAt = now
		if err := g.nudges.Create(ctx, n); err != nil {
			slog.WarnContext(ctx, "failed to insert nudge",
				slog.String("type", string(n.Type)), slog.Any("error", err))
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func worstMissedCategory(tasks []*task.Task) (task.Category, int) {
	counts := map[task.Category]int{}
	for _, t := range tasks {
		if t.Status == task.StatusMissed {
			counts[t.Category]++
		}
	}
	var worst task.Category
	worstCount := 0
	for cat, count := range counts {
		if count > worstCount {
			worst = cat
			worstCount = count
		}
	}
	return worst, worstCount
}
