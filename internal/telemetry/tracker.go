package telemetry

import (
	"context"
	"log/slog"

	"github.com/joymec19/smart-scheduler/internal/eventbus"
)

// Tracker is a bus subscriber that emits one structured log line per domain
// event. It stands in for an external product-analytics sink: swapping the
// emit function is enough to forward events elsewhere.
type Tracker struct {
	bus  *eventbus.Bus
	emit func(ctx context.Context, ev *eventbus.Event)
}

func NewTracker(bus *eventbus.Bus) *Tracker {
	return &Tracker{
		bus: bus,
		emit: func(ctx context.Context, ev *eventbus.Event) {
			slog.DebugContext(ctx, "track",
				"event", string(ev.Type),
				"user_id", ev.UserID,
				"task_id", ev.TaskID,
			)
		},
	}
}

// Start consumes bus events until ctx is cancelled.
func (t *Tracker) Start(ctx context.Context) {
	subID, ch := t.bus.Subscribe(64)
	defer t.bus.Unsubscribe(subID)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			t.emit(ctx, ev)
		}
	}
}
