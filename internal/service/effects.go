package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/furnace"
	"furnace_engine/internal/logger"
	"furnace_engine/internal/models"
	"furnace_engine/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultEffectsBuffer = 256
	drainTimeout         = 5 * time.Second
)

// EffectsRecorder turns engine notifications into event log rows. The engine
// calls it inside a tick, so Record never blocks: when the buffer is full the
// event is dropped and counted.
type EffectsRecorder struct {
	repo    repository.EventRepo
	log     *logger.Logger
	events  chan models.FurnaceEvent
	dropped atomic.Uint64
	now     func() time.Time
}

func NewEffectsRecorder(repo repository.EventRepo, log *logger.Logger, buffer int) *EffectsRecorder {
	if buffer <= 0 {
		buffer = defaultEffectsBuffer
	}
	return &EffectsRecorder{
		repo:   repo,
		log:    log,
		events: make(chan models.FurnaceEvent, buffer),
		now:    time.Now,
	}
}

// Record queues e for the writer goroutine, filling in id and timestamp.
func (r *EffectsRecorder) Record(e models.FurnaceEvent) {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = r.now().UTC()
	}
	select {
	case r.events <- e:
	default:
		r.dropped.Add(1)
	}
}

// Dropped is the number of events discarded because the buffer was full.
func (r *EffectsRecorder) Dropped() uint64 { return r.dropped.Load() }

// Run writes queued events until ctx is done, then flushes what is left.
func (r *EffectsRecorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return
		case e := <-r.events:
			r.write(ctx, e)
		}
	}
}

func (r *EffectsRecorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case e := <-r.events:
			r.write(ctx, e)
		default:
			if n := r.Dropped(); n > 0 {
				r.log.Warnw("events_dropped", "count", n)
			}
			return
		}
	}
}

func (r *EffectsRecorder) write(ctx context.Context, e models.FurnaceEvent) {
	if err := r.repo.Append(ctx, e); err != nil {
		r.log.Errorw("event_append_failed", "type", e.Type, "location", e.Location, "err", err)
	}
}

func (r *EffectsRecorder) Ignited(loc furnace.Location, f catalog.Fuel) {
	r.Record(models.FurnaceEvent{
		Type:        models.EventIgnited,
		Location:    loc.String(),
		Description: fmt.Sprintf("ignited with %s", f.Item),
		Metadata: map[string]any{
			"fuel":        f.Item.Key(),
			"burn_time":   f.BurnTime,
			"temperature": f.Temperature,
		},
	})
}

func (r *EffectsRecorder) BurnedOut(loc furnace.Location) {
	r.Record(models.FurnaceEvent{
		Type:        models.EventBurnedOut,
		Location:    loc.String(),
		Description: "fuel burned out",
	})
}

func (r *EffectsRecorder) Deposited(loc furnace.Location, recipeID string, outputs []catalog.Stack) {
	items := make(map[string]int, len(outputs))
	for _, s := range outputs {
		items[s.Key()] += s.Amount
	}
	r.Record(models.FurnaceEvent{
		Type:        models.EventDeposited,
		Location:    loc.String(),
		Description: fmt.Sprintf("recipe %s completed", recipeID),
		Metadata:    map[string]any{"recipe": recipeID, "outputs": items},
	})
}

func (r *EffectsRecorder) Exploded(loc furnace.Location, temperature float64) {
	r.log.Warnw("furnace_exploded", "location", loc.String(), "temperature", temperature)
	r.Record(models.FurnaceEvent{
		Type:        models.EventExploded,
		Location:    loc.String(),
		Description: "furnace exploded",
		Metadata:    map[string]any{"temperature": temperature},
	})
}

func (r *EffectsRecorder) Shutdown(loc furnace.Location) {
	r.Record(models.FurnaceEvent{
		Type:        models.EventShutdown,
		Location:    loc.String(),
		Description: "emergency shutdown",
	})
}
