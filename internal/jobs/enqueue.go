package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/cityexplorer/internal/models"
)

// TaskEnqueuer is the part of asynq.Client used here.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer schedules a cache warm-up for every new location.
type Enqueuer struct {
	client TaskEnqueuer
}

func NewEnqueuer(client TaskEnqueuer) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) LocationCreated(ctx context.Context, loc models.Location) error {
	task, err := NewWarmLocationTask(loc)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.TaskID(warmTaskID(loc.ID)),
		asynq.Queue(QueueWarm),
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		zerolog.Ctx(ctx).Debug().Int64("location_id", loc.ID).Msg("[asynq] warm already queued")
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue warm location %d: %w", loc.ID, err)
	}
	zerolog.Ctx(ctx).Info().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int64("location_id", loc.ID).
		Msg("[asynq] enqueued warm task")
	return nil
}
