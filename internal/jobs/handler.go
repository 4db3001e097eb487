package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/cityexplorer/internal/models"
)

// Warmer fills every category cache for a location.
type Warmer interface {
	WarmAll(ctx context.Context, loc models.Location) error
}

// HandleWarmLocation decodes a warm task and runs every category lookup.
// A bad payload is not retried; lookup failures are.
func HandleWarmLocation(w Warmer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p WarmLocationPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("bad payload: %v: %w", err, asynq.SkipRetry)
		}
		if p.Location.ID <= 0 {
			return fmt.Errorf("payload without location id: %w", asynq.SkipRetry)
		}

		log := zerolog.Ctx(ctx).With().Int64("location_id", p.Location.ID).Logger()
		log.Info().Msg("[warm] start")
		start := time.Now()
		if err := w.WarmAll(log.WithContext(ctx), p.Location); err != nil {
			log.Warn().Err(err).Dur("duration", time.Since(start)).Msg("[warm] failed")
			return err
		}
		log.Info().Dur("duration", time.Since(start)).Msg("[warm] done")
		return nil
	}
}

// NewServeMux registers every task handler.
func NewServeMux(w Warmer) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TaskWarmLocation, HandleWarmLocation(w))
	return mux
}
