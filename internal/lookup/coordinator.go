// Package lookup implements the read-through cache between the store and the
// upstream APIs, and location resolution.
package lookup

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/briangreenhill/cityexplorer/internal/metrics"
	"github.com/briangreenhill/cityexplorer/internal/models"
)

const DefaultStaleAfter = 15 * time.Second

// RowStore is the cache store for one category.
type RowStore[T any] interface {
	CategoryRows(ctx context.Context, locationID int64) ([]models.Cached[T], error)
	DeleteCategoryRows(ctx context.Context, locationID int64) error
	InsertCategoryRows(ctx context.Context, locationID int64, records []T) error
}

// FetchFunc produces fresh records for a location. Implementations built
// with Persisting store the records before returning them.
type FetchFunc[T any] func(ctx context.Context, loc models.Location) ([]T, error)

// Persisting turns an upstream call into a FetchFunc that writes its result
// to rows. Nothing is written when the upstream call fails.
func Persisting[T any](upstream FetchFunc[T], rows RowStore[T]) FetchFunc[T] {
	return func(ctx context.Context, loc models.Location) ([]T, error) {
		records, err := upstream(ctx, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		if err := rows.InsertCategoryRows(ctx, loc.ID, records); err != nil {
			return nil, fmt.Errorf("%w: insert rows: %w", ErrStore, err)
		}
		if records == nil {
			records = []T{}
		}
		return records, nil
	}
}

type Option func(*settings)

type settings struct {
	staleAfter time.Duration
	now        func() time.Time
}

// WithStaleAfter sets the age after which a cached batch is refetched.
func WithStaleAfter(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// Coordinator serves one category from the cache store, refetching when the
// cached batch is missing or older than the staleness threshold.
type Coordinator[T any] struct {
	category models.Category
	rows     RowStore[T]
	fetch    FetchFunc[T]
	settings
	group singleflight.Group
}

func NewCoordinator[T any](category models.Category, rows RowStore[T], fetch FetchFunc[T], opts ...Option) *Coordinator[T] {
	s := settings{staleAfter: DefaultStaleAfter, now: time.Now}
	for _, o := range opts {
		o(&s)
	}
	return &Coordinator[T]{
		category: category,
		rows:     rows,
		fetch:    fetch,
		settings: s,
	}
}

func (c *Coordinator[T]) Category() models.Category {
	return c.category
}

// Lookup returns the records of the coordinator's category for loc.
// Concurrent lookups of the same location share one store read and at most
// one upstream fetch. The shared work is not cancelled when one caller gives
// up; each caller still returns as soon as its own ctx is done.
func (c *Coordinator[T]) Lookup(ctx context.Context, loc models.Location) ([]T, error) {
	key := strconv.FormatInt(loc.ID, 10)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.lookup(context.WithoutCancel(ctx), loc)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]T), nil
	}
}

// Warm runs a lookup and discards the records.
func (c *Coordinator[T]) Warm(ctx context.Context, loc models.Location) error {
	_, err := c.Lookup(ctx, loc)
	return err
}

func (c *Coordinator[T]) lookup(ctx context.Context, loc models.Location) ([]T, error) {
	log := zerolog.Ctx(ctx).With().
		Str("category", string(c.category)).
		Int64("location_id", loc.ID).
		Logger()

	rows, err := c.rows.CategoryRows(ctx, loc.ID)
	if err != nil {
		metrics.RecordLookup(string(c.category), metrics.ResultError)
		return nil, fmt.Errorf("%w: read %s rows: %w", ErrStore, c.category, err)
	}

	if len(rows) == 0 {
		log.Debug().Msg("cache miss")
		metrics.RecordLookup(string(c.category), metrics.ResultMiss)
		return c.refresh(ctx, loc)
	}

	age := c.now().Sub(rows[0].CreatedAt)
	if age > c.staleAfter {
		log.Debug().Dur("age", age).Msg("cache stale")
		metrics.RecordLookup(string(c.category), metrics.ResultStale)
		if err := c.rows.DeleteCategoryRows(ctx, loc.ID); err != nil {
			metrics.RecordLookup(string(c.category), metrics.ResultError)
			return nil, fmt.Errorf("%w: delete %s rows: %w", ErrStore, c.category, err)
		}
		return c.refresh(ctx, loc)
	}

	log.Debug().Dur("age", age).Int("rows", len(rows)).Msg("cache hit")
	metrics.RecordLookup(string(c.category), metrics.ResultHit)
	return models.Records(rows), nil
}

func (c *Coordinator[T]) refresh(ctx context.Context, loc models.Location) ([]T, error) {
	records, err := c.fetch(ctx, loc)
	if err != nil {
		metrics.RecordLookup(string(c.category), metrics.ResultError)
		return nil, fmt.Errorf("fetch %s: %w", c.category, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
