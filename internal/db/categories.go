package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/briangreenhill/cityexplorer/internal/models"
)

// Table describes the payload columns of one category table. Fields returns
// pointers into r in Columns order; they are used both as scan targets and as
// insert arguments.
type Table[T any] struct {
	Category models.Category
	Columns  []string
	Fields   func(r *T) []any
}

var WeatherTable = Table[models.Forecast]{
	Category: models.Weather,
	Columns:  []string{"forecast", "forecast_time"},
	Fields: func(f *models.Forecast) []any {
		return []any{&f.Forecast, &f.Time}
	},
}

var MoviesTable = Table[models.Movie]{
	Category: models.Movies,
	Columns:  []string{"title", "overview", "average_votes", "total_votes", "image_url", "popularity", "released_on"},
	Fields: func(m *models.Movie) []any {
		return []any{&m.Title, &m.Overview, &m.AverageVotes, &m.TotalVotes, &m.ImageURL, &m.Popularity, &m.ReleasedOn}
	},
}

var EventsTable = Table[models.Event]{
	Category: models.Events,
	Columns:  []string{"link", "name", "event_date", "summary"},
	Fields: func(e *models.Event) []any {
		return []any{&e.Link, &e.Name, &e.EventDate, &e.Summary}
	},
}

func (t Table[T]) name() string {
	return pgx.Identifier{string(t.Category)}.Sanitize()
}

func (t Table[T]) columns() string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(cols, ", ")
}

// CategoryRows returns every cached row of t for a location in insertion order.
func CategoryRows[T any](ctx context.Context, q *Queries, t Table[T], locationID int64) ([]models.Cached[T], error) {
	sql := fmt.Sprintf(`SELECT created_at, %s FROM %s WHERE location_id = $1 ORDER BY id`, t.columns(), t.name())
	rows, err := q.db.Query(ctx, sql, locationID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Cached[T], error) {
		var c models.Cached[T]
		dest := append([]any{&c.CreatedAt}, t.Fields(&c.Record)...)
		err := row.Scan(dest...)
		return c, err
	})
}

// DeleteCategoryRows removes every row of t for a location.
func DeleteCategoryRows[T any](ctx context.Context, q *Queries, t Table[T], locationID int64) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE location_id = $1`, t.name())
	_, err := q.db.Exec(ctx, sql, locationID)
	return err
}

// InsertCategoryRows appends records for a location. Every row of the batch
// carries the same created_at.
func InsertCategoryRows[T any](ctx context.Context, q *Queries, t Table[T], locationID int64, records []T) error {
	if len(records) == 0 {
		return nil
	}

	placeholders := make([]string, len(t.Columns)+2)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sql := fmt.Sprintf(`INSERT INTO %s (location_id, created_at, %s) VALUES (%s)`,
		t.name(), t.columns(), strings.Join(placeholders, ", "))

	createdAt := q.now().UTC()
	b := &pgx.Batch{}
	for i := range records {
		args := append([]any{locationID, createdAt}, t.Fields(&records[i])...)
		b.Queue(sql, args...)
	}
	return q.db.SendBatch(ctx, b).Close()
}

// CategoryStore binds a Table to a Queries so a lookup coordinator can use it
// without knowing about SQL.
type CategoryStore[T any] struct {
	q     *Queries
	table Table[T]
}

func NewCategoryStore[T any](q *Queries, t Table[T]) *CategoryStore[T] {
	return &CategoryStore[T]{q: q, table: t}
}

func (s *CategoryStore[T]) Category() models.Category {
	return s.table.Category
}

func (s *CategoryStore[T]) CategoryRows(ctx context.Context, locationID int64) ([]models.Cached[T], error) {
	return CategoryRows(ctx, s.q, s.table, locationID)
}

func (s *CategoryStore[T]) DeleteCategoryRows(ctx context.Context, locationID int64) error {
	return DeleteCategoryRows(ctx, s.q, s.table, locationID)
}

func (s *CategoryStore[T]) InsertCategoryRows(ctx context.Context, locationID int64, records []T) error {
	return InsertCategoryRows(ctx, s.q, s.table, locationID, records)
}
