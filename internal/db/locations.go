package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/briangreenhill/cityexplorer/internal/models"
)

const getLocation = `
SELECT id, search_query, formatted_query, latitude, longitude
FROM locations
WHERE search_query = $1
`

func (q *Queries) GetLocation(ctx context.Context, searchQuery string) (models.Location, error) {
	var l models.Location
	err := q.db.QueryRow(ctx, getLocation, searchQuery).
		Scan(&l.ID, &l.SearchQuery, &l.FormattedQuery, &l.Latitude, &l.Longitude)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Location{}, ErrNotFound
	}
	return l, err
}

// A second insert of the same search query returns the row that won.
const saveLocation = `
INSERT INTO locations (search_query, formatted_query, latitude, longitude)
VALUES ($1, $2, $3, $4)
ON CONFLICT (search_query) DO UPDATE SET search_query = EXCLUDED.search_query
RETURNING id, search_query, formatted_query, latitude, longitude
`

type SaveLocationParams struct {
	SearchQuery    string
	FormattedQuery string
	Latitude       float64
	Longitude      float64
}

func (q *Queries) SaveLocation(ctx context.Context, arg SaveLocationParams) (models.Location, error) {
	var l models.Location
	err := q.db.QueryRow(ctx, saveLocation,
		arg.SearchQuery, arg.FormattedQuery, arg.Latitude, arg.Longitude,
	).Scan(&l.ID, &l.SearchQuery, &l.FormattedQuery, &l.Latitude, &l.Longitude)
	return l, err
}
