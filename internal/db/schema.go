package db

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS locations (
	id              BIGSERIAL PRIMARY KEY,
	search_query    TEXT NOT NULL UNIQUE,
	formatted_query TEXT NOT NULL,
	latitude        DOUBLE PRECISION NOT NULL,
	longitude       DOUBLE PRECISION NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS weather (
	id            BIGSERIAL PRIMARY KEY,
	location_id   BIGINT NOT NULL REFERENCES locations (id),
	created_at    TIMESTAMPTZ NOT NULL,
	forecast      TEXT NOT NULL,
	forecast_time TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS weather_location_id_idx ON weather (location_id);

CREATE TABLE IF NOT EXISTS movies (
	id            BIGSERIAL PRIMARY KEY,
	location_id   BIGINT NOT NULL REFERENCES locations (id),
	created_at    TIMESTAMPTZ NOT NULL,
	title         TEXT NOT NULL,
	overview      TEXT NOT NULL,
	average_votes DOUBLE PRECISION NOT NULL,
	total_votes   INTEGER NOT NULL,
	image_url     TEXT NOT NULL,
	popularity    DOUBLE PRECISION NOT NULL,
	released_on   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS movies_location_id_idx ON movies (location_id);

CREATE TABLE IF NOT EXISTS events (
	id          BIGSERIAL PRIMARY KEY,
	location_id BIGINT NOT NULL REFERENCES locations (id),
	created_at  TIMESTAMPTZ NOT NULL,
	link        TEXT NOT NULL,
	name        TEXT NOT NULL,
	event_date  TEXT NOT NULL,
	summary     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS events_location_id_idx ON events (location_id);
`

// Migrate creates the tables if they do not exist yet.
func (q *Queries) Migrate(ctx context.Context) error {
	_, err := q.db.Exec(ctx, schema)
	return err
}
