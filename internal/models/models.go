// Package models holds the records shared by the store, the upstream clients
// and the HTTP layer.
package models

import (
	"encoding/json"
	"time"
)

// Category names one class of upstream data cached per location.
type Category string

const (
	Weather Category = "weather"
	Events  Category = "events"
	Movies  Category = "movies"
)

// Location is a geocoded search query. It is stored once per search text and
// never updated.
type Location struct {
	ID             int64   `json:"id"`
	SearchQuery    string  `json:"search_query"`
	FormattedQuery string  `json:"formatted_query"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// Forecast is one day of a weather forecast. On the wire Time is unix
// seconds.
type Forecast struct {
	Forecast string
	Time     time.Time
}

type forecastJSON struct {
	Forecast string `json:"forecast"`
	Time     int64  `json:"time"`
}

func (f Forecast) MarshalJSON() ([]byte, error) {
	return json.Marshal(forecastJSON{Forecast: f.Forecast, Time: f.Time.Unix()})
}

func (f *Forecast) UnmarshalJSON(b []byte) error {
	var v forecastJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Forecast = v.Forecast
	f.Time = time.Unix(v.Time, 0).UTC()
	return nil
}

// Movie is one movie search result.
type Movie struct {
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	AverageVotes float64 `json:"average_votes"`
	TotalVotes   int     `json:"total_votes"`
	ImageURL     string  `json:"image_url"`
	Popularity   float64 `json:"popularity"`
	ReleasedOn   string  `json:"released_on"`
}

// Event is one nearby event.
type Event struct {
	Link      string `json:"link"`
	Name      string `json:"name"`
	EventDate string `json:"event_date"`
	Summary   string `json:"summary"`
}

// Cached wraps a stored record with the time its batch was written.
type Cached[T any] struct {
	CreatedAt time.Time
	Record    T
}

// Records strips the cache metadata.
func Records[T any](rows []Cached[T]) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Record)
	}
	return out
}
