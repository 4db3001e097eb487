// Package app wires the store, the upstream clients and the lookup
// coordinators together for the api and worker binaries.
package app

import (
	"fmt"
	"net/http"

	"github.com/briangreenhill/cityexplorer/internal/config"
	"github.com/briangreenhill/cityexplorer/internal/db"
	"github.com/briangreenhill/cityexplorer/internal/lookup"
	"github.com/briangreenhill/cityexplorer/internal/models"
	"github.com/briangreenhill/cityexplorer/internal/upstream"
)

type Services struct {
	Resolver *lookup.Resolver
	Weather  *lookup.Coordinator[models.Forecast]
	Movies   *lookup.Coordinator[models.Movie]
	Events   *lookup.Coordinator[models.Event]
	Registry *lookup.Registry
}

func New(cfg config.Config, q *db.Queries) (*Services, error) {
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	geocoder, err := upstream.NewGeocoder(cfg.Geocode.APIKey,
		upstream.WithHTTPClient(httpClient), upstream.WithBaseURL(cfg.Geocode.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("geocode client: %w", err)
	}
	weather, err := upstream.NewWeather(cfg.Weather.APIKey,
		upstream.WithHTTPClient(httpClient), upstream.WithBaseURL(cfg.Weather.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("weather client: %w", err)
	}
	movies, err := upstream.NewMovies(cfg.Movie.APIKey,
		upstream.WithHTTPClient(httpClient), upstream.WithBaseURL(cfg.Movie.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("movie client: %w", err)
	}
	events, err := upstream.NewEvents(cfg.Events.APIToken,
		upstream.WithHTTPClient(httpClient), upstream.WithBaseURL(cfg.Events.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("events client: %w", err)
	}

	stale := lookup.WithStaleAfter(cfg.StaleAfter)

	weatherRows := db.NewCategoryStore(q, db.WeatherTable)
	movieRows := db.NewCategoryStore(q, db.MoviesTable)
	eventRows := db.NewCategoryStore(q, db.EventsTable)

	s := &Services{
		Resolver: lookup.NewResolver(q, geocoder),
		Weather:  lookup.NewCoordinator(models.Weather, weatherRows, lookup.Persisting(weather.Forecasts, weatherRows), stale),
		Movies:   lookup.NewCoordinator(models.Movies, movieRows, lookup.Persisting(movies.Search, movieRows), stale),
		Events:   lookup.NewCoordinator(models.Events, eventRows, lookup.Persisting(events.Nearby, eventRows), stale),
		Registry: lookup.NewRegistry(),
	}
	s.Registry.Register(s.Weather)
	s.Registry.Register(s.Movies)
	s.Registry.Register(s.Events)
	return s, nil
}
