package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	appmw "github.com/briangreenhill/cityexplorer/internal/http/middleware"
	"github.com/briangreenhill/cityexplorer/internal/lookup"
	"github.com/briangreenhill/cityexplorer/internal/models"
)

const (
	rootText     = "server works"
	notFoundText = "Sorry, that route does not exist."
	failureText  = "Sorry, something went wrong"
)

var errBadLocation = errors.New("bad location parameter")

type Resolver interface {
	Resolve(ctx context.Context, searchText string) (models.Location, error)
}

// Lookup serves one category for a location.
type Lookup[T any] interface {
	Lookup(ctx context.Context, loc models.Location) ([]T, error)
}

type Server struct {
	Router    *chi.Mux
	Locations Resolver
}

type ServerOptions struct {
	Locations Resolver
	Weather   Lookup[models.Forecast]
	Movies    Lookup[models.Movie]
	Events    Lookup[models.Event]
	Metrics   http.Handler // optional
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(appmw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", appmw.RequestIDHeader},
		ExposedHeaders: []string{appmw.RequestIDHeader},
		MaxAge:         300,
	}))

	s := &Server{Router: r, Locations: opts.Locations}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeText(r.Context(), w, http.StatusOK, "ok")
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeText(r.Context(), w, http.StatusOK, rootText)
	})
	r.Get("/location", s.handleLocation)
	r.Get("/weather", serveCategory(models.Weather, opts.Weather))
	r.Get("/movies", serveCategory(models.Movies, opts.Movies))
	r.Get("/events", serveCategory(models.Events, opts.Events))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeText(r.Context(), w, http.StatusOK, notFoundText)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeText(r.Context(), w, http.StatusOK, notFoundText)
	})

	return s
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := s.Locations.Resolve(r.Context(), r.URL.Query().Get("data"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, loc)
}

func serveCategory[T any](category models.Category, l Lookup[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc, err := locationParam(r)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		records, err := l.Lookup(r.Context(), loc)
		if err != nil {
			writeFailure(w, r, fmt.Errorf("%s for location %d: %w", category, loc.ID, err))
			return
		}
		if records == nil {
			records = []T{}
		}
		writeJSON(r.Context(), w, http.StatusOK, records)
	}
}

// locationParam reads the location from the data parameter, either as a JSON
// object or in the data[field]=value form browsers send for nested objects.
func locationParam(r *http.Request) (models.Location, error) {
	q := r.URL.Query()

	var loc models.Location
	if raw := q.Get("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &loc); err != nil {
			return models.Location{}, fmt.Errorf("%w: %w", errBadLocation, err)
		}
	} else {
		var err error
		if loc.ID, err = bracketInt(q.Get("data[id]")); err != nil {
			return models.Location{}, err
		}
		if loc.Latitude, err = bracketFloat(q.Get("data[latitude]")); err != nil {
			return models.Location{}, err
		}
		if loc.Longitude, err = bracketFloat(q.Get("data[longitude]")); err != nil {
			return models.Location{}, err
		}
		loc.SearchQuery = q.Get("data[search_query]")
		loc.FormattedQuery = q.Get("data[formatted_query]")
	}

	if loc.ID <= 0 {
		return models.Location{}, fmt.Errorf("%w: missing location id", errBadLocation)
	}
	return loc, nil
}

func bracketInt(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errBadLocation, err)
	}
	return n, nil
}

func bracketFloat(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errBadLocation, err)
	}
	return f, nil
}

type failure struct {
	Status       int    `json:"status"`
	ResponseText string `json:"responseText"`
}

// writeFailure logs err and answers with the generic failure body. The
// cause never reaches the client.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	kind := lookup.Kind(err)
	if errors.Is(err, errBadLocation) {
		kind = "bad_request"
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Str("kind", kind).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(r.Context(), w, http.StatusInternalServerError, failure{
		Status:       http.StatusInternalServerError,
		ResponseText: failureText,
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("write json response")
	}
}

func writeText(ctx context.Context, w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("write response")
	}
}
