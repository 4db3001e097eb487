package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/briangreenhill/cityexplorer/internal/db"
	"github.com/briangreenhill/cityexplorer/internal/models"
	"github.com/briangreenhill/cityexplorer/internal/upstream"
)

// LocationStore is the locations side of the cache store.
type LocationStore interface {
	GetLocation(ctx context.Context, searchQuery string) (models.Location, error)
	SaveLocation(ctx context.Context, arg db.SaveLocationParams) (models.Location, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (upstream.GeocodeResult, error)
}

// LocationNotifier is told about every location the resolver creates.
type LocationNotifier interface {
	LocationCreated(ctx context.Context, loc models.Location) error
}

// Resolver turns search text into a stored Location. Locations never expire.
type Resolver struct {
	store    LocationStore
	geocoder Geocoder
	notifier LocationNotifier
	group    singleflight.Group
}

func NewResolver(store LocationStore, geocoder Geocoder) *Resolver {
	return &Resolver{store: store, geocoder: geocoder}
}

// Notify registers n to be called after a location is first stored.
func (r *Resolver) Notify(n LocationNotifier) {
	r.notifier = n
}

// Resolve returns the stored location for searchText, geocoding and storing
// it on first use.
func (r *Resolver) Resolve(ctx context.Context, searchText string) (models.Location, error) {
	if strings.TrimSpace(searchText) == "" {
		return models.Location{}, fmt.Errorf("%w: empty search query", ErrNotFound)
	}

	ch := r.group.DoChan(searchText, func() (any, error) {
		return r.resolve(context.WithoutCancel(ctx), searchText)
	})
	select {
	case <-ctx.Done():
		return models.Location{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.Location{}, res.Err
		}
		return res.Val.(models.Location), nil
	}
}

func (r *Resolver) resolve(ctx context.Context, searchText string) (models.Location, error) {
	loc, err := r.store.GetLocation(ctx, searchText)
	if err == nil {
		return loc, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return models.Location{}, fmt.Errorf("%w: get location: %w", ErrStore, err)
	}

	geo, err := r.geocoder.Geocode(ctx, searchText)
	if errors.Is(err, upstream.ErrNoResults) {
		return models.Location{}, fmt.Errorf("%w: geocode %q: %w", ErrNotFound, searchText, err)
	}
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: geocode: %w", ErrUpstream, err)
	}

	loc, err = r.store.SaveLocation(ctx, db.SaveLocationParams{
		SearchQuery:    searchText,
		FormattedQuery: geo.FormattedAddress,
		Latitude:       geo.Latitude,
		Longitude:      geo.Longitude,
	})
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: save location: %w", ErrStore, err)
	}

	log := zerolog.Ctx(ctx)
	log.Info().Int64("location_id", loc.ID).Str("search_query", searchText).Msg("location created")

	if r.notifier != nil {
		if err := r.notifier.LocationCreated(ctx, loc); err != nil {
			log.Warn().Err(err).Int64("location_id", loc.ID).Msg("location created notification failed")
		}
	}
	return loc, nil
}
