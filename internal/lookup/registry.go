package lookup

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/briangreenhill/cityexplorer/internal/models"
)

// Warmer fills the cache of one category for a location.
type Warmer interface {
	Category() models.Category
	Warm(ctx context.Context, loc models.Location) error
}

// Registry manages the cached categories
type Registry struct {
	warmers map[models.Category]Warmer
}

func NewRegistry() *Registry {
	return &Registry{
		warmers: make(map[models.Category]Warmer),
	}
}

// Register adds a category, replacing any previous one with the same name
func (r *Registry) Register(w Warmer) {
	r.warmers[w.Category()] = w
}

// List returns the registered category names in sorted order
func (r *Registry) List() []models.Category {
	names := make([]models.Category, 0, len(r.warmers))
	for name := range r.warmers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// WarmAll warms every registered category. A failing category does not stop
// the others; all failures are returned together.
func (r *Registry) WarmAll(ctx context.Context, loc models.Location) error {
	var errs []error
	for _, name := range r.List() {
		if err := r.warmers[name].Warm(ctx, loc); err != nil {
			errs = append(errs, fmt.Errorf("warm %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
