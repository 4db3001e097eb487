package lookup

import (
	"context"
	"sync"
	"time"

	"github.com/briangreenhill/cityexplorer/internal/db"
	"github.com/briangreenhill/cityexplorer/internal/models"
	"github.com/briangreenhill/cityexplorer/internal/upstream"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeRows is an in-memory RowStore that stamps inserts with the fake clock.
type fakeRows[T any] struct {
	mu      sync.Mutex
	clock   *fakeClock
	rows    map[int64][]models.Cached[T]
	reads   int
	deletes int
	inserts int

	readErr   error
	deleteErr error
	insertErr error
}

func newFakeRows[T any](clock *fakeClock) *fakeRows[T] {
	return &fakeRows[T]{clock: clock, rows: make(map[int64][]models.Cached[T])}
}

func (f *fakeRows[T]) CategoryRows(ctx context.Context, locationID int64) ([]models.Cached[T], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	return append([]models.Cached[T](nil), f.rows[locationID]...), nil
}

func (f *fakeRows[T]) DeleteCategoryRows(ctx context.Context, locationID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, locationID)
	return nil
}

func (f *fakeRows[T]) InsertCategoryRows(ctx context.Context, locationID int64, records []T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	now := f.clock.Now()
	for _, r := range records {
		f.rows[locationID] = append(f.rows[locationID], models.Cached[T]{CreatedAt: now, Record: r})
	}
	return nil
}

func (f *fakeRows[T]) stored(locationID int64) []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.Records(f.rows[locationID])
}

// fakeUpstream returns the next canned batch on every call.
type fakeUpstream[T any] struct {
	mu      sync.Mutex
	batches [][]T
	calls   int
	err     error
}

func (u *fakeUpstream[T]) fetch(ctx context.Context, loc models.Location) ([]T, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	if u.err != nil {
		return nil, u.err
	}
	if len(u.batches) == 0 {
		return nil, nil
	}
	b := u.batches[0]
	if len(u.batches) > 1 {
		u.batches = u.batches[1:]
	}
	return b, nil
}

func (u *fakeUpstream[T]) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

type fakeLocations struct {
	mu      sync.Mutex
	byQuery map[string]models.Location
	nextID  int64
	saves   int
	getErr  error
	saveErr error
}

func newFakeLocations() *fakeLocations {
	return &fakeLocations{byQuery: make(map[string]models.Location), nextID: 1}
}

func (f *fakeLocations) GetLocation(ctx context.Context, searchQuery string) (models.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return models.Location{}, f.getErr
	}
	loc, ok := f.byQuery[searchQuery]
	if !ok {
		return models.Location{}, db.ErrNotFound
	}
	return loc, nil
}

func (f *fakeLocations) SaveLocation(ctx context.Context, arg db.SaveLocationParams) (models.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return models.Location{}, f.saveErr
	}
	loc := models.Location{
		ID:             f.nextID,
		SearchQuery:    arg.SearchQuery,
		FormattedQuery: arg.FormattedQuery,
		Latitude:       arg.Latitude,
		Longitude:      arg.Longitude,
	}
	f.nextID++
	f.byQuery[arg.SearchQuery] = loc
	return loc, nil
}

type fakeGeocoder struct {
	mu     sync.Mutex
	result upstream.GeocodeResult
	err    error
	calls  int
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (upstream.GeocodeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.result, g.err
}

type fakeNotifier struct {
	created []models.Location
	err     error
}

func (n *fakeNotifier) LocationCreated(ctx context.Context, loc models.Location) error {
	n.created = append(n.created, loc)
	return n.err
}
