package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeocodeServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeocode(t *testing.T) {
	var gotAddress string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"formatted_address": "Seattle, WA, USA", "geometry": {"location": {"lat": 47.6062095, "lng": -122.3320708}}},
				{"formatted_address": "Seattle, Other", "geometry": {"location": {"lat": 1, "lng": 2}}}
			]
		}`))
	}))
	defer srv.Close()

	g, err := NewGeocoder("test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	res, err := g.Geocode(context.Background(), "Seattle")
	require.NoError(t, err)
	assert.Equal(t, "Seattle", gotAddress)
	assert.Equal(t, GeocodeResult{FormattedAddress: "Seattle, WA, USA", Latitude: 47.6062095, Longitude: -122.3320708}, res)
}

func TestGeocodeZeroResults(t *testing.T) {
	srv := newGeocodeServer(t, `{"status": "ZERO_RESULTS", "results": []}`)

	g, err := NewGeocoder("test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGeocodeDeniedStatus(t *testing.T) {
	srv := newGeocodeServer(t, `{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`)

	g, err := NewGeocoder("test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "Seattle")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResults)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestGeocodeEmptyAddress(t *testing.T) {
	g, err := NewGeocoder("test-key", WithBaseURL("http://127.0.0.1:0"))
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewGeocoder("")
	assert.Error(t, err)
	_, err = NewWeather("")
	assert.Error(t, err)
	_, err = NewMovies("")
	assert.Error(t, err)
	_, err = NewEvents("")
	assert.Error(t, err)
}
