package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/cityexplorer/internal/config"
	"github.com/briangreenhill/cityexplorer/internal/db"
	"github.com/briangreenhill/cityexplorer/internal/models"
)

func testConfig() config.Config {
	return config.Config{
		StaleAfter:      15 * time.Second,
		UpstreamTimeout: time.Second,
		Geocode:         config.UpstreamConfig{APIKey: "g"},
		Weather:         config.UpstreamConfig{APIKey: "w"},
		Movie:           config.UpstreamConfig{APIKey: "m"},
		Events:          config.EventsConfig{APIToken: "e"},
	}
}

func TestNewRegistersEveryCategory(t *testing.T) {
	s, err := New(testConfig(), db.New(nil))
	require.NoError(t, err)

	assert.NotNil(t, s.Resolver)
	assert.Equal(t, []models.Category{models.Events, models.Movies, models.Weather}, s.Registry.List())
	assert.Equal(t, models.Weather, s.Weather.Category())
	assert.Equal(t, models.Movies, s.Movies.Category())
	assert.Equal(t, models.Events, s.Events.Category())
}

func TestNewRequiresCredentials(t *testing.T) {
	tests := []struct {
		name  string
		unset func(*config.Config)
	}{
		{"geocode", func(c *config.Config) { c.Geocode.APIKey = "" }},
		{"weather", func(c *config.Config) { c.Weather.APIKey = "" }},
		{"movie", func(c *config.Config) { c.Movie.APIKey = "" }},
		{"events", func(c *config.Config) { c.Events.APIToken = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.unset(&cfg)
			_, err := New(cfg, db.New(nil))
			assert.ErrorContains(t, err, tt.name)
		})
	}
}
