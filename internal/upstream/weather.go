package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/briangreenhill/cityexplorer/internal/models"
)

const DefaultWeatherBaseURL = "https://api.darksky.net"

// Weather fetches daily forecasts from the Dark Sky forecast API.
type Weather struct {
	c *Client
}

func NewWeather(apiKey string, opts ...Option) (*Weather, error) {
	c, err := newClient("darksky", DefaultWeatherBaseURL, apiKey, opts)
	if err != nil {
		return nil, err
	}
	return &Weather{c: c}, nil
}

type forecastBody struct {
	Daily struct {
		Data []struct {
			Time    int64  `json:"time"` // unix seconds
			Summary string `json:"summary"`
		} `json:"data"`
	} `json:"daily"`
}

// Forecasts returns one forecast per day for the location's coordinates.
func (w *Weather) Forecasts(ctx context.Context, loc models.Location) ([]models.Forecast, error) {
	p := fmt.Sprintf("/forecast/%s/%s,%s",
		w.c.apiKey,
		strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
		strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
	)
	q := url.Values{}
	q.Set("exclude", "currently,minutely,hourly,alerts,flags")

	var body forecastBody
	if err := w.c.getJSON(ctx, p, q, &body); err != nil {
		return nil, err
	}

	out := make([]models.Forecast, 0, len(body.Daily.Data))
	for _, d := range body.Daily.Data {
		out = append(out, models.Forecast{
			Forecast: d.Summary,
			Time:     time.Unix(d.Time, 0).UTC(),
		})
	}
	return out, nil
}
