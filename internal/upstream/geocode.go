package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const DefaultGeocodeBaseURL = "https://maps.googleapis.com"

// Geocoder resolves free text to an address and coordinates with the Google
// Geocoding API.
type Geocoder struct {
	c *Client
}

func NewGeocoder(apiKey string, opts ...Option) (*Geocoder, error) {
	c, err := newClient("geocode", DefaultGeocodeBaseURL, apiKey, opts)
	if err != nil {
		return nil, err
	}
	return &Geocoder{c: c}, nil
}

type GeocodeResult struct {
	FormattedAddress string
	Latitude         float64
	Longitude        float64
}

type geocodeBody struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns the best match for address, or ErrNoResults.
func (g *Geocoder) Geocode(ctx context.Context, address string) (GeocodeResult, error) {
	if strings.TrimSpace(address) == "" {
		return GeocodeResult{}, ErrNoResults
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.c.apiKey)

	var body geocodeBody
	if err := g.c.getJSON(ctx, "/maps/api/geocode/json", q, &body); err != nil {
		return GeocodeResult{}, err
	}

	switch body.Status {
	case "", "OK":
	case "ZERO_RESULTS":
		return GeocodeResult{}, ErrNoResults
	default:
		return GeocodeResult{}, fmt.Errorf("geocode: status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return GeocodeResult{}, ErrNoResults
	}

	r := body.Results[0]
	return GeocodeResult{
		FormattedAddress: r.FormattedAddress,
		Latitude:         r.Geometry.Location.Lat,
		Longitude:        r.Geometry.Location.Lng,
	}, nil
}
