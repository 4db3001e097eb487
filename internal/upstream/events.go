package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/briangreenhill/cityexplorer/internal/models"
)

const DefaultEventsBaseURL = "https://www.eventbriteapi.com"

// Events searches Eventbrite for events near a location. Requests carry the
// personal token as a bearer credential.
type Events struct {
	c *Client
}

func NewEvents(token string, opts ...Option) (*Events, error) {
	c, err := newClient("eventbrite", DefaultEventsBaseURL, token, opts)
	if err != nil {
		return nil, err
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	c.http = &http.Client{
		Timeout:   c.http.Timeout,
		Transport: &oauth2.Transport{Source: src, Base: c.http.Transport},
	}
	return &Events{c: c}, nil
}

type eventSearchBody struct {
	Events []struct {
		URL  string `json:"url"`
		Name struct {
			Text string `json:"text"`
		} `json:"name"`
		Start struct {
			Local string `json:"local"`
		} `json:"start"`
		Summary string `json:"summary"`
	} `json:"events"`
}

// Nearby returns events around the location's coordinates.
func (e *Events) Nearby(ctx context.Context, loc models.Location) ([]models.Event, error) {
	q := url.Values{}
	q.Set("location.latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("location.longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("expand", "venue")

	var body eventSearchBody
	if err := e.c.getJSON(ctx, "/v3/events/search/", q, &body); err != nil {
		return nil, err
	}

	out := make([]models.Event, 0, len(body.Events))
	for _, ev := range body.Events {
		out = append(out, models.Event{
			Link:      ev.URL,
			Name:      ev.Name.Text,
			EventDate: ev.Start.Local,
			Summary:   ev.Summary,
		})
	}
	return out, nil
}
