package upstream

import (
	"context"
	"net/url"

	"github.com/briangreenhill/cityexplorer/internal/models"
)

const (
	DefaultMoviesBaseURL = "https://api.themoviedb.org"
	posterBaseURL        = "https://image.tmdb.org/t/p/w200"
)

// Movies searches The Movie Database for titles matching a location's
// search text.
type Movies struct {
	c *Client
}

func NewMovies(apiKey string, opts ...Option) (*Movies, error) {
	c, err := newClient("tmdb", DefaultMoviesBaseURL, apiKey, opts)
	if err != nil {
		return nil, err
	}
	return &Movies{c: c}, nil
}

type movieSearchBody struct {
	Results []struct {
		Title       string  `json:"title"`
		Overview    string  `json:"overview"`
		VoteAverage float64 `json:"vote_average"`
		VoteCount   int     `json:"vote_count"`
		PosterPath  *string `json:"poster_path"`
		Popularity  float64 `json:"popularity"`
		ReleaseDate string  `json:"release_date"`
	} `json:"results"`
}

// Search returns the first page of results in TMDB's ranking order.
func (m *Movies) Search(ctx context.Context, loc models.Location) ([]models.Movie, error) {
	q := url.Values{}
	q.Set("api_key", m.c.apiKey)
	q.Set("language", "en-US")
	q.Set("query", loc.SearchQuery)
	q.Set("page", "1")
	q.Set("include_adult", "false")

	var body movieSearchBody
	if err := m.c.getJSON(ctx, "/3/search/movie", q, &body); err != nil {
		return nil, err
	}

	out := make([]models.Movie, 0, len(body.Results))
	for _, r := range body.Results {
		var image string
		if r.PosterPath != nil && *r.PosterPath != "" {
			image = posterBaseURL + *r.PosterPath
		}
		out = append(out, models.Movie{
			Title:        r.Title,
			Overview:     r.Overview,
			AverageVotes: r.VoteAverage,
			TotalVotes:   r.VoteCount,
			ImageURL:     image,
			Popularity:   r.Popularity,
			ReleasedOn:   r.ReleaseDate,
		})
	}
	return out, nil
}
