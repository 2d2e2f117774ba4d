// Package tmdb implements the client for the upstream movie metadata
// API. Responses are surfaced as loosely typed payloads; shaping them
// into canonical records is the movie package's job.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/flickfinder/flickfinder/config"
	"github.com/flickfinder/flickfinder/movie"
)

// Client talks to the upstream metadata API with a courtesy rate limit
// between requests.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// SearchPage is one page of raw search results.
type SearchPage struct {
	Page         int              `json:"page"`
	TotalPages   int              `json:"total_pages"`
	TotalResults int              `json:"total_results"`
	Results      []movie.RawMovie `json:"results"`
}

// NewClient creates the upstream client from configuration.
func NewClient(cfg *config.TMDB) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// SearchMovies fetches one page of raw movie payloads for a query term.
func (c *Client) SearchMovies(ctx context.Context, term string, page int) (*SearchPage, error) {
	params := url.Values{}
	params.Set("query", term)
	params.Set("page", strconv.Itoa(page))

	var result SearchPage
	if err := c.get(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieDetails fetches the full raw payload for one movie, including
// genre names and runtime which the search results omit.
func (c *Client) MovieDetails(ctx context.Context, id int64) (movie.RawMovie, error) {
	var result movie.RawMovie
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), url.Values{}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Fetch yields one batch of complete raw payloads for a sampling term.
// Search results omit genre names and runtime, so each result is
// enriched with its detail payload; when the detail fetch fails the
// search payload alone is used.
func (c *Client) Fetch(ctx context.Context, term string, page int) ([]movie.RawMovie, error) {
	sp, err := c.SearchMovies(ctx, term, page)
	if err != nil {
		return nil, err
	}

	out := make([]movie.RawMovie, 0, len(sp.Results))
	for _, raw := range sp.Results {
		id, _ := raw["id"].(float64)
		if id != 0 {
			details, err := c.MovieDetails(ctx, int64(id))
			if err != nil {
				if ctx.Err() != nil {
					return out, ctx.Err()
				}
			} else {
				merged := make(movie.RawMovie, len(raw)+len(details))
				for k, v := range raw {
					merged[k] = v
				}
				for k, v := range details {
					merged[k] = v
				}
				raw = merged
			}
		}
		out = append(out, raw)
	}
	return out, nil
}

// get performs one rate-limited API request and decodes the JSON body.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	// JWT-style keys go in the Authorization header, legacy keys as a
	// query parameter.
	bearer := strings.Contains(c.apiKey, ".")
	if !bearer {
		params.Set("api_key", c.apiKey)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if bearer {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return nil
}
