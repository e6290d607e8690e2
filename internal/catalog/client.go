package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "en-US"
)

// Client represents a TMDB API client
type Client struct {
	baseURL     string
	bearerToken string
	language    string
	httpClient  *http.Client
	logger      *slog.Logger
}

// ClientConfig holds configuration for the TMDB client
type ClientConfig struct {
	BaseURL     string
	BearerToken string
	Language    string
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// NewClient creates a new TMDB API client with default settings
func NewClient(bearerToken string) (*Client, error) {
	return NewClientWithConfig(ClientConfig{BearerToken: bearerToken})
}

// NewClientWithConfig creates a new TMDB API client with full configuration.
// No timeout is set on the default HTTP client; transport defaults apply.
func NewClientWithConfig(cfg ClientConfig) (*Client, error) {
	token := strings.TrimSpace(cfg.BearerToken)
	if token == "" {
		return nil, errors.New("tmdb bearer token required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		bearerToken: token,
		language:    cfg.Language,
		httpClient:  cfg.HTTPClient,
		logger:      cfg.Logger.With("component", "catalog"),
	}, nil
}

// NowPlaying fetches the first page of movies currently in theaters
func (c *Client) NowPlaying(ctx context.Context) ([]Movie, error) {
	return c.list(ctx, "now_playing", "/movie/now_playing")
}

// Popular fetches the first page of popular movies
func (c *Client) Popular(ctx context.Context) ([]Movie, error) {
	return c.list(ctx, "popular", "/movie/popular")
}

// TopRated fetches the first page of top rated movies
func (c *Client) TopRated(ctx context.Context) ([]Movie, error) {
	return c.list(ctx, "top_rated", "/movie/top_rated")
}

// Search searches movies by title. A blank query returns no results without
// contacting the catalog.
func (c *Client) Search(ctx context.Context, query string) ([]Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("include_adult", "false")

	var resp ListResponse
	ok, err := c.get(ctx, "search", "/search/movie", params, &resp)
	if err != nil || !ok {
		return nil, err
	}

	movies := make([]Movie, 0, len(resp.Results))
	for _, m := range resp.Results {
		if m.Adult {
			continue
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// MovieDetails fetches detailed information about a movie. It returns nil
// without an error when the catalog answers with an unusable body.
func (c *Client) MovieDetails(ctx context.Context, movieID int) (*Movie, error) {
	var details Movie
	ok, err := c.get(ctx, "movie", "/movie/"+strconv.Itoa(movieID), nil, &details)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &details, nil
}

// MovieVideos fetches the videos attached to a movie, in catalog order
func (c *Client) MovieVideos(ctx context.Context, movieID int) ([]Video, error) {
	var resp VideosResponse
	path := fmt.Sprintf("/movie/%d/videos", movieID)
	ok, err := c.get(ctx, "videos", path, nil, &resp)
	if err != nil || !ok {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) list(ctx context.Context, endpoint, path string) ([]Movie, error) {
	params := url.Values{}
	params.Set("page", "1")

	var resp ListResponse
	ok, err := c.get(ctx, endpoint, path, params, &resp)
	if err != nil || !ok {
		return nil, err
	}
	return resp.Results, nil
}

// get issues a single GET and decodes the body into out. The boolean result is
// false when a 2xx body was empty or malformed; that case is logged, not raised,
// and out may hold partially decoded data the caller must discard.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) (bool, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("language", c.language)
	requestURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return false, transportError(endpoint, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		c.logger.Debug("catalog request failed", "endpoint", endpoint, "latency", latency, "error", err)
		return false, transportError(endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, transportError(endpoint, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("catalog request rejected",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"latency", latency,
		)
		return false, statusError(endpoint, resp.StatusCode, string(bytes.TrimSpace(body)))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		c.logger.Warn("catalog returned empty body", "endpoint", endpoint, "kind", "parse")
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Warn("catalog returned malformed body",
			"endpoint", endpoint,
			"kind", "parse",
			"error", err,
		)
		return false, nil
	}

	c.logger.Debug("catalog request completed", "endpoint", endpoint, "latency", latency)
	return true, nil
}
