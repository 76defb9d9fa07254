// Package tmdb implements domain.MetadataClient against the TMDB v3 API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tamojit-123/tivi/internal/domain"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	defaultTimeout = 30 * time.Second
	userAgent      = "Tivi/1.0"
)

// Client implements domain.MetadataClient for TMDB
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new TMDB API client
func NewClient(apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// NewClientWithBaseURL creates a client against a non-default server.
// Used by tests.
func NewClientWithBaseURL(baseURL, apiKey string, logger *slog.Logger) *Client {
	c := NewClient(apiKey, logger)
	c.baseURL = baseURL
	return c
}

// doRequest performs an authenticated GET and decodes the JSON body into dest
func (c *Client) doRequest(ctx context.Context, path string, dest interface{}) error {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return domain.ErrAuthFailed
	case http.StatusNotFound:
		return domain.ErrShowNotFound
	default:
		return fmt.Errorf("tmdb: unexpected status %d for %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *Client) GetShow(ctx context.Context, showID string) (domain.ShowDetails, error) {
	var tv tvDetails
	if err := c.doRequest(ctx, "/tv/"+showID, &tv); err != nil {
		return domain.ShowDetails{}, err
	}
	return mapShow(tv), nil
}

func (c *Client) GetShowImages(ctx context.Context, showID string) ([]domain.ShowImage, error) {
	var coll imageCollection
	if err := c.doRequest(ctx, "/tv/"+showID+"/images", &coll); err != nil {
		return nil, err
	}
	return mapImages(showID, coll), nil
}

func (c *Client) GetRelatedShows(ctx context.Context, showID string) ([]domain.RelatedShow, error) {
	var recs recommendations
	if err := c.doRequest(ctx, "/tv/"+showID+"/recommendations", &recs); err != nil {
		return nil, err
	}
	return mapRelated(recs), nil
}

func (c *Client) GetSeasons(ctx context.Context, showID string) ([]domain.SeasonWithEpisodes, error) {
	// The show document lists season numbers; each season document carries
	// the episodes.
	var tv tvDetails
	if err := c.doRequest(ctx, "/tv/"+showID, &tv); err != nil {
		return nil, err
	}

	seasons := make([]domain.SeasonWithEpisodes, 0, len(tv.Seasons))
	for _, summary := range tv.Seasons {
		var sd seasonDetails
		path := fmt.Sprintf("/tv/%s/season/%d", showID, summary.SeasonNumber)
		if err := c.doRequest(ctx, path, &sd); err != nil {
			return nil, fmt.Errorf("season %d: %w", summary.SeasonNumber, err)
		}
		seasons = append(seasons, mapSeason(showID, sd))
	}

	c.logger.Debug("fetched seasons", "showID", showID, "count", len(seasons))
	return seasons, nil
}
