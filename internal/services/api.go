package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/villagers"
)

const (
	DefaultAPIURL     = "https://acnhapi.com/v1a/villagers/"
	DefaultAPITimeout = 10 * time.Second
)

// APISource fetches the legacy catalog over HTTP.
type APISource struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewAPISource creates a new API source. Zero values fall back to the public
// endpoint, [http.DefaultClient] and [DefaultAPITimeout].
func NewAPISource(baseURL string, client *http.Client, timeout time.Duration) *APISource {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultAPITimeout
	}

	return &APISource{
		baseURL:    baseURL,
		httpClient: client,
		timeout:    timeout,
	}
}

func (a *APISource) Kind() models.Source { return models.SourceAPI }

// URL is the endpoint queried by Fetch.
func (a *APISource) URL() string { return a.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Get performs a GET request against the endpoint and returns the raw response.
func (a *APISource) Get(ctx context.Context) (*APIResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", shared.ErrTimeout, a.baseURL, a.timeout)
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// Fetch returns the catalog's elements. The API answers with an object keyed
// by file name; values are taken in document order.
func (a *APISource) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	resp, err := a.Get(ctx)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, a.baseURL, resp.StatusCode)
	}
	return villagers.SplitDataset(resp.Body)
}
