// Package classify talks to the remote image-classification service.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quicksortapp/quicksort/internal/common"
	"github.com/quicksortapp/quicksort/internal/model"
)

// Client defines the interface to the remote classifier.
type Client interface {
	// Ping checks the classifier is reachable.
	Ping(ctx context.Context) error
	// Predict classifies the image behind the given URL into a
	// (category, sub-detail) pair.
	Predict(ctx context.Context, imageURL string) (model.Classification, error)
}

// Config holds configuration for the HTTP classifier client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// httpClient implements Client against the classifier's HTTP API.
type httpClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a classifier client for the given base URL.
func NewHTTPClient(cfg Config) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: classifier base URL is required", common.ErrMissingConfig)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &httpClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type predictRequest struct {
	ImageURL string `json:"image_url"`
}

type predictResponse struct {
	Status   string `json:"status"`
	Category string `json:"category"`
	Detail   string `json:"detail"`
}

// Ping checks the classifier's health endpoint.
func (c *httpClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("classifier unhealthy (status %d)", resp.StatusCode)
	}
	return nil
}

// Predict sends the image URL to the classifier and decodes its answer. Any
// transport error, non-2xx response, or non-success payload is a hard
// failure of the analysis attempt.
func (c *httpClient) Predict(ctx context.Context, imageURL string) (model.Classification, error) {
	jsonBody, err := json.Marshal(predictRequest{ImageURL: imageURL})
	if err != nil {
		return model.Classification{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", strings.NewReader(string(jsonBody)))
	if err != nil {
		return model.Classification{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return model.Classification{}, fmt.Errorf("%w: %v", common.ErrClassificationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Classification{}, fmt.Errorf("%w: failed to read response: %v", common.ErrClassificationFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return model.Classification{}, fmt.Errorf("%w: classifier error (status %d): %s", common.ErrClassificationFailed, resp.StatusCode, string(body))
	}

	var response predictResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return model.Classification{}, fmt.Errorf("%w: failed to parse response: %v", common.ErrClassificationFailed, err)
	}

	// The classifier reports a blank status on success.
	if status := strings.TrimSpace(response.Status); status != "" && status != "ok" {
		return model.Classification{}, fmt.Errorf("%w: classifier status %q", common.ErrClassificationFailed, response.Status)
	}
	if response.Category == "" {
		return model.Classification{}, fmt.Errorf("%w: no category in response", common.ErrClassificationFailed)
	}

	return model.Classification{
		Category:  response.Category,
		SubDetail: response.Detail,
		Status:    response.Status,
	}, nil
}
