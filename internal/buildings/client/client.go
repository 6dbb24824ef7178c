// Package client provides the HTTP client for the upstream portfolio source.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"portfoliobim_backend/internal/buildings/transport"
	"portfoliobim_backend/platform/logger"
)

// Client is the HTTP client for the portfolio backend serving building
// records, city lists and the attribute sync sink.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// New creates a new portfolio source client.
func New(baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		log:        log,
	}
}

// FetchBuildings retrieves the full raw building set. No pagination: the
// source returns everything in one call.
func (c *Client) FetchBuildings(ctx context.Context) ([]transport.RawBuilding, error) {
	reqURL := c.baseURL + "/api/buildings"

	var records []transport.RawBuilding
	if err := c.getJSON(ctx, reqURL, &records); err != nil {
		c.log.UpstreamError("portfolio-source", "fetch buildings", err)
		return nil, fmt.Errorf("fetch buildings: %w", err)
	}
	return records, nil
}

// FetchCityNames retrieves the plain place-name list.
func (c *Client) FetchCityNames(ctx context.Context) ([]string, error) {
	reqURL := c.baseURL + "/api/buildings/cities"

	var names []string
	if err := c.getJSON(ctx, reqURL, &names); err != nil {
		c.log.UpstreamError("portfolio-source", "fetch cities", err)
		return nil, fmt.Errorf("fetch cities: %w", err)
	}
	return names, nil
}

// PushAttributes sends a user-submitted attribute overlay to the remote
// store. A non-2xx response is an error; the caller decides how to degrade.
func (c *Client) PushAttributes(ctx context.Context, buildingID string, attributes map[string]any) error {
	reqURL := fmt.Sprintf("%s/api/buildings/%s/attributes", c.baseURL, url.PathEscape(buildingID))

	body, err := json.Marshal(map[string]any{"attributes": attributes})
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError("portfolio-source", "push attributes", err)
		return fmt.Errorf("push attributes: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("attribute sync rejected", "status", resp.StatusCode, "buildingId", buildingID)
		return fmt.Errorf("attribute sync: status %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
