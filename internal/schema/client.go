package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"portfoliobim_backend/platform/logger"
)

// Client fetches class properties from the schema source and per-property
// access rights from the portfolio backend.
type Client struct {
	httpClient   *http.Client
	schemaURL    string
	portfolioURL string
	log          *logger.Logger
}

// NewClient creates a schema client. schemaURL is the datacat-style API
// base; portfolioURL hosts the access-rights endpoint.
func NewClient(schemaURL, portfolioURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		schemaURL:    schemaURL,
		portfolioURL: portfolioURL,
		log:          log,
	}
}

// FetchClassProperties retrieves the property descriptors for a class URI.
func (c *Client) FetchClassProperties(ctx context.Context, classURI string) ([]classProperty, error) {
	reqURL := fmt.Sprintf("%s/api/Class/Properties/v1?ClassUri=%s", c.schemaURL, url.QueryEscape(classURI))

	var payload classPropertiesResponse
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		c.log.UpstreamError("schema-source", "fetch class properties", err)
		return nil, err
	}
	return payload.ClassProperties, nil
}

// FetchAccessRights retrieves per-property rights for a class URI.
func (c *Client) FetchAccessRights(ctx context.Context, classURI string) ([]accessRight, error) {
	reqURL := fmt.Sprintf("%s/api/buildings/access-rights/class?classUri=%s", c.portfolioURL, url.QueryEscape(classURI))

	var rights []accessRight
	if err := c.getJSON(ctx, reqURL, &rights); err != nil {
		c.log.UpstreamError("portfolio-source", "fetch access rights", err)
		return nil, err
	}
	return rights, nil
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
