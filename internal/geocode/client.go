package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"portfoliobim_backend/platform/config"
	"portfoliobim_backend/platform/logger"
)

// Client queries the external geocoding oracle. The oracle is treated as a
// best-effort black box: an empty result set means "unresolvable", not an
// error.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
	log        *logger.Logger
}

// NewClient creates an oracle client from configuration.
func NewClient(cfg config.GeocodeConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   cfg.GetGeocodeEndpoint(),
		userAgent:  cfg.GetGeocodeUserAgent(),
		log:        log,
	}
}

// Lookup resolves a single place name. The second return value reports
// whether the oracle produced a usable candidate; false without an error
// means the name is unresolvable (empty or malformed response).
func (c *Client) Lookup(ctx context.Context, name string) (Coordinate, bool, error) {
	params := url.Values{}
	params.Add("q", name)
	params.Add("format", "json")
	params.Add("limit", "1")

	reqURL := fmt.Sprintf("%s?%s", c.endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Coordinate{}, false, err
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError("geocode-oracle", "lookup", err)
		return Coordinate{}, false, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("geocode oracle upstream error", "status", resp.StatusCode)
		return Coordinate{}, false, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var results []oracleResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		c.log.Error("failed to decode oracle payload", "error", err)
		return Coordinate{}, false, err
	}

	if len(results) == 0 {
		return Coordinate{}, false, nil
	}

	coord, ok := parseCoordinate(results[0].Lat, results[0].Lon)
	if !ok {
		c.log.Warn("oracle returned malformed coordinate", "place", name,
			"lat", results[0].Lat, "lon", results[0].Lon)
		return Coordinate{}, false, nil
	}

	return coord, true, nil
}

// parseCoordinate parses the oracle's string lat/lon pair and rejects
// non-finite or out-of-range values.
func parseCoordinate(rawLat, rawLon string) (Coordinate, bool) {
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return Coordinate{}, false
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Coordinate{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Coordinate{}, false
	}
	return Coordinate{Lat: lat, Lon: lon}, true
}
