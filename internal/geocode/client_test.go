package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfoliobim_backend/platform/logger"
)

type clientTestConfig struct {
	endpoint string
}

func (c clientTestConfig) GetGeocodeEndpoint() string        { return c.endpoint }
func (c clientTestConfig) GetGeocodeUserAgent() string       { return "test-agent" }
func (c clientTestConfig) GetGeocodeInterval() time.Duration { return time.Millisecond }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(clientTestConfig{endpoint: srv.URL}, logger.New("development")), srv
}

func TestClient_LookupFirstCandidate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "Dresden" {
			t.Fatalf("unexpected query %q", q)
		}
		if r.URL.Query().Get("format") != "json" || r.URL.Query().Get("limit") != "1" {
			t.Fatalf("missing format/limit params: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name":"Dresden","lat":"51.0493","lon":"13.7381"}]`))
	})

	coord, ok, err := client.Lookup(context.Background(), "Dresden")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a resolved coordinate")
	}
	if coord.Lat != 51.0493 || coord.Lon != 13.7381 {
		t.Fatalf("unexpected coordinate: %+v", coord)
	}
}

func TestClient_EmptyResponseMeansUnresolvable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, ok, err := client.Lookup(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("empty result must not be an error, got %v", err)
	}
	if ok {
		t.Fatal("expected unresolvable")
	}
}

func TestClient_MalformedCoordinateMeansUnresolvable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"not-a-float","lon":"13.7"}]`))
	})

	_, ok, err := client.Lookup(context.Background(), "Dresden")
	if err != nil {
		t.Fatalf("malformed candidate must not be an error, got %v", err)
	}
	if ok {
		t.Fatal("expected malformed candidate to be rejected")
	}
}

func TestClient_OutOfRangeCoordinateRejected(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"120.5","lon":"13.7"}]`))
	})

	_, ok, err := client.Lookup(context.Background(), "Dresden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected out-of-range latitude to be rejected")
	}
}

func TestClient_UpstreamStatusIsError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, _, err := client.Lookup(context.Background(), "Dresden")
	if err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
