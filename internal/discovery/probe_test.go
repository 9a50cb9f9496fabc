package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/muurk/relaylink/internal/relay"
)

func TestProbe_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "GoAhead-Webs")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	result, err := Probe(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if result.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401 (any response is reachable)", result.StatusCode)
	}
	if result.Server != "GoAhead-Webs" {
		t.Errorf("Server = %q, want GoAhead-Webs", result.Server)
	}
	if result.BaseURL != srv.URL {
		t.Errorf("BaseURL = %q, want %q", result.BaseURL, srv.URL)
	}
}

func TestProbe_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := Probe(context.Background(), nil, url)
	if !relay.IsTransportError(err) {
		t.Errorf("Probe() error = %v, want transport error", err)
	}
}

func TestProbe_InvalidURL(t *testing.T) {
	_, err := Probe(context.Background(), nil, "10.0.0.213")
	if !relay.IsConfigurationError(err) {
		t.Errorf("Probe() error = %v, want configuration error", err)
	}
}
