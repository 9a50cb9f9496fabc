package discovery

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/relaylink/internal/logging"
	"github.com/muurk/relaylink/internal/relay"
)

// DefaultProbeTimeout bounds a reachability probe
const DefaultProbeTimeout = 5 * time.Second

// ProbeResult describes a reachable relay web interface
type ProbeResult struct {
	BaseURL    string
	StatusCode int
	Server     string
	Latency    time.Duration
}

// Probe checks that something answers HTTP at baseURL. Any HTTP response
// counts as reachable, whatever its status; only transport failures are
// errors, classified as relay transport errors.
func Probe(ctx context.Context, httpClient *http.Client, baseURL string) (*ProbeResult, error) {
	u, err := relay.ValidateBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = relay.NewHTTPClient(relay.TransportOptions{
			Timeout:     DefaultProbeTimeout,
			DialTimeout: DefaultProbeTimeout,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, relay.NewConfigurationError("cannot build probe request", err)
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, relay.ClassifyTransportError(err, u.String())
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	result := &ProbeResult{
		BaseURL:    baseURL,
		StatusCode: resp.StatusCode,
		Server:     resp.Header.Get("Server"),
		Latency:    time.Since(start),
	}

	logging.Debug("Relay probe",
		zap.String("url", u.String()),
		zap.Int("status", result.StatusCode),
		zap.Duration("latency", result.Latency))

	return result, nil
}
