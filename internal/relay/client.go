package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/relaylink/internal/logging"
)

const (
	// DefaultUsername is the relay's administrator account name
	DefaultUsername = "admin"

	// DefaultBaseURL is the relay's factory management address
	DefaultBaseURL = "http://10.0.0.213"

	// LoginPath authenticates and sets the session cookie
	LoginPath = "/login/Auth"

	// ScanPath returns the list of networks the relay can see
	ScanPath = "/goform/getwifiRelayAgain?modules=wifiScan"

	// SelectPath reconfigures the relay's uplink
	SelectPath = "/goform/setwifiRelayAgain"

	acceptHeader = "application/json, text/plain, */*"
	formMIME     = "application/x-www-form-urlencoded"
)

// cookielessLoginMarkers are body fragments that some firmware returns on a
// successful login that sets no cookie. This heuristic is firmware-specific
// and loose: matching is a plain substring test, so "ok" also accepts any
// body containing words such as "token", "book" or "lookup".
var cookielessLoginMarkers = []string{"Tenda Wi-Fi", "index.html", "success", "ok"}

// CredentialSource releases the relay device secret, typically after an
// operator authentication step.
type CredentialSource interface {
	RelaySecret(ctx context.Context) (string, error)
}

// Client talks to one relay device's management API. A Client owns its
// Session; use one Client per configuration workflow and do not share it
// between concurrent operations.
type Client struct {
	// BaseURL is the relay's management address (e.g., "http://10.0.0.213")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	session Session
}

// NewClient creates a client for the relay at baseURL using the default
// session transport.
func NewClient(baseURL string) *Client {
	return NewClientWithOptions(baseURL, DefaultTransportOptions())
}

// NewClientWithOptions creates a client with custom transport options
func NewClientWithOptions(baseURL string, opts TransportOptions) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: NewHTTPClient(opts),
	}
}

// NewClientWithHTTPClient creates a client around an existing HTTP client
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
	}
}

// Session returns the client's session state
func (c *Client) Session() *Session {
	return &c.session
}

// IsAuthenticated reports whether Login has succeeded
func (c *Client) IsAuthenticated() bool {
	return c.session.Authenticated()
}

// Login authenticates against the relay. The password is sent as its MD5
// digest. Any earlier session is dropped first, and on failure neither the
// session nor the transport's cookie jar keeps anything from the attempt.
func (c *Client) Login(ctx context.Context, username, password string) error {
	c.Logout()

	endpoint, err := c.endpoint(LoginPath)
	if err != nil {
		return err
	}

	form := loginForm(username, Digest(password))
	resp, body, err := c.do(ctx, http.MethodPost, endpoint, form)
	if err != nil {
		c.Logout()
		return err
	}

	if resp.StatusCode != http.StatusOK {
		c.Logout()
		logging.Warn("Relay login rejected",
			zap.String("url", endpoint),
			zap.Int("status_code", resp.StatusCode))
		return NewAuthError(resp.StatusCode, fmt.Sprintf("login returned HTTP %d", resp.StatusCode))
	}

	if cookies := resp.Cookies(); len(cookies) > 0 {
		c.session.establish(cookies)
		logging.Info("Relay login succeeded",
			zap.String("url", endpoint),
			zap.Int("cookies_captured", len(cookies)))
		return nil
	}

	if cookielessLoginAccepted(body) {
		c.session.establish(nil)
		logging.Warn("Relay login accepted without a session cookie; success inferred from response body",
			zap.String("url", endpoint),
			zap.Int("body_length", len(body)))
		return nil
	}

	c.Logout()
	logging.Warn("Relay login response not recognised",
		zap.String("url", endpoint),
		zap.Int("body_length", len(body)))
	return NewAuthError(resp.StatusCode, "login response carried no session cookie and no known success marker")
}

// LoginWithCredentials fetches the relay secret from source and logs in.
// A missing or empty secret yields ErrTypeCredentialUnavailable.
func (c *Client) LoginWithCredentials(ctx context.Context, username string, source CredentialSource) error {
	if source == nil {
		c.Logout()
		return NewCredentialError("no credential source configured", nil)
	}

	secret, err := source.RelaySecret(ctx)
	if err != nil {
		c.Logout()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return NewTransportError("credential lookup interrupted", "", err)
		}
		return NewCredentialError("relay password is not available", err)
	}
	if secret == "" {
		c.Logout()
		return NewCredentialError("relay password is empty", nil)
	}

	return c.Login(ctx, username, secret)
}

// ScanNetworks asks the relay for visible networks. It fails with
// ErrTypeNotAuthenticated, without sending anything, before a login.
// Unparseable bodies do not fail; see ParseScanResponse.
func (c *Client) ScanNetworks(ctx context.Context) (*ScanResult, error) {
	if !c.session.Authenticated() {
		return nil, NewNotAuthenticatedError("scan")
	}

	endpoint, err := c.endpoint(ScanPath)
	if err != nil {
		return nil, err
	}

	resp, body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if !isSuccess(resp.StatusCode) {
		return nil, NewScanError(resp.StatusCode, fmt.Sprintf("scan returned HTTP %d", resp.StatusCode))
	}

	logging.LogRawBytes("Relay scan body", body)

	result := ParseScanResponse(body)
	if result.IsPlaceholder() {
		logging.Warn("Relay scan response not parseable; returning placeholder networks",
			zap.String("url", endpoint),
			zap.Int("body_length", len(body)))
	} else {
		logging.Info("Relay scan complete",
			zap.String("source", result.Source.String()),
			zap.Int("networks", len(result.Networks)))
	}

	return result, nil
}

// SelectNetwork points the relay's uplink at the given network.
func (c *Client) SelectNetwork(ctx context.Context, ssid, password, mac string, band Band) error {
	return c.Select(ctx, SelectionRequest{SSID: ssid, Password: password, MAC: mac, Band: band})
}

// SelectNetwork24GHz selects a network on the 2.4 GHz radio
func (c *Client) SelectNetwork24GHz(ctx context.Context, ssid, password, mac string) error {
	return c.SelectNetwork(ctx, ssid, password, mac, Band24GHz)
}

// SelectNetwork5GHz selects a network on the 5 GHz radio
func (c *Client) SelectNetwork5GHz(ctx context.Context, ssid, password, mac string) error {
	return c.SelectNetwork(ctx, ssid, password, mac, Band5GHz)
}

// SelectNetworkFor selects a scanned network
func (c *Client) SelectNetworkFor(ctx context.Context, network Network, password string) error {
	return c.SelectNetwork(ctx, network.SSID, password, network.MAC, network.Band)
}

// Select sends a selection request. Blocking validation errors are
// returned before anything is sent; the response body is not inspected.
func (c *Client) Select(ctx context.Context, req SelectionRequest) error {
	if !c.session.Authenticated() {
		return NewNotAuthenticatedError("network selection")
	}

	warnings, critical := SeparateWarningsAndErrors(ValidateSelection(req))
	if len(critical) > 0 {
		return critical[0]
	}
	for _, w := range warnings {
		logging.Warn("Selection request warning", zap.Error(w))
	}

	endpoint, err := c.endpoint(SelectPath)
	if err != nil {
		return err
	}

	resp, _, err := c.do(ctx, http.MethodPost, endpoint, req.ToForm())
	if err != nil {
		return err
	}

	if !isSuccess(resp.StatusCode) {
		return NewSelectionError(resp.StatusCode, fmt.Sprintf("selection returned HTTP %d", resp.StatusCode))
	}

	logging.Info("Relay uplink selected",
		zap.String("ssid", req.SSID),
		zap.String("mac", req.MAC),
		zap.String("band", req.Band.String()))
	return nil
}

// Logout drops the session and any cookies held by the transport
func (c *Client) Logout() {
	c.session.clear()
	if c.HTTPClient != nil && c.HTTPClient.Jar != nil {
		c.HTTPClient.Jar = newCookieJar()
	}
}

// Close logs out and releases idle connections
func (c *Client) Close() error {
	c.Logout()
	if c.HTTPClient != nil {
		c.HTTPClient.CloseIdleConnections()
	}
	return nil
}

// endpoint joins path onto the validated base URL
func (c *Client) endpoint(path string) (string, error) {
	base, err := ValidateBaseURL(c.BaseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", NewConfigurationError(fmt.Sprintf("malformed path %q", path), err)
	}
	base.Path = strings.TrimSuffix(base.Path, "/")
	return base.String() + ref.String(), nil
}

// do sends one request and reads the whole body. form is nil for GETs.
func (c *Client) do(ctx context.Context, method, endpoint string, form Form) (*http.Response, []byte, error) {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, nil, NewConfigurationError(fmt.Sprintf("failed to create %s request", method), err)
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if form != nil {
		req.Header.Set("Content-Type", formMIME)
	}
	c.attachSessionCookies(req)

	var logForm url.Values
	if form != nil {
		logForm = form.Values()
	}
	logging.LogHTTPRequest(method, endpoint, logForm)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTransportOptions())
		c.HTTPClient = httpClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, NewTransportError(method+" "+endpoint+" failed", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, NewTransportError("failed to read response body", endpoint, err)
	}

	names := make([]string, 0, len(resp.Cookies()))
	for _, ck := range resp.Cookies() {
		names = append(names, ck.Name)
	}
	logging.LogHTTPResponse(method, endpoint, resp.StatusCode, names)

	return resp, body, nil
}

// attachSessionCookies sets an explicit Cookie header with the session's
// cookies, leaving out any the jar will add itself.
func (c *Client) attachSessionCookies(req *http.Request) {
	if !c.session.Authenticated() {
		return
	}

	inJar := map[string]bool{}
	if c.HTTPClient != nil && c.HTTPClient.Jar != nil {
		for _, ck := range c.HTTPClient.Jar.Cookies(req.URL) {
			inJar[ck.Name] = true
		}
	}

	if header := c.session.CookieHeader(inJar); header != "" {
		req.Header.Set("Cookie", header)
	}
}

func cookielessLoginAccepted(body []byte) bool {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return true
	}
	for _, marker := range cookielessLoginMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
