// Package relay provides an HTTP client for a consumer Wi-Fi relay's local
// management API.
//
// The relay (a Tenda-style range extender) is configured through an
// undocumented web API: a hashed-password login that returns a session
// cookie, a scan endpoint whose output format depends on the firmware, and
// a dual-band form POST that switches the relay's uplink network.
//
// # Usage Example
//
//	client := relay.NewClient(relay.DefaultBaseURL)
//	defer client.Close()
//
//	if err := client.Login(ctx, relay.DefaultUsername, secret); err != nil {
//	    log.Fatal(relay.ShortErrorMessage(err))
//	}
//
//	result, err := client.ScanNetworks(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result.IsPlaceholder() {
//	    log.Println("relay returned no usable scan data")
//	}
//
//	best := result.Networks[0]
//	err = client.SelectNetworkFor(ctx, best, "network-password")
//
// # Sessions
//
// Each Client owns a Session. ScanNetworks and SelectNetwork fail with
// ErrTypeNotAuthenticated until Login succeeds, without touching the
// network. Login sends the MD5 hex digest of the password. A 200 response
// carrying Set-Cookie headers authenticates; a 200 response without cookies
// authenticates only if the body is empty or contains one of a few landing
// page markers, which is a firmware-specific heuristic.
//
// Requests are never retried automatically. RelayError.Retryable is advisory
// for callers that want their own retry policy.
//
// # Scan Parsing
//
// ParseScanResponse tries, in order:
//
//  1. a JSON object with a list under "wifiList" or "wifiScan"
//  2. newline-separated "ssid,mac,signal,security" records
//  3. a fixed placeholder list, marked with SourcePlaceholder
//
// Results hold at most one entry per SSID (the strongest) and are sorted
// strongest first.
//
// # Network Selection
//
// The selection form always carries both a 2.4 GHz and a 5 GHz parameter
// group. Only the chosen band's group gets the SSID and password; both get
// the MAC. The security mode is always sent as WPA2/AES.
package relay
