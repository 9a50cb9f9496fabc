package relay

import (
	"fmt"
	"strings"
)

// Band identifies the relay radio a network belongs to
type Band int

const (
	// Band24GHz is the 2.4 GHz radio
	Band24GHz Band = iota
	// Band5GHz is the 5 GHz radio
	Band5GHz
)

// String returns the band label used in displays ("2.4GHz" / "5GHz")
func (b Band) String() string {
	switch b {
	case Band24GHz:
		return "2.4GHz"
	case Band5GHz:
		return "5GHz"
	default:
		return fmt.Sprintf("Band(%d)", b)
	}
}

// Is5GHz reports whether b is the 5 GHz radio
func (b Band) Is5GHz() bool {
	return b == Band5GHz
}

// MarshalText implements encoding.TextMarshaler
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Band) UnmarshalText(text []byte) error {
	parsed, err := ParseBand(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBand parses "2.4", "2.4ghz", "24g", "5", "5ghz", "5g" (case-insensitive)
func ParseBand(s string) (Band, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2.4", "2.4ghz", "2.4 ghz", "24g", "2g", "2.4g":
		return Band24GHz, nil
	case "5", "5ghz", "5 ghz", "5g":
		return Band5GHz, nil
	default:
		return Band24GHz, NewValidationError(fmt.Sprintf("unknown band %q (use 2.4 or 5)", s))
	}
}

// Network is one advertisement reported by a relay scan
type Network struct {
	SSID           string `json:"ssid"`
	MAC            string `json:"mac"`
	Channel        int    `json:"channel"`
	SignalStrength int    `json:"signal_strength"` // dBm, typically -100..0
	SecurityMode   string `json:"security_mode"`
	Band           Band   `json:"band"`
}

// DisplayName returns "<ssid> (<band>)"
func (n Network) DisplayName() string {
	return fmt.Sprintf("%s (%s)", n.SSID, n.Band)
}

// SignalBars converts the signal strength to 0-4 bars
func (n Network) SignalBars() int {
	switch s := n.SignalStrength; {
	case s >= -30 && s <= 0:
		return 4
	case s >= -50 && s <= -31:
		return 3
	case s >= -70 && s <= -51:
		return 2
	case s >= -90 && s <= -71:
		return 1
	default:
		return 0
	}
}

// IsOpen reports whether the network advertises no security
func (n Network) IsOpen() bool {
	switch strings.ToLower(strings.TrimSpace(n.SecurityMode)) {
	case "", "open", "none":
		return true
	default:
		return false
	}
}

// ScanSource tells which parsing strategy produced a scan result
type ScanSource int

const (
	// SourceJSON means the list came from a structured JSON document
	SourceJSON ScanSource = iota
	// SourceText means the list came from comma-delimited text records
	SourceText
	// SourcePlaceholder means nothing parseable came back and the fixed
	// placeholder set was returned instead
	SourcePlaceholder
)

// String returns the source name
func (s ScanSource) String() string {
	switch s {
	case SourceJSON:
		return "json"
	case SourceText:
		return "text"
	case SourcePlaceholder:
		return "placeholder"
	default:
		return fmt.Sprintf("ScanSource(%d)", s)
	}
}

// ScanResult is the normalized output of a scan: at most one entry per SSID,
// strongest signal first.
type ScanResult struct {
	Networks []Network `json:"networks"`
	Source   ScanSource `json:"-"`
}

// IsPlaceholder reports whether the result is the fixed placeholder set
// rather than data reported by the device.
func (r *ScanResult) IsPlaceholder() bool {
	return r.Source == SourcePlaceholder
}

// Find returns the network with the given SSID
func (r *ScanResult) Find(ssid string) (Network, bool) {
	for _, n := range r.Networks {
		if n.SSID == ssid {
			return n, true
		}
	}
	return Network{}, false
}

// SelectionRequest is the operator's chosen uplink network
type SelectionRequest struct {
	SSID     string
	Password string
	MAC      string
	Band     Band
}

// String omits the password
func (s SelectionRequest) String() string {
	return fmt.Sprintf("%s [%s] on %s", s.SSID, s.MAC, s.Band)
}

// placeholderNetworks is returned when a scan body cannot be parsed
var placeholderNetworks = []Network{
	{SSID: "HomeNetwork", MAC: "aa:bb:cc:dd:ee:ff", Channel: 6, SignalStrength: -45, SecurityMode: "WPA2", Band: Band24GHz},
	{SSID: "HomeNetwork_5G", MAC: "aa:bb:cc:dd:ee:f0", Channel: 157, SignalStrength: -55, SecurityMode: "WPA2", Band: Band5GHz},
	{SSID: "OfficeWiFi", MAC: "11:22:33:44:55:66", Channel: 11, SignalStrength: -65, SecurityMode: "WPA2", Band: Band24GHz},
	{SSID: "GuestNetwork", MAC: "99:88:77:66:55:44", Channel: 1, SignalStrength: -80, SecurityMode: "Open", Band: Band24GHz},
}

// PlaceholderNetworks returns a copy of the fixed placeholder set
func PlaceholderNetworks() []Network {
	out := make([]Network, len(placeholderNetworks))
	copy(out, placeholderNetworks)
	return out
}
