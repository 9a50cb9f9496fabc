package relay

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field defaults applied when a scan entry omits or garbles a value.
const (
	DefaultChannel      = 1
	DefaultSignal       = -70
	DefaultSecurityMode = "WPA2"
	DefaultFrequency    = "2.4GHz"

	textChannel24 = 6
	textChannel5  = 157
)

// Keys under which firmware variants publish the scan list, in priority order.
var scanListKeys = []string{"wifiList", "wifiScan"}

// Field aliases per normalized field, in priority order.
var (
	ssidAliases      = []string{"wifiScanSSID", "ssid"}
	macAliases       = []string{"wifiScanMAC", "mac", "bssid"}
	channelAliases   = []string{"wifiScanChannel", "channel"}
	signalAliases    = []string{"wifiScanSignalStrength", "signal", "rssi"}
	securityAliases  = []string{"wifiScanSecurityMode", "security", "enc"}
	frequencyAliases = []string{"wifiScanChkHz", "frequency", "freq"}
)

// parseStrategy turns a raw body into networks. ok is false when the
// strategy does not recognise the body or produced no entries.
type parseStrategy func(body []byte) (networks []Network, ok bool)

// scanStrategies are tried in order; the first to succeed wins.
var scanStrategies = []struct {
	source ScanSource
	parse  parseStrategy
}{
	{SourceJSON, parseJSONList},
	{SourceText, parseDelimitedText},
}

// ParseScanResponse normalizes a raw scan body. It never fails: when no
// strategy recognises the body the placeholder set is returned with
// Source set to SourcePlaceholder.
func ParseScanResponse(body []byte) *ScanResult {
	for _, strategy := range scanStrategies {
		if networks, ok := strategy.parse(body); ok {
			return &ScanResult{Networks: Normalize(networks), Source: strategy.source}
		}
	}
	return &ScanResult{Networks: PlaceholderNetworks(), Source: SourcePlaceholder}
}

// Normalize keeps one entry per SSID (the strongest, earliest on ties) and
// sorts descending by signal strength, stable on ties.
func Normalize(networks []Network) []Network {
	kept := make([]Network, 0, len(networks))
	index := make(map[string]int, len(networks))

	for _, n := range networks {
		i, seen := index[n.SSID]
		if !seen {
			index[n.SSID] = len(kept)
			kept = append(kept, n)
			continue
		}
		if n.SignalStrength > kept[i].SignalStrength {
			kept[i] = n
		}
	}

	SortBySignal(kept)
	return kept
}

// SortBySignal sorts networks strongest first, preserving order on ties
func SortBySignal(networks []Network) {
	slices.SortStableFunc(networks, func(a, b Network) int {
		return cmp.Compare(b.SignalStrength, a.SignalStrength)
	})
}

// decodeDocument decodes body as a JSON object, tolerating trailing garbage
// after the object (some firmware appends HTML fragments).
func decodeDocument(body []byte) (map[string]any, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, false
	}

	var doc map[string]any
	if err := json.Unmarshal(trimmed, &doc); err == nil {
		return doc, true
	}

	if trimmed[0] != '{' {
		return nil, false
	}
	object, err := CleanJSONResponse(trimmed)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal(object, &doc); err != nil {
		return nil, false
	}
	return doc, true
}

// parseJSONList reads the list under the first known key that yields at
// least one network; an empty or unusable list falls through to the next key.
func parseJSONList(body []byte) ([]Network, bool) {
	doc, ok := decodeDocument(body)
	if !ok {
		return nil, false
	}

	for _, key := range scanListKeys {
		entries, isList := doc[key].([]any)
		if !isList {
			continue
		}
		if networks := networksFromEntries(entries); len(networks) > 0 {
			return networks, true
		}
	}
	return nil, false
}

func networksFromEntries(entries []any) []Network {
	networks := make([]Network, 0, len(entries))
	for _, raw := range entries {
		entry, isObject := raw.(map[string]any)
		if !isObject {
			continue
		}
		if n, ok := networkFromFields(fieldSet(entry)); ok {
			networks = append(networks, n)
		}
	}
	return networks
}

func networkFromFields(f fieldSet) (Network, bool) {
	ssid := f.SSID(ssidAliases)
	if ssid == "" {
		return Network{}, false
	}

	band := Band24GHz
	if strings.Contains(f.String(frequencyAliases, DefaultFrequency), "5") {
		band = Band5GHz
	}

	return Network{
		SSID:           ssid,
		MAC:            f.String(macAliases, ""),
		Channel:        f.Int(channelAliases, DefaultChannel),
		SignalStrength: f.Signal(signalAliases, DefaultSignal),
		SecurityMode:   f.String(securityAliases, DefaultSecurityMode),
		Band:           band,
	}, true
}

// parseDelimitedText reads newline-separated "ssid,mac,signal,security"
// records. Bodies that decode as JSON are left to the JSON strategy.
func parseDelimitedText(body []byte) ([]Network, bool) {
	if !utf8.Valid(body) {
		return nil, false
	}
	if _, isJSON := decodeDocument(body); isJSON || json.Valid(body) {
		return nil, false
	}

	var networks []Network
	for _, line := range strings.Split(string(body), "\n") {
		fields := strings.Split(line, ",")
		if len(fields) < 4 {
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		ssid := fields[0]
		if ssid == "" {
			continue
		}

		band, channel := Band24GHz, textChannel24
		if strings.Contains(ssid, "5G") {
			band, channel = Band5GHz, textChannel5
		}

		networks = append(networks, Network{
			SSID:           ssid,
			MAC:            fields[1],
			Channel:        channel,
			SignalStrength: parseSignal(fields[2], DefaultSignal),
			SecurityMode:   fields[3],
			Band:           band,
		})
	}

	return networks, len(networks) > 0
}

// fieldSet resolves a normalized field from the first alias carrying a
// usable value, falling back to a declared default.
type fieldSet map[string]any

// String returns the first non-empty string (or number rendered as text)
func (f fieldSet) String(aliases []string, def string) string {
	for _, alias := range aliases {
		switch v := f[alias].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return def
}

// SSID returns the first string that is not blank, exactly as sent.
// Surrounding spaces are part of the network name.
func (f fieldSet) SSID(aliases []string) string {
	for _, alias := range aliases {
		switch v := f[alias].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// Int returns the first alias that parses as an integer
func (f fieldSet) Int(aliases []string, def int) int {
	for _, alias := range aliases {
		switch v := f[alias].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return def
}

// Signal is Int with a trailing "%" stripped from string values
func (f fieldSet) Signal(aliases []string, def int) int {
	for _, alias := range aliases {
		switch v := f[alias].(type) {
		case float64:
			return int(v)
		case string:
			if n, ok := parseSignalValue(v); ok {
				return n
			}
		}
	}
	return def
}

func parseSignal(s string, def int) int {
	if n, ok := parseSignalValue(s); ok {
		return n
	}
	return def
}

func parseSignalValue(s string) (int, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// CleanJSONResponse extracts the leading JSON object from a response that
// carries trailing non-JSON data, e.g.
//
//	{"wifiScan":[...]}<script>...</script>
//
// It finds the end of the first object by tracking brace depth outside strings.
func CleanJSONResponse(data []byte) ([]byte, error) {
	start := bytes.IndexByte(data, '{')
	if start == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(data); i++ {
		b := data[i]

		if escaped {
			escaped = false
			continue
		}
		if b == '\\' {
			escaped = true
			continue
		}
		if b == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if b == '{' {
				depth++
			} else if b == '}' {
				depth--
				if depth == 0 {
					return data[start : i+1], nil
				}
			}
		}
	}

	return nil, fmt.Errorf("unclosed JSON object in response")
}
