package relay

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// MaxSSIDLength is the 802.11 SSID limit in bytes
const MaxSSIDLength = 32

// ValidateSSID validates a network SSID.
// SSIDs must be non-empty and at most 32 bytes.
func ValidateSSID(ssid string) error {
	if ssid == "" {
		return NewValidationError("SSID cannot be empty")
	}
	if len(ssid) > MaxSSIDLength {
		return NewValidationError(fmt.Sprintf("SSID too long (max %d bytes): %d bytes", MaxSSIDLength, len(ssid)))
	}
	return nil
}

// ValidateMAC validates the target access point MAC address.
// An empty MAC is an error; an unusual format is only a warning because
// firmware variants report BSSIDs in different notations.
func ValidateMAC(mac string) error {
	if strings.TrimSpace(mac) == "" {
		return NewValidationError("MAC address cannot be empty")
	}
	if _, err := net.ParseMAC(mac); err != nil {
		return NewValidationError(fmt.Sprintf("warning: MAC address %q is not in a recognised format", mac))
	}
	return nil
}

// ValidateNetworkPassword validates a WPA2 passphrase: 8-63 characters, or
// empty for an open network.
func ValidateNetworkPassword(password string) error {
	if password == "" {
		return nil
	}
	if len(password) < 8 {
		return NewValidationError(fmt.Sprintf("warning: WPA2 password shorter than 8 characters: %d chars", len(password)))
	}
	if len(password) > 63 {
		return NewValidationError(fmt.Sprintf("warning: WPA2 password longer than 63 characters: %d chars", len(password)))
	}
	return nil
}

// ValidateSelection validates a selection request.
// Returns a slice of validation errors (empty if valid).
func ValidateSelection(req SelectionRequest) []error {
	var errs []error

	if err := ValidateSSID(req.SSID); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateMAC(req.MAC); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateNetworkPassword(req.Password); err != nil {
		errs = append(errs, err)
	}
	if req.Band != Band24GHz && req.Band != Band5GHz {
		errs = append(errs, NewValidationError(fmt.Sprintf("unknown band %d", req.Band)))
	}

	return errs
}

// ValidateBaseURL checks that raw is an absolute http or https URL
func ValidateBaseURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, NewConfigurationError("relay base URL is empty", nil)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, NewConfigurationError(fmt.Sprintf("malformed relay base URL %q", raw), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, NewConfigurationError(fmt.Sprintf("relay base URL %q must use http or https", raw), nil)
	}
	if u.Host == "" {
		return nil, NewConfigurationError(fmt.Sprintf("relay base URL %q has no host", raw), nil)
	}
	return u, nil
}

// FormatValidationErrors formats validation errors into a user-friendly message.
func FormatValidationErrors(errs []error) string {
	if len(errs) == 0 {
		return "No validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Selection validation failed with %d error(s):\n", len(errs)))

	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}

	return sb.String()
}

// IsWarning checks if a validation error is a warning (non-fatal).
// Warnings have messages starting with "warning:".
func IsWarning(err error) bool {
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return strings.HasPrefix(relayErr.Message, "warning:")
	}
	return strings.Contains(err.Error(), "warning:")
}

// SeparateWarningsAndErrors splits validation results into warnings and
// errors that block the request.
func SeparateWarningsAndErrors(errs []error) (warnings []error, critical []error) {
	for _, err := range errs {
		if IsWarning(err) {
			warnings = append(warnings, err)
		} else {
			critical = append(critical, err)
		}
	}
	return warnings, critical
}
