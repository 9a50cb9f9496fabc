package relay

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeInvalidConfiguration indicates a malformed base URL or endpoint
	ErrTypeInvalidConfiguration ErrorType = iota
	// ErrTypeTransport indicates a connectivity, TLS or timeout failure
	ErrTypeTransport
	// ErrTypeCredentialUnavailable indicates no relay secret could be obtained
	ErrTypeCredentialUnavailable
	// ErrTypeAuthenticationFailed indicates the device rejected the login
	ErrTypeAuthenticationFailed
	// ErrTypeNotAuthenticated indicates scan/select was attempted before login
	ErrTypeNotAuthenticated
	// ErrTypeScanFailed indicates a non-2xx response to the scan request
	ErrTypeScanFailed
	// ErrTypeNetworkSelectionFailed indicates a non-2xx response to the select request
	ErrTypeNetworkSelectionFailed
	// ErrTypeValidation indicates an invalid selection request
	ErrTypeValidation
)

// NetworkErrorSubtype provides more specific transport error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
	NetworkErrorTLS
	NetworkErrorCanceled
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeInvalidConfiguration:
		return "Invalid Configuration"
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeCredentialUnavailable:
		return "Credential Unavailable"
	case ErrTypeAuthenticationFailed:
		return "Authentication Failed"
	case ErrTypeNotAuthenticated:
		return "Not Authenticated"
	case ErrTypeScanFailed:
		return "Scan Failed"
	case ErrTypeNetworkSelectionFailed:
		return "Network Selection Failed"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// RelayError represents an error that occurred while talking to the relay device
type RelayError struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific transport error type
	Endpoint       string              // Request URL (for context)
	Retryable      bool                // Whether a caller-level retry may help
}

// Sentinels for errors.Is comparisons. Matching is by Type only.
var (
	ErrInvalidConfiguration   = &RelayError{Type: ErrTypeInvalidConfiguration}
	ErrTransport              = &RelayError{Type: ErrTypeTransport}
	ErrCredentialUnavailable  = &RelayError{Type: ErrTypeCredentialUnavailable}
	ErrAuthenticationFailed   = &RelayError{Type: ErrTypeAuthenticationFailed}
	ErrNotAuthenticated       = &RelayError{Type: ErrTypeNotAuthenticated}
	ErrScanFailed             = &RelayError{Type: ErrTypeScanFailed}
	ErrNetworkSelectionFailed = &RelayError{Type: ErrTypeNetworkSelectionFailed}
	ErrValidation             = &RelayError{Type: ErrTypeValidation}
)

// Error implements the error interface
func (e *RelayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	if e.Message == "" {
		return e.Type.String()
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *RelayError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a RelayError of the same Type
func (e *RelayError) Is(target error) bool {
	t, ok := target.(*RelayError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// ClassifyTransportError analyzes a transport failure and returns a typed error
func ClassifyTransportError(err error, endpoint string) *RelayError {
	if err == nil {
		return nil
	}

	newErr := func(subtype NetworkErrorSubtype, message string, retryable bool) *RelayError {
		return &RelayError{
			Type:           ErrTypeTransport,
			Message:        message,
			Err:            err,
			NetworkSubtype: subtype,
			Endpoint:       endpoint,
			Retryable:      retryable,
		}
	}

	if errors.Is(err, context.Canceled) {
		return newErr(NetworkErrorCanceled, "Request canceled", false)
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return newErr(NetworkErrorTimeout, "Request timed out", true)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return newErr(NetworkErrorDNS, fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name), false)
	}

	var certErr *tls.CertificateVerificationError
	var unknownAuth x509.UnknownAuthorityError
	var recordErr tls.RecordHeaderError
	if errors.As(err, &certErr) || errors.As(err, &unknownAuth) || errors.As(err, &recordErr) {
		return newErr(NetworkErrorTLS, "TLS handshake failed", false)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return newErr(NetworkErrorConnectionRefused, "Device refused connection", true)
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return newErr(NetworkErrorHostUnreachable, "Host unreachable", true)
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return newErr(NetworkErrorNetworkUnreachable, "Network unreachable", true)
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		classified := ClassifyTransportError(urlErr.Err, endpoint)
		classified.Err = err
		return classified
	}

	return newErr(NetworkErrorGeneral, "Network error occurred", true)
}

// NewTransportError creates a transport error with automatic classification
func NewTransportError(message, endpoint string, err error) *RelayError {
	classified := ClassifyTransportError(err, endpoint)
	if classified == nil {
		return &RelayError{
			Type:      ErrTypeTransport,
			Message:   message,
			Endpoint:  endpoint,
			Retryable: true,
		}
	}
	classified.Message = message + ": " + strings.ToLower(classified.Message)
	return classified
}

// NewConfigurationError creates an invalid configuration error
func NewConfigurationError(message string, err error) *RelayError {
	return &RelayError{
		Type:    ErrTypeInvalidConfiguration,
		Message: message,
		Err:     err,
	}
}

// NewCredentialError creates a credential unavailable error
func NewCredentialError(message string, err error) *RelayError {
	return &RelayError{
		Type:    ErrTypeCredentialUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewAuthError creates an authentication failure
func NewAuthError(statusCode int, message string) *RelayError {
	return &RelayError{
		Type:       ErrTypeAuthenticationFailed,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewNotAuthenticatedError creates an error for operations attempted before login
func NewNotAuthenticatedError(operation string) *RelayError {
	return &RelayError{
		Type:    ErrTypeNotAuthenticated,
		Message: operation + " requires a successful login",
	}
}

// NewScanError creates a scan failure
func NewScanError(statusCode int, message string) *RelayError {
	return &RelayError{
		Type:       ErrTypeScanFailed,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewSelectionError creates a network selection failure
func NewSelectionError(statusCode int, message string) *RelayError {
	return &RelayError{
		Type:       ErrTypeNetworkSelectionFailed,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *RelayError {
	return &RelayError{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

func errorType(err error) (ErrorType, bool) {
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Type, true
	}
	return 0, false
}

func hasType(err error, want ErrorType) bool {
	got, ok := errorType(err)
	return ok && got == want
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	return hasType(err, ErrTypeTransport)
}

// IsConfigurationError checks if an error is an invalid configuration error
func IsConfigurationError(err error) bool {
	return hasType(err, ErrTypeInvalidConfiguration)
}

// IsCredentialUnavailable checks if an error reports a missing relay secret
func IsCredentialUnavailable(err error) bool {
	return hasType(err, ErrTypeCredentialUnavailable)
}

// IsAuthenticationError checks if the device rejected the login
func IsAuthenticationError(err error) bool {
	return hasType(err, ErrTypeAuthenticationFailed)
}

// IsNotAuthenticated checks if an operation was attempted before login
func IsNotAuthenticated(err error) bool {
	return hasType(err, ErrTypeNotAuthenticated)
}

// IsScanError checks if an error is a scan failure
func IsScanError(err error) bool {
	return hasType(err, ErrTypeScanFailed)
}

// IsSelectionError checks if an error is a network selection failure
func IsSelectionError(err error) bool {
	return hasType(err, ErrTypeNetworkSelectionFailed)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return hasType(err, ErrTypeValidation)
}

// IsRetryable reports whether a caller-level retry may succeed.
// The client itself never retries.
func IsRetryable(err error) bool {
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Retryable
	}
	return false
}

// TroubleshootingHint returns operator-facing remediation advice for an error
func TroubleshootingHint(err error) []string {
	var relayErr *RelayError
	if !errors.As(err, &relayErr) {
		return []string{"An unexpected error occurred. Please try again."}
	}

	switch relayErr.Type {
	case ErrTypeInvalidConfiguration:
		return []string{
			"The relay address is not a valid URL",
			"Use the form http://10.0.0.213 or https://<address>",
			"Check the relay.url setting or the --url flag",
		}

	case ErrTypeTransport:
		switch relayErr.NetworkSubtype {
		case NetworkErrorTimeout:
			return []string{
				"The relay did not respond in time",
				"Check that the relay is powered on",
				"Move closer to the relay or connect by cable",
			}
		case NetworkErrorConnectionRefused:
			return []string{
				"The relay refused the connection",
				"Verify the relay address and port",
				"The management page may be disabled; reboot the relay",
			}
		case NetworkErrorDNS:
			return []string{
				"Could not resolve the relay hostname",
				"Use the IP address instead of a hostname",
			}
		case NetworkErrorHostUnreachable, NetworkErrorNetworkUnreachable:
			return []string{
				"The relay is not reachable from this machine",
				"Connect to the relay's Wi-Fi network",
				"Try: relaylink discover",
			}
		case NetworkErrorTLS:
			return []string{
				"The TLS handshake with the relay failed",
				"Try plain http:// for the relay address",
			}
		case NetworkErrorCanceled:
			return []string{"The operation was canceled before the relay answered"}
		default:
			return []string{
				"Check your network connection",
				"Verify the relay is powered on",
				"Ensure you are on the relay's network",
			}
		}

	case ErrTypeCredentialUnavailable:
		return []string{
			"No relay password is available",
			"Set it with: relaylink admin set-relay-password",
			"Check the secrets backend with: relaylink admin status",
		}

	case ErrTypeAuthenticationFailed:
		return []string{
			"The relay rejected the login",
			"Check the stored relay password",
			"The default username is admin",
		}

	case ErrTypeNotAuthenticated:
		return []string{"Log in to the relay before scanning or selecting a network"}

	case ErrTypeScanFailed:
		return []string{
			fmt.Sprintf("The relay answered the scan with HTTP %d", relayErr.StatusCode),
			"The login session may have expired; log in again",
		}

	case ErrTypeNetworkSelectionFailed:
		return []string{
			fmt.Sprintf("The relay answered the selection with HTTP %d", relayErr.StatusCode),
			"Check the network password and MAC address",
			"The login session may have expired; log in again",
		}

	case ErrTypeValidation:
		return []string{relayErr.Message}

	default:
		return []string{"Check the error message for details"}
	}
}

// ShortErrorMessage returns a concise, user-friendly error message
func ShortErrorMessage(err error) string {
	var relayErr *RelayError
	if !errors.As(err, &relayErr) {
		return err.Error()
	}

	switch relayErr.Type {
	case ErrTypeInvalidConfiguration:
		return "Invalid relay address"
	case ErrTypeTransport:
		switch relayErr.NetworkSubtype {
		case NetworkErrorTimeout:
			return "Relay not responding (timeout)"
		case NetworkErrorConnectionRefused:
			return "Relay refused connection"
		case NetworkErrorDNS:
			return "Cannot resolve relay hostname"
		case NetworkErrorHostUnreachable:
			return "Relay unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable - check Wi-Fi connection"
		case NetworkErrorTLS:
			return "TLS handshake with relay failed"
		case NetworkErrorCanceled:
			return "Canceled"
		default:
			return "Network error - check connection"
		}
	case ErrTypeCredentialUnavailable:
		return "Relay password unavailable"
	case ErrTypeAuthenticationFailed:
		if relayErr.StatusCode != 0 && relayErr.StatusCode != 200 {
			return fmt.Sprintf("Relay login rejected (HTTP %d)", relayErr.StatusCode)
		}
		return "Relay login rejected - check password"
	case ErrTypeNotAuthenticated:
		return "Not logged in to relay"
	case ErrTypeScanFailed:
		return fmt.Sprintf("Scan failed (HTTP %d)", relayErr.StatusCode)
	case ErrTypeNetworkSelectionFailed:
		return fmt.Sprintf("Network selection failed (HTTP %d)", relayErr.StatusCode)
	default:
		return relayErr.Message
	}
}
