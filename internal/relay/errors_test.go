package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestRelayError_Is(t *testing.T) {
	err := NewScanError(502, "scan returned HTTP 502")
	wrapped := fmt.Errorf("scan step: %w", err)

	if !errors.Is(wrapped, ErrScanFailed) {
		t.Error("errors.Is(wrapped, ErrScanFailed) = false")
	}
	if errors.Is(wrapped, ErrNetworkSelectionFailed) {
		t.Error("scan failure should not match ErrNetworkSelectionFailed")
	}
	if !IsScanError(wrapped) {
		t.Error("IsScanError(wrapped) = false")
	}
	if !IsRetryable(err) {
		t.Error("5xx scan failure should be retryable")
	}
	if IsRetryable(NewScanError(404, "x")) {
		t.Error("4xx scan failure should not be retryable")
	}
}

func TestRelayError_Error(t *testing.T) {
	cause := errors.New("boom")
	err := NewConfigurationError("bad url", cause)

	if !strings.Contains(err.Error(), "Invalid Configuration: bad url") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("configuration error should unwrap to its cause")
	}
	if got := (&RelayError{Type: ErrTypeNotAuthenticated}).Error(); got != "Not Authenticated" {
		t.Errorf("Error() = %q, want Not Authenticated", got)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyTransportError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      NetworkErrorSubtype
		retryable bool
	}{
		{"canceled", context.Canceled, NetworkErrorCanceled, false},
		{"deadline", context.DeadlineExceeded, NetworkErrorTimeout, true},
		{"os timeout", timeoutErr{}, NetworkErrorTimeout, true},
		{"dns", &net.DNSError{Name: "relay.local", Err: "no such host"}, NetworkErrorDNS, false},
		{"refused", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, NetworkErrorConnectionRefused, true},
		{"host unreachable", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.EHOSTUNREACH)}, NetworkErrorHostUnreachable, true},
		{"network unreachable", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ENETUNREACH)}, NetworkErrorNetworkUnreachable, true},
		{"url wrapped refused", &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}}, NetworkErrorConnectionRefused, true},
		{"general", errors.New("something odd"), NetworkErrorGeneral, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTransportError(tt.err, "http://relay/login/Auth")
			if got.Type != ErrTypeTransport {
				t.Errorf("Type = %v, want transport", got.Type)
			}
			if got.NetworkSubtype != tt.want {
				t.Errorf("NetworkSubtype = %v, want %v", got.NetworkSubtype, tt.want)
			}
			if got.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.retryable)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}

	if ClassifyTransportError(nil, "") != nil {
		t.Error("ClassifyTransportError(nil) should be nil")
	}
}

func TestNewTransportError_Message(t *testing.T) {
	err := NewTransportError("POST http://relay/login/Auth failed", "http://relay/login/Auth", context.DeadlineExceeded)

	if err.Message != "POST http://relay/login/Auth failed: request timed out" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Endpoint != "http://relay/login/Auth" {
		t.Errorf("Endpoint = %q", err.Endpoint)
	}
}

func TestShortErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewAuthError(403, "x"), "Relay login rejected (HTTP 403)"},
		{NewAuthError(200, "x"), "Relay login rejected - check password"},
		{NewNotAuthenticatedError("scan"), "Not logged in to relay"},
		{NewScanError(500, "x"), "Scan failed (HTTP 500)"},
		{NewSelectionError(400, "x"), "Network selection failed (HTTP 400)"},
		{NewCredentialError("x", nil), "Relay password unavailable"},
		{NewTransportError("x", "", context.DeadlineExceeded), "Relay not responding (timeout)"},
		{errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		if got := ShortErrorMessage(tt.err); got != tt.want {
			t.Errorf("ShortErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestTroubleshootingHint(t *testing.T) {
	hints := TroubleshootingHint(NewCredentialError("x", nil))
	if len(hints) == 0 || !strings.Contains(strings.Join(hints, "\n"), "set-relay-password") {
		t.Errorf("credential hints = %v", hints)
	}

	hints = TroubleshootingHint(errors.New("plain"))
	if len(hints) != 1 {
		t.Errorf("hints for a foreign error = %v, want one generic hint", hints)
	}
}
