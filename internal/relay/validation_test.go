package relay

import (
	"strings"
	"testing"
)

func TestValidateSSID(t *testing.T) {
	tests := []struct {
		name    string
		ssid    string
		wantErr bool
	}{
		{"valid", "Cafe", false},
		{"max length", strings.Repeat("a", 32), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 33), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSSID(tt.ssid)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSSID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMAC(t *testing.T) {
	if err := ValidateMAC("aa:bb:cc:dd:ee:ff"); err != nil {
		t.Errorf("valid MAC: %v", err)
	}
	if err := ValidateMAC("AA-BB-CC-DD-EE-FF"); err != nil {
		t.Errorf("dashed MAC: %v", err)
	}

	err := ValidateMAC("")
	if err == nil || IsWarning(err) {
		t.Errorf("empty MAC should be a blocking error, got %v", err)
	}

	err = ValidateMAC("aabbccddeeff")
	if err == nil || !IsWarning(err) {
		t.Errorf("unusual MAC should be a warning, got %v", err)
	}
}

func TestValidateNetworkPassword(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		wantErr     bool
		wantWarning bool
	}{
		{"open network", "", false, false},
		{"valid", "password1", false, false},
		{"short", "p", true, true},
		{"long", strings.Repeat("x", 64), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNetworkPassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && IsWarning(err) != tt.wantWarning {
				t.Errorf("IsWarning = %v, want %v", IsWarning(err), tt.wantWarning)
			}
		})
	}
}

func TestValidateSelection(t *testing.T) {
	valid := SelectionRequest{SSID: "Cafe", Password: "password1", MAC: "aa:bb:cc:dd:ee:ff", Band: Band5GHz}
	if errs := ValidateSelection(valid); len(errs) != 0 {
		t.Errorf("valid request: %v", errs)
	}

	bad := SelectionRequest{SSID: "", Password: "p", MAC: "", Band: Band(7)}
	errs := ValidateSelection(bad)
	warnings, critical := SeparateWarningsAndErrors(errs)

	if len(critical) != 3 {
		t.Errorf("critical = %d, want 3 (ssid, mac, band): %v", len(critical), critical)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %d, want 1 (password): %v", len(warnings), warnings)
	}
	for _, err := range errs {
		if !IsValidationError(err) {
			t.Errorf("%v should be a validation error", err)
		}
	}

	msg := FormatValidationErrors(errs)
	if !strings.Contains(msg, "4 error(s)") {
		t.Errorf("FormatValidationErrors() = %q", msg)
	}
	if FormatValidationErrors(nil) != "No validation errors" {
		t.Error("FormatValidationErrors(nil) should report no errors")
	}
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"http://10.0.0.213", false},
		{"https://relay.local:8443", false},
		{"http://10.0.0.213/", false},
		{"", true},
		{"10.0.0.213", true},
		{"ftp://10.0.0.213", true},
		{"http://", true},
		{"http://%zz", true},
	}

	for _, tt := range tests {
		_, err := ValidateBaseURL(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateBaseURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if err != nil && !IsConfigurationError(err) {
			t.Errorf("ValidateBaseURL(%q) error type = %v, want invalid configuration", tt.raw, err)
		}
	}
}

func TestParseBand(t *testing.T) {
	tests := []struct {
		input   string
		want    Band
		wantErr bool
	}{
		{"2.4", Band24GHz, false},
		{"2.4GHz", Band24GHz, false},
		{"24g", Band24GHz, false},
		{"5", Band5GHz, false},
		{"5GHz", Band5GHz, false},
		{" 5g ", Band5GHz, false},
		{"6", Band24GHz, true},
	}

	for _, tt := range tests {
		got, err := ParseBand(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBand(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseBand(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNetwork_SignalBars(t *testing.T) {
	tests := []struct {
		signal int
		want   int
	}{
		{-20, 4},
		{-45, 3},
		{-65, 2},
		{-85, 1},
		{-95, 0},
		{85, 0},
	}

	for _, tt := range tests {
		n := Network{SignalStrength: tt.signal}
		if got := n.SignalBars(); got != tt.want {
			t.Errorf("SignalBars(%d) = %d, want %d", tt.signal, got, tt.want)
		}
	}
}
