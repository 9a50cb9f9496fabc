package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/relaylink/internal/config"
	"github.com/muurk/relaylink/internal/relay"
)

func TestHeader_ParamOrder(t *testing.T) {
	out := NewHeader("Network Scan", "relaylink scan",
		Param{Key: "Relay", Value: "http://10.0.0.213"},
		Param{Key: "User", Value: "admin"},
	).SetWidth(80).Render()

	if !strings.Contains(out, "NETWORK SCAN") {
		t.Error("header should contain the uppercased title")
	}
	relayAt := strings.Index(out, "http://10.0.0.213")
	userAt := strings.Index(out, "admin")
	if relayAt < 0 || userAt < 0 || relayAt > userAt {
		t.Errorf("params should render in the given order:\n%s", out)
	}
}

func TestResult_FailureUsesRelayHints(t *testing.T) {
	err := relay.NewAuthError(401, "login returned HTTP 401")
	out := NewFailureResult("Login failed", err).SetWidth(80).Render()

	if !strings.Contains(out, "FAILED") {
		t.Error("failure box should contain FAILED")
	}
	if !strings.Contains(out, "Troubleshooting") {
		t.Error("relay errors should get troubleshooting tips")
	}

	plain := NewFailureResult("Setup failed", errors.New("disk full"))
	if len(plain.Troubleshooting) != 0 {
		t.Errorf("non-relay errors should not get relay tips, got %v", plain.Troubleshooting)
	}
}

func TestResult_Details(t *testing.T) {
	out := NewSuccessResult("Uplink selected").AddDetail("SSID", "Cafe").AddDetail("Band", "5GHz").SetWidth(80).Render()

	if !strings.Contains(out, "SUCCESS") || !strings.Contains(out, "Cafe") {
		t.Errorf("success box missing content:\n%s", out)
	}
	if strings.Index(out, "Cafe") > strings.Index(out, "5GHz") {
		t.Error("details should render in insertion order")
	}
}

func TestProgress_Percent(t *testing.T) {
	p := NewProgress("", "Authenticate", "Login", "Scan", "Select")

	p.StartStep(1, "")
	if p.Current != 1 {
		t.Errorf("Current = %d, want 1", p.Current)
	}
	p.CompleteStep(1, "")
	p.SkipStep(2, "already logged in")
	p.FailStep(3, "timeout")
	if p.Percent != 0.5 {
		t.Errorf("Percent = %v, want 0.5", p.Percent)
	}

	p.UpdateStep(9, StepComplete, "")
	if p.Percent != 0.5 {
		t.Error("out-of-range step should be ignored")
	}

	out := p.Render()
	if !strings.Contains(out, "(already logged in)") || !strings.Contains(out, "[4/4]") {
		t.Errorf("Render() missing step details:\n%s", out)
	}
}

func TestRunner_Run(t *testing.T) {
	var out bytes.Buffer
	runner := NewRunner(RunnerConfig{
		Title:     "Configure Uplink",
		Command:   "relaylink configure",
		StepNames: []string{"Login", "Select"},
		Output:    &out,
	})

	err := runner.Run(context.Background(), func(ctx context.Context, onStep StepCallback) ([]Param, error) {
		onStep(1, StepRunning, "")
		onStep(1, StepComplete, "")
		onStep(2, StepComplete, "Cafe")
		return []Param{{Key: "SSID", Value: "Cafe"}}, nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if runner.Progress().Percent != 1 {
		t.Errorf("Percent = %v, want 1", runner.Progress().Percent)
	}
	if !strings.Contains(out.String(), "Configure Uplink complete") || !strings.Contains(out.String(), "Duration") {
		t.Errorf("output missing success box:\n%s", out.String())
	}

	out.Reset()
	want := relay.NewNotAuthenticatedError("scan")
	err = runner.Run(context.Background(), func(ctx context.Context, onStep StepCallback) ([]Param, error) {
		return nil, want
	})
	if !errors.Is(err, want) {
		t.Errorf("Run() error = %v, want %v", err, want)
	}
	if !strings.Contains(out.String(), "Configure Uplink failed") {
		t.Errorf("output missing failure box:\n%s", out.String())
	}
}

func TestRenderNetworkTable(t *testing.T) {
	result := &relay.ScanResult{
		Networks: []relay.Network{
			{SSID: "Cafe_5G", MAC: "aa:bb:cc:dd:ee:f0", Channel: 36, SignalStrength: -40, SecurityMode: "WPA2", Band: relay.Band5GHz},
			{SSID: "Guest", MAC: "99:88:77:66:55:44", Channel: 1, SignalStrength: -80, SecurityMode: "", Band: relay.Band24GHz},
		},
		Source: relay.SourceJSON,
	}

	out := RenderNetworkTable(result, "Guest")
	for _, want := range []string{"SSID", "Cafe_5G", "5GHz", CurrentMarker + " Guest", "Open"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "placeholder") {
		t.Error("real scan data should not carry the placeholder warning")
	}

	placeholder := &relay.ScanResult{Networks: relay.PlaceholderNetworks(), Source: relay.SourcePlaceholder}
	if !strings.Contains(RenderNetworkTable(placeholder, ""), "placeholder") {
		t.Error("placeholder results should be flagged")
	}
}

func pickerResult() *relay.ScanResult {
	return &relay.ScanResult{Networks: []relay.Network{
		{SSID: "Cafe", MAC: "aa:bb:cc:dd:ee:ff", SignalStrength: -40, SecurityMode: "WPA2", Band: relay.Band24GHz},
		{SSID: "Office", MAC: "11:22:33:44:55:66", SignalStrength: -60, SecurityMode: "WPA2", Band: relay.Band5GHz},
		{SSID: "Guest", MAC: "99:88:77:66:55:44", SignalStrength: -70, SecurityMode: "Open", Band: relay.Band24GHz},
	}}
}

func send(m NetworkPicker, msgs ...tea.Msg) NetworkPicker {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(NetworkPicker)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNetworkPicker_PreselectsCurrentWithStoredPassword(t *testing.T) {
	m := NewNetworkPicker(context.Background(), PickerConfig{
		Result:         pickerResult(),
		CurrentSSID:    "Office",
		StoredPassword: "stored-secret",
	})

	m = send(m, keyMsg("enter"))
	if m.phase != phasePassword {
		t.Fatalf("phase = %v, want password prompt", m.phase)
	}
	if m.password.Value() != "stored-secret" {
		t.Errorf("password prefill = %q, want stored password", m.password.Value())
	}

	m = send(m, keyMsg("enter"))
	sel, ok := m.Selection()
	if !ok {
		t.Fatal("Selection() should be available after confirming")
	}
	req := sel.Request()
	if req.SSID != "Office" || req.Band != relay.Band5GHz || req.Password != "stored-secret" {
		t.Errorf("Request() = %+v", req)
	}
}

func TestNetworkPicker_TypedPassword(t *testing.T) {
	m := NewNetworkPicker(context.Background(), PickerConfig{Result: pickerResult(), StoredPassword: "not-offered"})

	m = send(m, keyMsg("enter"))
	if m.password.Value() != "" {
		t.Error("stored password should only prefill the current network")
	}

	m = send(m, keyMsg("enter"))
	if m.phase != phasePassword || m.err == nil {
		t.Error("empty password should be refused for a secured network")
	}

	m = send(m, keyMsg("espresso1"), keyMsg("enter"))
	sel, ok := m.Selection()
	if !ok || sel.Network.SSID != "Cafe" || sel.Password != "espresso1" {
		t.Errorf("Selection() = %+v, %v", sel, ok)
	}
}

func TestNetworkPicker_OpenNetworkSkipsPassword(t *testing.T) {
	m := NewNetworkPicker(context.Background(), PickerConfig{Result: pickerResult(), CurrentSSID: "Guest"})

	m = send(m, keyMsg("enter"))
	sel, ok := m.Selection()
	if !ok || sel.Network.SSID != "Guest" || sel.Password != "" {
		t.Errorf("Selection() = %+v, %v", sel, ok)
	}
}

func TestNetworkPicker_BackAndQuit(t *testing.T) {
	m := NewNetworkPicker(context.Background(), PickerConfig{Result: pickerResult()})

	m = send(m, keyMsg("enter"), keyMsg("esc"))
	if m.phase != phaseChoosing {
		t.Errorf("esc in password prompt should return to the list, phase = %v", m.phase)
	}

	m = send(m, keyMsg("q"))
	if _, ok := m.Selection(); ok {
		t.Error("quitting should not yield a selection")
	}
	if m.phase != phaseCanceled {
		t.Errorf("phase = %v, want canceled", m.phase)
	}
}

func TestNetworkPicker_Rescan(t *testing.T) {
	calls := 0
	rescan := func(ctx context.Context) (*relay.ScanResult, error) {
		calls++
		return &relay.ScanResult{Networks: []relay.Network{{SSID: "New", MAC: "aa:aa:aa:aa:aa:aa", SecurityMode: "Open"}}}, nil
	}
	m := NewNetworkPicker(context.Background(), PickerConfig{Result: pickerResult(), Rescan: rescan})

	next, cmd := m.Update(keyMsg("r"))
	m = next.(NetworkPicker)
	if m.phase != phaseScanning || cmd == nil {
		t.Fatalf("phase = %v, want scanning with a command", m.phase)
	}

	result, err := rescan(context.Background())
	m = send(m, rescanMsg{result: result, err: err})
	if m.phase != phaseChoosing || len(m.list.Items()) != 1 {
		t.Errorf("after rescan: phase = %v, items = %d", m.phase, len(m.list.Items()))
	}

	noRescan := NewNetworkPicker(context.Background(), PickerConfig{Result: pickerResult()})
	noRescan = send(noRescan, keyMsg("r"))
	if noRescan.phase != phaseChoosing {
		t.Error("rescan should be disabled without a Rescan func")
	}
}

func TestConfirmDangerousOperation(t *testing.T) {
	var out bytes.Buffer

	if !ConfirmAdminReset(strings.NewReader("RESET\n"), &out) {
		t.Error("exact phrase should confirm")
	}
	if ConfirmAdminReset(strings.NewReader("reset\n"), &out) {
		t.Error("phrase match should be case-sensitive")
	}
	if ConfirmAdminReset(strings.NewReader(""), &out) {
		t.Error("EOF should not confirm")
	}
}

func TestPrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompterFrom(strings.NewReader("  booth  \nsecret1\nsecret1\nsecret1\nother\ny\n\n"), &out)

	if line, _ := p.Line("Name: "); line != "booth" {
		t.Errorf("Line() = %q, want booth", line)
	}
	if pw, err := p.NewPassword("Admin password: "); err != nil || pw != "secret1" {
		t.Errorf("NewPassword() = %q, %v", pw, err)
	}
	if _, err := p.NewPassword("Admin password: "); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("NewPassword() mismatch error = %v", err)
	}
	if ok, _ := p.Confirm("Continue?", false); !ok {
		t.Error("Confirm(y) = false")
	}
	if ok, _ := p.Confirm("Continue?", true); !ok {
		t.Error("Confirm(empty) should use the default")
	}
	if !strings.Contains(out.String(), "Confirm admin password") {
		t.Errorf("confirmation prompt missing:\n%s", out.String())
	}
}

func TestRenderEventTable(t *testing.T) {
	list := []*config.Event{
		{ID: "fair", Name: "Summer Fair", Date: time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
			WiFi: &config.WiFiMeta{SSID: "Cafe_5G", MAC: "aa:bb:cc:dd:ee:f0", Band: relay.Band5GHz}},
		{ID: "board", Name: "Board Meeting", Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
	}

	out := RenderEventTable(list, "fair")
	for _, want := range []string{CurrentMarker + " fair", "Summer Fair", "Jul 4, 2026", "Cafe_5G (5GHz)", "Board Meeting"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Summer Fair") > strings.Index(out, "Board Meeting") {
		t.Error("rows should keep the given order")
	}
}
