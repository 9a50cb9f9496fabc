package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/relaylink/internal/relay"
)

// ErrPickerCanceled is returned when the operator quits the picker
var ErrPickerCanceled = errors.New("network selection canceled")

// PickerConfig configures the network picker
type PickerConfig struct {
	Result *relay.ScanResult

	// CurrentSSID is preselected and marked when present in Result
	CurrentSSID string

	// StoredPassword prefills the password prompt when CurrentSSID is picked
	StoredPassword string

	// Rescan is called on "r". Nil disables rescanning.
	Rescan func(ctx context.Context) (*relay.ScanResult, error)
}

// Selection is the network picked by the operator and its password
type Selection struct {
	Network  relay.Network
	Password string
}

// Request converts the selection for relay.Client.Select
func (s Selection) Request() relay.SelectionRequest {
	return relay.SelectionRequest{
		SSID:     s.Network.SSID,
		Password: s.Password,
		MAC:      s.Network.MAC,
		Band:     s.Network.Band,
	}
}

type rescanMsg struct {
	result *relay.ScanResult
	err    error
}

// pickerKeyMap defines key bindings for the network list
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Filter key.Binding
	Rescan key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Filter, k.Rescan, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.Filter, k.Rescan, k.Quit}}
}

// passwordKeyMap defines key bindings for the password prompt
type passwordKeyMap struct {
	Confirm key.Binding
	Back    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k passwordKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k passwordKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Back}}
}

// networkItem wraps a Network for use with bubbles/list
type networkItem struct {
	network relay.Network
	current bool
}

func (i networkItem) FilterValue() string { return i.network.SSID }

// networkDelegate renders one network per line
type networkDelegate struct{}

func (d networkDelegate) Height() int { return 1 }

func (d networkDelegate) Spacing() int { return 0 }

func (d networkDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d networkDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(networkItem)
	if !ok {
		return
	}
	n := it.network

	security := n.SecurityMode
	if n.IsOpen() {
		security = "Open"
	}
	mark := " "
	if it.current {
		mark = CurrentMarker
	}
	line := fmt.Sprintf("%s %-28s %-7s %s  %s", mark, truncate(n.SSID, 28), n.Band, relay.FormatSignalBars(n), security)

	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("→ "+line))
		return
	}
	fmt.Fprint(w, "  "+line)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

type pickerPhase int

const (
	phaseChoosing pickerPhase = iota
	phaseScanning
	phasePassword
	phaseDone
	phaseCanceled
)

// NetworkPicker is the interactive uplink chooser: a filterable network
// list followed by a password prompt for secured networks.
type NetworkPicker struct {
	ctx      context.Context
	cfg      PickerConfig
	list     list.Model
	password textinput.Model
	spinner  spinner.Model
	help     help.Model
	keys     pickerKeyMap
	pwKeys   passwordKeyMap

	phase       pickerPhase
	chosen      relay.Network
	placeholder bool
	err         error
	width       int
	height      int
}

// NewNetworkPicker creates the picker model
func NewNetworkPicker(ctx context.Context, cfg PickerConfig) NetworkPicker {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	pw := textinput.New()
	pw.Placeholder = "network password"
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.CharLimit = 63
	pw.Width = 40

	l := list.New(nil, networkDelegate{}, MinTerminalWidth, 14)
	l.Title = "Select uplink network"
	l.Styles.Title = PickerTitleStyle
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	m := NetworkPicker{
		ctx:      ctx,
		cfg:      cfg,
		list:     l,
		password: pw,
		spinner:  s,
		help:     help.New(),
		keys: pickerKeyMap{
			Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
			Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
			Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
			Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
			Rescan: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
			Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		},
		pwKeys: passwordKeyMap{
			Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
			Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		},
	}
	if cfg.Rescan == nil {
		m.keys.Rescan.SetEnabled(false)
	}
	m.setResult(cfg.Result)
	return m
}

func (m *NetworkPicker) setResult(result *relay.ScanResult) {
	if result == nil {
		result = &relay.ScanResult{}
	}
	m.placeholder = result.IsPlaceholder()

	items := make([]list.Item, len(result.Networks))
	selected := 0
	for i, n := range result.Networks {
		current := m.cfg.CurrentSSID != "" && n.SSID == m.cfg.CurrentSSID
		if current {
			selected = i
		}
		items[i] = networkItem{network: n, current: current}
	}
	m.list.SetItems(items)
	m.list.Select(selected)
}

// Init implements tea.Model
func (m NetworkPicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m NetworkPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.phase = phaseCanceled
			return m, tea.Quit
		}
		switch m.phase {
		case phaseChoosing:
			return m.updateChoosing(msg)
		case phasePassword:
			return m.updatePassword(msg)
		case phaseScanning:
			if key.Matches(msg, m.keys.Quit) {
				m.phase = phaseCanceled
				return m, tea.Quit
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		m.help.Width = msg.Width
		return m, nil

	case rescanMsg:
		m.phase = phaseChoosing
		m.err = msg.err
		if msg.err == nil {
			m.setResult(msg.result)
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.phase {
	case phaseChoosing:
		m.list, cmd = m.list.Update(msg)
	case phasePassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m NetworkPicker) updateChoosing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// while typing a filter every key belongs to the list
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.list.FilterState() == list.FilterApplied {
			m.list.ResetFilter()
			return m, nil
		}
		m.phase = phaseCanceled
		return m, tea.Quit

	case key.Matches(msg, m.keys.Rescan):
		m.phase = phaseScanning
		m.err = nil
		rescan, ctx := m.cfg.Rescan, m.ctx
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			result, err := rescan(ctx)
			return rescanMsg{result: result, err: err}
		})

	case key.Matches(msg, m.keys.Select):
		it, ok := m.list.SelectedItem().(networkItem)
		if !ok {
			return m, nil
		}
		m.chosen = it.network
		m.password.SetValue("")
		if it.network.IsOpen() {
			m.phase = phaseDone
			return m, tea.Quit
		}
		m.phase = phasePassword
		m.err = nil
		if it.current {
			m.password.SetValue(m.cfg.StoredPassword)
		}
		m.password.CursorEnd()
		cmd := m.password.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m NetworkPicker) updatePassword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.pwKeys.Confirm):
		if m.password.Value() == "" {
			m.err = errors.New("a password is required for secured networks")
			return m, nil
		}
		m.phase = phaseDone
		m.password.Blur()
		return m, tea.Quit

	case key.Matches(msg, m.pwKeys.Back):
		m.phase = phaseChoosing
		m.err = nil
		m.password.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m NetworkPicker) View() string {
	var b strings.Builder

	if m.placeholder {
		b.WriteString(WarningTitleStyle.Render(WarningMarker + "  Placeholder networks: the relay returned no readable scan data"))
		b.WriteString("\n\n")
	}

	switch m.phase {
	case phaseScanning:
		b.WriteString(fmt.Sprintf("  %s Scanning for networks...\n\n", m.spinner.View()))
		b.WriteString(m.help.View(m.keys))

	case phasePassword:
		b.WriteString(ProgressLabelStyle.Render(fmt.Sprintf("Password for %s", m.chosen.DisplayName())))
		b.WriteString("\n\n  ")
		b.WriteString(m.password.View())
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(ErrorMessageStyle.Render("  " + m.err.Error()))
			b.WriteString("\n\n")
		}
		if warn := relay.ValidateNetworkPassword(m.password.Value()); warn != nil && m.password.Value() != "" {
			b.WriteString(StepNoteStyle.Render("  " + warn.Error()))
			b.WriteString("\n\n")
		}
		b.WriteString(m.help.View(m.pwKeys))

	case phaseDone, phaseCanceled:
		return ""

	default:
		b.WriteString(m.list.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(ErrorMessageStyle.Render("  Rescan failed: " + relay.ShortErrorMessage(m.err)))
			b.WriteString("\n")
		}
		b.WriteString(m.help.View(m.keys))
	}

	return lipgloss.NewStyle().Padding(1, 1).Render(b.String())
}

// Selection returns the picked network once the operator confirmed
func (m NetworkPicker) Selection() (*Selection, bool) {
	if m.phase != phaseDone {
		return nil, false
	}
	return &Selection{Network: m.chosen, Password: m.password.Value()}, true
}

// RunNetworkPicker runs the picker on the terminal
func RunNetworkPicker(ctx context.Context, cfg PickerConfig) (*Selection, error) {
	if cfg.Result == nil || len(cfg.Result.Networks) == 0 {
		return nil, errors.New("no networks to choose from")
	}

	p := tea.NewProgram(NewNetworkPicker(ctx, cfg), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("network picker: %w", err)
	}

	sel, ok := final.(NetworkPicker).Selection()
	if !ok {
		return nil, ErrPickerCanceled
	}
	return sel, nil
}
