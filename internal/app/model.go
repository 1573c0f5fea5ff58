// Package app contains the main application model and TEA implementation.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kanbaru/walletbridge/internal/config"
	"github.com/kanbaru/walletbridge/internal/connection"
	"github.com/kanbaru/walletbridge/internal/domain"
	"github.com/kanbaru/walletbridge/internal/probe"
	"github.com/kanbaru/walletbridge/internal/services/wallet"
	"github.com/kanbaru/walletbridge/internal/state"
	"github.com/kanbaru/walletbridge/internal/types"
	"github.com/kanbaru/walletbridge/internal/ui/connect"
	"github.com/kanbaru/walletbridge/internal/ui/statusbar"
	"github.com/kanbaru/walletbridge/internal/ui/styles"
	"github.com/kanbaru/walletbridge/internal/ui/timeline"
	"github.com/kanbaru/walletbridge/internal/ui/toast"
)

// Re-export Toast type and constants for convenience
type Toast = types.Toast

const (
	ToastInfo    = types.ToastInfo
	ToastSuccess = types.ToastSuccess
	ToastError   = types.ToastError
)

// probeMsg carries the outcome of one background probe round
type probeMsg struct {
	result probe.Result
}

// tickMsg drives periodic housekeeping (toast expiry)
type tickMsg time.Time

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the main application state
type Model struct {
	// Connection flow core
	machine *connection.Machine
	driver  *probe.Driver

	// Wallet node client (probes and account display)
	walletClient *wallet.Client

	// UI state
	view    types.View
	toasts  []Toast
	spinner spinner.Model
	width   int
	height  int

	// Styles
	styles        *styles.Styles
	toastRenderer *toast.Renderer

	// Configuration
	config *config.Config

	// Logger
	logger *slog.Logger
}

// New creates a new application model with the given config
func New(cfg *config.Config) Model {
	logger := slog.Default()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	// Connection core: timeline collaborator, durable store, machine
	tl := connection.NewTimeline()
	store := state.NewFileStore(logger)
	machine := connection.NewMachine(connection.Config{
		StaleAfter: time.Duration(cfg.Connection.StaleAfterMinutes) * time.Minute,
	}, tl, store, logger)

	// Wallet client and the four phase probes
	probeTimeout := time.Duration(cfg.Wallet.ProbeTimeoutMs) * time.Millisecond
	walletClient := wallet.NewClient(cfg.Wallet.Endpoint, probeTimeout, logger)
	driver := probe.NewDriver(machine, walletClient.Probes(cfg.Wallet.ChainID), probe.Config{
		MinStage: time.Duration(cfg.Connection.MinStageMs) * time.Millisecond,
		Timeout:  probeTimeout,
	}, logger)

	view := types.ViewConnect
	if cfg.UI.ShowTimeline {
		view = types.ViewTimeline
	}

	st := styles.New()
	return Model{
		machine:       machine,
		driver:        driver,
		walletClient:  walletClient,
		view:          view,
		toasts:        []Toast{},
		spinner:       s,
		styles:        st,
		toastRenderer: toast.New(st),
		config:        cfg,
		logger:        logger,
	}
}

// Init returns the initial command for the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickEvery(time.Second),
	)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case probeMsg:
		return m.handleProbeResult(msg.result)

	case tickMsg:
		m.expireToasts()
		return m, tickEvery(time.Second)
	}

	return m, nil
}

// handleKey dispatches key presses for the active view
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "t":
		if m.view == types.ViewTimeline {
			m.view = types.ViewConnect
		} else {
			m.view = types.ViewTimeline
		}
		return m, nil

	case "esc":
		m.view = types.ViewConnect
		return m, nil

	case "enter":
		if m.machine.InProgress() {
			return m, nil
		}
		// First run of a session clears the first-connection flag; any later
		// run within the session is a restart.
		if m.machine.FirstTimeConnection() {
			m.machine.FirstStart()
		} else {
			m.machine.Restart()
		}
		return m, m.probeCmd()

	case "r":
		m.machine.Restart()
		return m, m.probeCmd()

	case "c":
		if m.machine.InProgress() {
			m.machine.Cancel()
			m.addToast(ToastInfo, "Connection cancelled", 3*time.Second)
		}
		return m, nil

	case "R":
		m.machine.FullReset()
		m.addToast(ToastInfo, "Connection state cleared", 3*time.Second)
		return m, nil
	}

	return m, nil
}

// probeCmd captures the probe invocation for the current phase and runs it in
// the background. Returns nil when nothing is in progress.
func (m Model) probeCmd() tea.Cmd {
	inv := m.driver.Next()
	if inv == nil {
		return nil
	}
	return func() tea.Msg {
		return probeMsg{result: inv.Run(context.Background())}
	}
}

// handleProbeResult feeds a probe outcome into the machine and chains the
// next probe while the flow keeps advancing.
func (m Model) handleProbeResult(r probe.Result) (tea.Model, tea.Cmd) {
	outcome := m.driver.Apply(r)
	if !outcome.Applied {
		// Stale resolution from a cancelled or restarted run
		return m, nil
	}

	if outcome.Done {
		account := connect.TruncateAddress(m.walletClient.Account())
		if account == "" {
			account = "wallet"
		}
		m.addToast(ToastSuccess, "Connected to "+account, 5*time.Second)
		return m, nil
	}
	if outcome.Advanced {
		return m, m.probeCmd()
	}

	// Halted in place: the phase failed
	m.addToast(ToastError, r.Phase.Label()+" failed", 8*time.Second)
	return m, nil
}

// View renders the application
func (m Model) View() string {
	title := m.styles.Title.Render("walletbridge")

	var body string
	switch m.view {
	case types.ViewTimeline:
		body = timelineView(m)
	default:
		body = connectView(m)
	}

	bar := statusbar.New(m.view, m.width, m.styles).Render()

	sections := []string{title, body}
	if t := m.toastRenderer.Render(m.toasts, m.width); t != "" {
		sections = append(sections, t)
	}
	sections = append(sections, bar)

	return m.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func connectView(m Model) string {
	rows := make([]connect.Row, 0, len(domain.PhaseOrder))
	for _, phase := range domain.PhaseOrder {
		rows = append(rows, connect.Row{
			Phase:     phase,
			Status:    m.machine.Status(phase),
			Timestamp: m.machine.Timestamp(phase),
		})
	}

	account := ""
	if m.machine.Status(domain.PhaseAccountFetched) == domain.StatusSuccess {
		account = m.walletClient.Account()
	}

	return connect.Render(
		rows,
		m.machine.PhaseInfo().Phase,
		m.machine.FirstTimeConnection(),
		account,
		m.spinner.View(),
		m.config.UI.TimeFormat,
		m.styles,
	)
}

func timelineView(m Model) string {
	return timeline.Render(m.machine.Timeline(), m.config.UI.TimeFormat, m.styles)
}

func (m *Model) addToast(level types.ToastLevel, message string, ttl time.Duration) {
	m.toasts = append(m.toasts, types.NewToast(level, message, ttl))
}

// expireToasts drops toasts past their expiry
func (m *Model) expireToasts() {
	now := time.Now()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}
