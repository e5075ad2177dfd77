// Package tui renders the trainer client: the table pane, the advisory
// overlay and the status line. All projections are pure functions of the
// session view; the model only forwards intents to the session controller
// and re-renders from whatever view comes back.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/pokertrainer/internal/session"
)

// viewMsg delivers the session view resulting from a settled intent
type viewMsg session.View

// Model is the Bubble Tea model for the trainer client
type Model struct {
	controller *session.Controller
	logger     *log.Logger

	view     session.View
	expanded int
	// pending mirrors the controller's busy flag on the UI side so intent
	// keys are disabled while a request is in flight, rather than relying
	// on the controller's rejection as the only defense.
	pending bool

	logViewport viewport.Model
	spin        spinner.Model
	gameLog     []string
	lastHand    int

	width    int
	height   int
	quitting bool
}

// New creates the TUI model around a session controller
func New(controller *session.Controller, logger *log.Logger) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))

	vp := viewport.New(10, 5)
	vp.SetContent("")

	return &Model{
		controller:  controller,
		logger:      logger.WithPrefix("tui"),
		expanded:    NoExpansion,
		logViewport: vp,
		spin:        sp,
		view:        controller.View(),
	}
}

// Init starts the session as soon as the program is running
func (m *Model) Init() tea.Cmd {
	return m.dispatch(m.controller.Start)
}

// dispatch runs one controller intent as a command. The pending flag is set
// before the command is issued so the very next render disables the intent
// affordances.
func (m *Model) dispatch(intent func(context.Context) session.View) tea.Cmd {
	m.pending = true
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		return viewMsg(intent(context.Background()))
	})
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case viewMsg:
		m.pending = false
		m.applyView(session.View(msg))

	case spinner.TickMsg:
		if m.pending {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// handleKey routes key presses. While a request is pending only quit and
// scrolling remain live.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)
	case "up", "k":
		m.logViewport.ScrollUp(1)
		return m, nil
	case "down", "j":
		m.logViewport.ScrollDown(1)
		return m, nil
	}

	// Advisor card toggles stay live while pending: expansion is local
	// display state, not a remote intent.
	for i, k := range advisorKeys {
		if key == k {
			m.toggleExpansion(i)
			return m, nil
		}
	}

	if m.pending {
		return m, nil
	}

	switch key {
	case "s":
		if m.view.Phase() == session.PhaseIdle {
			return m, m.dispatch(m.controller.Start)
		}
	case "n", "enter":
		if m.view.Phase() == session.PhaseHandComplete {
			return m, m.dispatch(m.controller.Advance)
		}
	case "r":
		return m, m.dispatch(m.controller.Resync)
	case "R":
		return m, m.dispatch(m.controller.Reset)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if m.view.CanAct() && idx < len(m.view.LegalActions) {
			action := m.view.LegalActions[idx]
			return m, m.dispatch(func(ctx context.Context) session.View {
				return m.controller.Submit(ctx, action.Kind, action.Amount)
			})
		}
	}

	return m, nil
}

// toggleExpansion applies the single-expansion policy: toggling the open
// card closes it, opening another closes the previous.
func (m *Model) toggleExpansion(slot int) {
	if m.expanded == slot {
		m.expanded = NoExpansion
	} else {
		m.expanded = slot
	}
}

// applyView installs a fresh session view and appends log lines for what
// changed.
func (m *Model) applyView(v session.View) {
	prev := m.view
	m.view = v

	if v.Snapshot != nil && v.Snapshot.HandNumber != m.lastHand {
		m.lastHand = v.Snapshot.HandNumber
		m.addLogEntry(fmt.Sprintf("=== Hand #%d ===", v.Snapshot.HandNumber))
	}
	if v.Snapshot != nil {
		from := 0
		if prev.Snapshot != nil && prev.Snapshot.HandNumber == v.Snapshot.HandNumber {
			from = len(prev.Snapshot.History)
		}
		for _, a := range v.Snapshot.History[min(from, len(v.Snapshot.History)):] {
			m.addLogEntry(historyLine(a))
		}
	}
	if v.LastMessage != "" && v.LastMessage != prev.LastMessage {
		m.addLogEntry(v.LastMessage)
	}
}

// addLogEntry appends to the game log and keeps the viewport pinned to the
// newest entry.
func (m *Model) addLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	overlayContent := renderOverlay(m.view.Advice, m.expanded)
	overlayWidth := lipgloss.Width(overlayContent)
	if overlayWidth < 34 {
		overlayWidth = 34
	}

	tableWidth := m.width - overlayWidth - 6
	if tableWidth < 1 {
		tableWidth = 1
	}

	statusContent := m.renderStatus()
	statusHeight := lipgloss.Height(statusContent) + 2

	logHeight := 6
	topHeight := m.height - statusHeight - logHeight - 6
	if topHeight < 1 {
		topHeight = 1
	}

	tablePane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(tableWidth).
		Height(topHeight).
		Render(renderTable(m.view))

	overlayPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(overlayWidth).
		Height(topHeight).
		Render(overlayContent)

	m.logViewport.Width = m.width - 4
	m.logViewport.Height = logHeight

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.width - 4).
		Render(m.logViewport.View())

	statusPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(m.width - 4).
		Render(statusContent)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, tablePane, overlayPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, logPane, statusPane)
}

// renderStatus renders the bottom status line: busy indicator, the last
// engine message and contextual help.
func (m *Model) renderStatus() string {
	var b strings.Builder

	if m.pending || m.view.Busy {
		b.WriteString(m.spin.View() + " Waiting for engine...")
	} else if m.view.LastMessage != "" {
		b.WriteString(m.view.LastMessage)
	}
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(m.helpText()))

	return b.String()
}

// helpText varies with the derived phase
func (m *Model) helpText() string {
	switch m.view.Phase() {
	case session.PhaseIdle:
		return "s start game • q quit"
	case session.PhaseAwaitingUserDecision:
		return "1-9 act • a-f advisor detail • r resync • q quit"
	case session.PhaseHandComplete:
		return "n next hand • R reset • q quit"
	default:
		return "r resync • q quit"
	}
}
