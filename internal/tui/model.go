package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/dashboard"
	"github.com/julianstephens/habitvault/internal/notifier"
	"github.com/julianstephens/habitvault/internal/tui/handlers"
	"github.com/julianstephens/habitvault/internal/tui/state"
)

type Model struct {
	state.Model

	toastTTL time.Duration
	toastAt  time.Time // time of the latest notification with an expiry scheduled
}

// NewModel creates the dashboard TUI. notices must be the notifier the
// controller was built with.
func NewModel(ctx context.Context, ctrl *dashboard.Controller, session state.Session, notices *notifier.Recorder, apiURL string) Model {
	m := Model{Model: state.New(ctx, ctrl, session, notices, apiURL), toastTTL: defaultToastTTL}
	// Init runs on a copy, so the initial mount's busy flag is set here
	m.Busy = true
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.Keys.Quit, m.Keys.Help}
	if m.State == constants.StateDashboard {
		keys = append(keys, m.Keys.Refresh, m.Keys.Logout)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.Keys.Quit, m.Keys.Help, m.Keys.Refresh, m.Keys.Logout}
	navigation := []key.Binding{m.Keys.Up, m.Keys.Down}
	return [][]key.Binding{global, navigation}
}

// Init mounts the dashboard; without a token the entry screen is shown
// once the mount reports back.
func (m Model) Init() tea.Cmd {
	return handlers.MountCmd(&m.Model)
}
