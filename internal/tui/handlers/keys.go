package handlers

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/logger"
	"github.com/julianstephens/habitvault/internal/tui/state"
)

// HandleGlobalKeys handles key presses outside of forms
func HandleGlobalKeys(m *state.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return true, tea.Quit
	}

	// Everything else belongs to the form while one is open
	if m.State != constants.StateDashboard || m.HabitsModel.Filtering() {
		return false, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		return true, nil
	case key.Matches(msg, m.Keys.Refresh):
		ctx, ctrl := m.Ctx, m.Dashboard
		return true, actionCmd(m, ActionRefresh, "", func() error {
			return ctrl.Refresh(ctx)
		})
	case key.Matches(msg, m.Keys.Logout):
		if err := m.Dashboard.Logout(); err != nil {
			logger.Error("Logout failed", "error", err)
			m.StatusError = err.Error()
			return true, nil
		}
		m.SyncHabits()
		return true, EnterEntry(m)
	}
	return false, nil
}
