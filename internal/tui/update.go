package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/tui/handlers"
)

// Space reserved above and below the list: header, chart, toast and help
const chromeHeight = 12

// toastExpiredMsg forces a render once a toast has timed out
type toastExpiredMsg struct{}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	tick := next.scheduleToastExpiry()
	return next, tea.Batch(cmd, tick)
}

// scheduleToastExpiry returns a tick for a notification recorded since the
// last call, or nil
func (m *Model) scheduleToastExpiry() tea.Cmd {
	if m.Notices == nil {
		return nil
	}
	n, ok := m.Notices.Latest()
	if !ok || !n.At.After(m.toastAt) {
		return nil
	}
	m.toastAt = n.At
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case toastExpiredMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		height := msg.Height - chromeHeight
		if height < 3 {
			height = 3
		}
		m.HabitsModel.SetSize(msg.Width-4, height)
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := handlers.HandleGlobalKeys(&m.Model, msg); handled {
			return m, cmd
		}
	}

	if handled, cmd := handlers.HandleResultMessages(&m.Model, msg); handled {
		return m, cmd
	}

	switch m.State {
	case constants.StateEntry:
		return m, handlers.HandleEntryState(&m.Model, msg)
	case constants.StateAddHabit:
		return m, handlers.HandleAddHabitState(&m.Model, msg)
	case constants.StateEditHabit:
		return m, handlers.HandleEditHabitState(&m.Model, msg)
	}

	if handled, cmd := handlers.HandleHabitMessages(&m.Model, msg); handled {
		return m, cmd
	}

	var cmd tea.Cmd
	m.HabitsModel, cmd = m.HabitsModel.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
