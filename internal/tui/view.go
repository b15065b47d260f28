package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitvault/internal/chart"
	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/notifier"
)

// How long a toast stays on screen
const defaultToastTTL = 4 * time.Second

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var content string
	switch m.State {
	case constants.StateEntry:
		content = m.viewEntry()
	case constants.StateAddHabit, constants.StateEditHabit:
		content = docStyle.Render(m.Form.View())
	default:
		content = m.viewDashboard()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewToast(),
		m.Help.View(m),
	)
}

func (m Model) viewHeader() string {
	header := titleStyle.Render("HabitVault")
	if m.APIURL != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, subtleStyle.Render("  "+m.APIURL))
	}
	if m.Busy {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, warningStyle.Render("  loading…"))
	}
	return header
}

func (m Model) viewEntry() string {
	parts := []string{
		"Log in to see your habits.",
		"",
		m.Form.View(),
	}
	if m.FormError != "" {
		parts = append(parts, dangerStyle.Render(m.FormError))
	}
	return lipgloss.Place(m.Width, m.Height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m Model) viewDashboard() string {
	sections := []string{m.HabitsModel.View()}

	if row, ok := m.HabitsModel.Selected(); ok {
		width := m.Width - 10
		if width < 10 {
			width = 30
		}
		sections = append(sections, chartStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				row.Habit.Name,
				chart.Render(row.Chart, width),
			),
		))
	}

	if m.StatusError != "" {
		sections = append(sections, dangerStyle.Render(m.StatusError))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) viewToast() string {
	if m.Notices == nil {
		return ""
	}
	n, ok := m.Notices.Latest()
	if !ok || time.Since(n.At) > m.toastTTL {
		return ""
	}
	if n.Level == notifier.LevelError {
		return dangerStyle.Render("✗ " + n.Text)
	}
	return successStyle.Render("✓ " + n.Text)
}
