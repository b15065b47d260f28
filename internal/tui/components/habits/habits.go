package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/dashboard"
	"github.com/julianstephens/habitvault/internal/habitlist"
)

type AddHabitMsg struct{}

type EditHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type CompleteHabitMsg struct {
	ID string
}

type MissHabitMsg struct {
	ID string
}

type Item struct {
	Row dashboard.Row
}

func (i Item) Title() string {
	title := i.Row.Display.Name + "  " + i.Row.Display.Status
	if i.Row.Display.Mode == habitlist.Editing {
		title = "[EDITING] " + title
	}
	return title
}

func (i Item) Description() string {
	return fmt.Sprintf("Target: %s · Streak: %d (best %d)",
		i.Row.Display.TargetDays, i.Row.Display.CurrentStreak, i.Row.Display.LongestStreak)
}

func (i Item) FilterValue() string { return i.Row.Display.Name }

type KeyMap struct {
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Complete key.Binding
	Miss     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "mark complete"),
		),
		Miss: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark missed"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(rows []dashboard.Row, width, height int) Model {
	l := list.New(toItems(rows), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Miss}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete, keys.Complete, keys.Miss}
	}

	return Model{list: l, keys: keys}
}

func toItems(rows []dashboard.Row) []list.Item {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = Item{Row: r}
	}
	return items
}

func (m *Model) SetRows(rows []dashboard.Row) {
	m.list.SetItems(toItems(rows))
}

// Selected returns the row under the cursor
func (m Model) Selected() (dashboard.Row, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return dashboard.Row{}, false
	}
	return i.Row, true
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if r, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditHabitMsg{ID: r.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if r, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: r.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Complete):
			if r, ok := m.Selected(); ok {
				return m, func() tea.Msg { return CompleteHabitMsg{ID: r.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Miss):
			if r, ok := m.Selected(); ok {
				return m, func() tea.Msg { return MissHabitMsg{ID: r.Habit.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  " + constants.EmptyDashboard + "\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
