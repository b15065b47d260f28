package handlers

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitvault/internal/api"
	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/dashboard"
	"github.com/julianstephens/habitvault/internal/tui/state"
)

// Action identifies the network action an ActionDoneMsg reports on
type Action int

const (
	ActionRefresh Action = iota
	ActionCreate
	ActionEdit
	ActionDelete
	ActionLog
)

// MountedMsg reports the result of mounting the dashboard
type MountedMsg struct {
	Err error
}

// ActionDoneMsg reports a finished network action
type ActionDoneMsg struct {
	Action Action
	ID     string
	Err    error
}

// MountCmd mounts the dashboard in the background
func MountCmd(m *state.Model) tea.Cmd {
	ctx, ctrl := m.Ctx, m.Dashboard
	m.Busy = true
	return func() tea.Msg {
		return MountedMsg{Err: ctrl.Mount(ctx)}
	}
}

func actionCmd(m *state.Model, action Action, id string, fn func() error) tea.Cmd {
	m.Busy = true
	return func() tea.Msg {
		return ActionDoneMsg{Action: action, ID: id, Err: fn()}
	}
}

func isAuthError(err error) bool {
	return errors.Is(err, dashboard.ErrUnauthenticated) || errors.Is(err, api.ErrUnauthorized)
}

// HandleResultMessages applies the outcome of background commands
func HandleResultMessages(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case MountedMsg:
		m.Busy = false
		if isAuthError(msg.Err) {
			return true, EnterEntry(m)
		}
		m.SyncHabits()
		if msg.Err != nil {
			m.StatusError = constants.MsgHabitFetchFailed
			return true, nil
		}
		m.Mounted = true
		m.StatusError = ""
		return true, nil

	case ActionDoneMsg:
		m.Busy = false
		m.SyncHabits()
		if isAuthError(msg.Err) {
			return true, EnterEntry(m)
		}
		if msg.Action == ActionRefresh {
			if msg.Err != nil {
				m.StatusError = constants.MsgHabitFetchFailed
			} else {
				m.StatusError = ""
			}
		}
		// A failed save keeps the row in edit mode, so reopen its form
		if msg.Action == ActionEdit && msg.Err != nil && m.EditForm != nil && m.EditForm.ID == msg.ID {
			m.Form = NewEditHabitForm(m.EditForm)
			m.State = constants.StateEditHabit
			return true, m.Form.Init()
		}
		return true, nil
	}
	return false, nil
}

// EnterEntry switches to the token entry screen
func EnterEntry(m *state.Model) tea.Cmd {
	m.EntryForm = &state.EntryFormModel{}
	m.Form = NewEntryForm(m.EntryForm)
	m.FormError = ""
	m.Mounted = false
	m.State = constants.StateEntry
	return m.Form.Init()
}

// HandleEntryState handles the token entry screen
func HandleEntryState(m *state.Model, msg tea.Msg) tea.Cmd {
	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}

	switch m.Form.State {
	case huh.StateCompleted:
		if err := m.Session.Login(m.EntryForm.Token); err != nil {
			m.FormError = err.Error()
			m.EntryForm.Token = ""
			m.Form = NewEntryForm(m.EntryForm)
			return m.Form.Init()
		}
		m.FormError = ""
		m.State = constants.StateDashboard
		return MountCmd(m)
	case huh.StateAborted:
		m.Quitting = true
		return tea.Quit
	}
	return cmd
}
