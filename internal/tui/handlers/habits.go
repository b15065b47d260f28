package handlers

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/tui/components/habits"
	"github.com/julianstephens/habitvault/internal/tui/state"
)

// HandleAddHabitState handles the add habit state
func HandleAddHabitState(m *state.Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.State = constants.StateDashboard
		return nil
	}

	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}

	switch m.Form.State {
	case huh.StateCompleted:
		fm := m.HabitForm
		if fm.Draft.Cadence == constants.CadenceCustom {
			for _, day := range fm.CustomDays {
				fm.Draft.ToggleDay(day)
			}
		}
		in := fm.Draft.Submit()
		fm.CustomDays = nil
		m.State = constants.StateDashboard

		ctx, ctrl := m.Ctx, m.Dashboard
		return tea.Batch(cmd, actionCmd(m, ActionCreate, "", func() error {
			return ctrl.Create(ctx, in)
		}))
	case huh.StateAborted:
		m.State = constants.StateDashboard
		return nil
	}
	return cmd
}

// HandleEditHabitState handles the edit habit state. Leaving the form
// without submitting cancels the edit.
func HandleEditHabitState(m *state.Model, msg tea.Msg) tea.Cmd {
	editor := m.Dashboard.Editor()
	id := m.EditForm.ID

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		editor.Cancel(id)
		m.EditForm = nil
		m.State = constants.StateDashboard
		m.SyncHabits()
		return nil
	}

	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}

	switch m.Form.State {
	case huh.StateCompleted:
		editor.UpdateDraft(id, m.EditForm.Draft)
		m.State = constants.StateDashboard

		ctx := m.Ctx
		return tea.Batch(cmd, actionCmd(m, ActionEdit, id, func() error {
			return editor.Save(ctx, id)
		}))
	case huh.StateAborted:
		editor.Cancel(id)
		m.EditForm = nil
		m.State = constants.StateDashboard
		m.SyncHabits()
		return nil
	}
	return cmd
}

// HandleHabitMessages handles messages from the habits component
func HandleHabitMessages(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	ctx, ctrl := m.Ctx, m.Dashboard
	editor := ctrl.Editor()

	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.HabitForm = &state.HabitFormModel{}
		m.Form = NewHabitForm(m.HabitForm)
		m.State = constants.StateAddHabit
		return true, m.Form.Init()

	case habits.EditHabitMsg:
		h, ok := ctrl.Find(msg.ID)
		if !ok {
			return true, nil
		}
		m.EditForm = &state.EditFormModel{ID: h.ID, Draft: editor.BeginEdit(h)}
		m.Form = NewEditHabitForm(m.EditForm)
		m.State = constants.StateEditHabit
		m.SyncHabits()
		return true, m.Form.Init()

	case habits.DeleteHabitMsg:
		id := msg.ID
		return true, actionCmd(m, ActionDelete, id, func() error {
			return editor.Delete(ctx, id)
		})

	case habits.CompleteHabitMsg:
		id := msg.ID
		return true, actionCmd(m, ActionLog, id, func() error {
			return editor.MarkCompleted(ctx, id)
		})

	case habits.MissHabitMsg:
		id := msg.ID
		return true, actionCmd(m, ActionLog, id, func() error {
			return editor.MarkMissed(ctx, id)
		})
	}
	return false, nil
}
