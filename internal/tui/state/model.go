package state

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/dashboard"
	"github.com/julianstephens/habitvault/internal/habitform"
	"github.com/julianstephens/habitvault/internal/habitlist"
	"github.com/julianstephens/habitvault/internal/notifier"
	"github.com/julianstephens/habitvault/internal/tui/components/habits"
)

// Session stores a token entered on the entry screen
type Session interface {
	Login(token string) error
}

// HabitFormModel backs the creation form. CustomDays is the multi-select
// value; it is applied to Draft on submit.
type HabitFormModel struct {
	Draft      habitform.Draft
	CustomDays []string
}

// EditFormModel backs the edit form of a single habit
type EditFormModel struct {
	ID    string
	Draft habitlist.EditDraft
}

// EntryFormModel backs the token entry form
type EntryFormModel struct {
	Token string
}

// Model represents the shared state for the TUI
type Model struct {
	Ctx         context.Context
	Dashboard   *dashboard.Controller
	Session     Session
	Notices     *notifier.Recorder
	APIURL      string
	State       constants.SessionState
	Keys        KeyMap
	Help        help.Model
	HabitsModel habits.Model
	Form        *huh.Form
	HabitForm   *HabitFormModel
	EditForm    *EditFormModel
	EntryForm   *EntryFormModel
	Busy        bool
	Quitting    bool
	Width       int
	Height      int
	FormError   string // Error message to display for form operations
	StatusError string // Last fetch error shown under the list
	Mounted     bool
}

// New creates a new state Model. The dashboard must share notices as its
// notifier for toasts to show up.
func New(ctx context.Context, ctrl *dashboard.Controller, session Session, notices *notifier.Recorder, apiURL string) Model {
	return Model{
		Ctx:         ctx,
		Dashboard:   ctrl,
		Session:     session,
		Notices:     notices,
		APIURL:      apiURL,
		State:       constants.StateDashboard,
		Keys:        DefaultKeyMap(),
		Help:        help.New(),
		HabitsModel: habits.New(nil, 0, 0),
	}
}

// SyncHabits reloads the list component from the controller
func (m *Model) SyncHabits() {
	m.HabitsModel.SetRows(m.Dashboard.Rows())
}
