package habitlist

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/logger"
	"github.com/julianstephens/habitvault/internal/models"
	"github.com/julianstephens/habitvault/internal/notifier"
)

// ErrMissingID is returned by Delete when called without a habit id
var ErrMissingID = errors.New("habit id is missing")

// RowMode is the edit state of a single list row
type RowMode int

const (
	Viewing RowMode = iota
	Editing
)

func (m RowMode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// HabitEditor is the subset of the API the editor mutates through
type HabitEditor interface {
	EditHabit(ctx context.Context, id string, in models.HabitInput) (models.Habit, error)
	DeleteHabit(ctx context.Context, id string) (string, error)
}

// LogFunc records today's status for a habit
type LogFunc func(ctx context.Context, id, status string) error

// RefreshFunc re-fetches the habit collection
type RefreshFunc func(ctx context.Context) error

// EditDraft holds the editable fields of a row in edit mode
type EditDraft struct {
	Name       string
	TargetDays string // comma-separated
	StartDate  string // YYYY-MM-DD
}

// Row is a habit prepared for display
type Row struct {
	ID            string
	Name          string
	TargetDays    string
	Status        string
	CurrentStreak int
	LongestStreak int
	Mode          RowMode
}

// Editor drives per-row editing and the delete and log actions of the list
type Editor struct {
	api     HabitEditor
	log     LogFunc
	refresh RefreshFunc
	notify  notifier.Notifier

	mu     sync.Mutex
	modes  map[string]RowMode
	drafts map[string]EditDraft
}

// NewEditor creates an Editor. A nil refresh is treated as a no-op.
func NewEditor(api HabitEditor, log LogFunc, refresh RefreshFunc, notify notifier.Notifier) *Editor {
	if refresh == nil {
		refresh = func(context.Context) error { return nil }
	}
	return &Editor{
		api:     api,
		log:     log,
		refresh: refresh,
		notify:  notify,
		modes:   make(map[string]RowMode),
		drafts:  make(map[string]EditDraft),
	}
}

// BeginEdit snapshots the habit's editable fields and puts its row in edit mode
func (e *Editor) BeginEdit(h models.Habit) EditDraft {
	draft := EditDraft{
		Name:       h.Name,
		TargetDays: strings.Join(h.TargetDays.Days, ","),
		StartDate:  DateInputValue(h.StartDate),
	}
	if !h.TargetDays.IsList {
		draft.TargetDays = h.TargetDays.Token
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.drafts[h.ID] = draft
	e.modes[h.ID] = Editing
	return draft
}

// Draft returns the current draft for a row in edit mode
func (e *Editor) Draft(id string) (EditDraft, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.drafts[id]
	return d, ok
}

// UpdateDraft replaces the draft of a row in edit mode
func (e *Editor) UpdateDraft(id string, d EditDraft) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.modes[id] == Editing {
		e.drafts[id] = d
	}
}

// Mode returns the edit state of a row
func (e *Editor) Mode(id string) RowMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modes[id]
}

// Save sends the draft of a row. The row leaves edit mode only on success.
func (e *Editor) Save(ctx context.Context, id string) error {
	draft, ok := e.Draft(id)
	if !ok {
		return errors.New("habit is not being edited")
	}

	in := models.HabitInput{
		Name:       draft.Name,
		TargetDays: models.Days(SplitTargetDays(draft.TargetDays)...),
		StartDate:  draft.StartDate,
	}
	if _, err := e.api.EditHabit(ctx, id, in); err != nil {
		logger.Error("Error editing habit", "id", id, "error", err)
		e.notify.Error(constants.MsgHabitUpdateFailed)
		return err
	}

	e.notify.Success(constants.MsgHabitUpdated)
	if err := e.refresh(ctx); err != nil {
		logger.Warn("Refresh after edit failed", "error", err)
	}
	e.exitEdit(id)
	return nil
}

// Cancel leaves edit mode and discards the draft
func (e *Editor) Cancel(id string) {
	e.exitEdit(id)
}

func (e *Editor) exitEdit(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.drafts, id)
	delete(e.modes, id)
}

// Delete removes a habit. There is no confirmation step.
func (e *Editor) Delete(ctx context.Context, id string) error {
	if id == "" {
		logger.Error(constants.MsgHabitIDMissing)
		return ErrMissingID
	}

	if _, err := e.api.DeleteHabit(ctx, id); err != nil {
		logger.Error("Error deleting habit", "id", id, "error", err)
		e.notify.Error(constants.MsgHabitDeleteFailed)
		return err
	}

	e.notify.Success(constants.MsgHabitDeleted)
	e.exitEdit(id)
	if err := e.refresh(ctx); err != nil {
		logger.Warn("Refresh after delete failed", "error", err)
	}
	return nil
}

// MarkCompleted logs today as completed, then refreshes
func (e *Editor) MarkCompleted(ctx context.Context, id string) error {
	return e.mark(ctx, id, constants.StatusCompleted)
}

// MarkMissed logs today as missed, then refreshes
func (e *Editor) MarkMissed(ctx context.Context, id string) error {
	return e.mark(ctx, id, constants.StatusMissed)
}

func (e *Editor) mark(ctx context.Context, id, status string) error {
	var logErr error
	if e.log != nil {
		logErr = e.log(ctx, id, status)
	}
	if err := e.refresh(ctx); err != nil {
		logger.Warn("Refresh after log failed", "error", err)
	}
	return logErr
}

// Rows prepares habits for display, carrying each row's edit state
func (e *Editor) Rows(habits []models.Habit) []Row {
	e.mu.Lock()
	defer e.mu.Unlock()

	rows := make([]Row, 0, len(habits))
	for _, h := range habits {
		r := DisplayRow(h)
		r.Mode = e.modes[h.ID]
		rows = append(rows, r)
	}
	return rows
}

// DisplayRow prepares a single habit for display in viewing mode
func DisplayRow(h models.Habit) Row {
	return Row{
		ID:            h.ID,
		Name:          h.Name,
		TargetDays:    TargetDaysDisplay(h.TargetDays),
		Status:        StatusBadge(h.TodayStatus),
		CurrentStreak: StreakValue(h.CurrentStreak),
		LongestStreak: StreakValue(h.LongestStreak),
	}
}
