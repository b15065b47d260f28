// Package dashboard owns the fetched habit collection and the actions that
// mutate it. Every mutation is followed by a full re-fetch.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/habitvault/internal/chart"
	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/habitlist"
	"github.com/julianstephens/habitvault/internal/logger"
	"github.com/julianstephens/habitvault/internal/models"
	"github.com/julianstephens/habitvault/internal/notifier"
)

// ErrUnauthenticated is returned by Mount when no token is available
var ErrUnauthenticated = errors.New("not logged in")

// TokenSource yields the current API token
type TokenSource interface {
	Token() (string, error)
	Logout() error
}

// HabitService is the remote habit API
type HabitService interface {
	habitlist.HabitEditor
	GetHabits(ctx context.Context) ([]models.Habit, error)
	CreateHabit(ctx context.Context, in models.HabitInput) (models.Habit, error)
	LogHabit(ctx context.Context, id, status string) (models.Habit, error)
}

// SnapshotWriter persists the last fetched collection
type SnapshotWriter interface {
	SaveSnapshot(habits []models.Habit) error
}

// Config holds the controller's collaborators. Snapshot is optional.
type Config struct {
	API      HabitService
	Tokens   TokenSource
	Notifier notifier.Notifier
	Snapshot SnapshotWriter
}

// Row is one habit on the dashboard together with its chart series and
// list row
type Row struct {
	Habit   models.Habit
	Chart   chart.Series
	Display habitlist.Row
}

type Controller struct {
	api      HabitService
	tokens   TokenSource
	notify   notifier.Notifier
	snapshot SnapshotWriter
	editor   *habitlist.Editor

	mu     sync.Mutex
	habits []models.Habit
}

func New(cfg Config) *Controller {
	c := &Controller{
		api:      cfg.API,
		tokens:   cfg.Tokens,
		notify:   cfg.Notifier,
		snapshot: cfg.Snapshot,
		habits:   []models.Habit{},
	}
	c.editor = habitlist.NewEditor(cfg.API, c.Log, c.Refresh, cfg.Notifier)
	return c
}

// Mount fetches the collection, or returns ErrUnauthenticated without any
// request when there is no token.
func (c *Controller) Mount(ctx context.Context) error {
	token, err := c.tokens.Token()
	if err != nil {
		logger.Warn("Failed to read token", "error", err)
	}
	if token == "" {
		return ErrUnauthenticated
	}
	return c.Refresh(ctx)
}

// Refresh replaces the collection with the server's. The previous collection
// is kept when the fetch fails.
func (c *Controller) Refresh(ctx context.Context) error {
	habits, err := c.api.GetHabits(ctx)
	if err != nil {
		logger.Error("Error fetching habits", "error", err)
		return err
	}

	c.mu.Lock()
	c.habits = habits
	c.mu.Unlock()

	if c.snapshot != nil {
		if err := c.snapshot.SaveSnapshot(habits); err != nil {
			logger.Warn("Failed to save habit snapshot", "error", err)
		}
	}
	return nil
}

// Create creates a habit and then refreshes, whether or not creation succeeded
func (c *Controller) Create(ctx context.Context, in models.HabitInput) error {
	_, createErr := c.api.CreateHabit(ctx, in)
	if createErr != nil {
		logger.Error("Error creating habit", "error", createErr)
		c.notify.Error(constants.MsgHabitCreateFailed)
	} else {
		c.notify.Success(constants.MsgHabitCreated)
	}

	refreshErr := c.Refresh(ctx)
	if createErr != nil {
		return createErr
	}
	return refreshErr
}

// Log records today's status for a habit and then refreshes, whether or not
// logging succeeded
func (c *Controller) Log(ctx context.Context, id, status string) error {
	_, logErr := c.api.LogHabit(ctx, id, status)
	if logErr != nil {
		logger.Error("Error logging habit", "id", id, "status", status, "error", logErr)
		c.notify.Error(constants.MsgHabitLogFailed)
	}

	refreshErr := c.Refresh(ctx)
	if logErr != nil {
		return logErr
	}
	return refreshErr
}

// Habits returns a copy of the current collection
func (c *Controller) Habits() []models.Habit {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Habit, len(c.habits))
	copy(out, c.habits)
	return out
}

// Find returns the habit with the given id from the current collection
func (c *Controller) Find(id string) (models.Habit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range c.habits {
		if h.ID == id {
			return h, true
		}
	}
	return models.Habit{}, false
}

// Rows composes the dashboard rows for the current collection
func (c *Controller) Rows() []Row {
	habits := c.Habits()
	display := c.editor.Rows(habits)

	rows := make([]Row, len(habits))
	for i, h := range habits {
		rows[i] = Row{
			Habit:   h,
			Chart:   chart.FromLogs(h.Logs),
			Display: display[i],
		}
	}
	return rows
}

// Editor returns the list editor bound to this controller
func (c *Controller) Editor() *habitlist.Editor {
	return c.editor
}

// Logout forgets the token and empties the collection
func (c *Controller) Logout() error {
	if err := c.tokens.Logout(); err != nil {
		return err
	}

	c.mu.Lock()
	c.habits = []models.Habit{}
	c.mu.Unlock()

	c.notify.Success(constants.MsgLoggedOut)
	return nil
}
