package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/julianstephens/habitvault/internal/api"
	"github.com/julianstephens/habitvault/internal/dashboard"
	"github.com/julianstephens/habitvault/internal/habitlist"
	"github.com/julianstephens/habitvault/internal/keyring"
	"github.com/julianstephens/habitvault/internal/logger"
	"github.com/julianstephens/habitvault/internal/notifier"
	"github.com/julianstephens/habitvault/internal/storage"
)

type Context struct {
	Ctx     context.Context
	Client  *api.Client
	Session *keyring.Session
	Store   *storage.Store
	Out     io.Writer
}

// OpenStore opens the snapshot database. Failures are logged and leave the
// CLI working without a snapshot.
func (c *Context) OpenStore() bool {
	if c.Store == nil {
		return false
	}
	if err := c.Store.Init(c.Ctx); err != nil {
		logger.Warn("Snapshot store unavailable", "path", c.Store.Path(), "error", err)
		return false
	}
	return true
}

// NewDashboard builds a controller that reports through n and, when the
// snapshot store opens, saves each fetch to it
func (c *Context) NewDashboard(n notifier.Notifier) *dashboard.Controller {
	cfg := dashboard.Config{
		API:      c.Client,
		Tokens:   c.Session,
		Notifier: n,
	}
	if c.OpenStore() {
		cfg.Snapshot = c.Store
	}
	return dashboard.New(cfg)
}

// MountDashboard builds a controller printing to Out and mounts it
func (c *Context) MountDashboard() (*dashboard.Controller, error) {
	ctrl := c.NewDashboard(notifier.NewPrinter(c.Out))
	if err := ctrl.Mount(c.Ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// PrintRows writes habit rows in list form
func (c *Context) PrintRows(rows []habitlist.Row) {
	for _, r := range rows {
		fmt.Fprintf(c.Out, "  %s  %s (ID: %s)\n", r.Status, r.Name, r.ID)
		fmt.Fprintf(c.Out, "      Target: %s · Streak: %d (best %d)\n", r.TargetDays, r.CurrentStreak, r.LongestStreak)
	}
}

func (c *Context) Close() {
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			logger.Warn("Failed to close snapshot store", "error", err)
		}
	}
}
