package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitvault/internal/chart"
	"github.com/julianstephens/habitvault/internal/cli"
	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/habitform"
	"github.com/julianstephens/habitvault/internal/habitlist"
	"github.com/julianstephens/habitvault/internal/storage"
)

type HabitCmd struct {
	List   HabitListCmd   `cmd:"" help:"List habits with today's status."`
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit's name, target days or start date."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its logs."`
	Log    HabitLogCmd    `cmd:"" help:"Log today's status for a habit."`
	Chart  HabitChartCmd  `cmd:"" help:"Show a habit's performance chart."`
}

type HabitListCmd struct {
	Cached bool `help:"Show the last fetched habits without contacting the API."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if c.Cached {
		return c.runCached(ctx)
	}

	ctrl, err := ctx.MountDashboard()
	if err != nil {
		return err
	}

	rows := ctrl.Editor().Rows(ctrl.Habits())
	if len(rows) == 0 {
		fmt.Fprintln(ctx.Out, constants.EmptyList)
		return nil
	}
	fmt.Fprintln(ctx.Out, "Habits:")
	ctx.PrintRows(rows)
	return nil
}

func (c *HabitListCmd) runCached(ctx *cli.Context) error {
	if ctx.Store == nil {
		return storage.ErrNoSnapshot
	}
	if err := ctx.Store.Load(ctx.Ctx); err != nil {
		return err
	}
	snap, err := ctx.Store.LoadSnapshot()
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Cached %s ago from %s\n", snap.Age(time.Now()).Round(time.Second), snap.APIURL)
	if len(snap.Habits) == 0 {
		fmt.Fprintln(ctx.Out, constants.EmptyList)
		return nil
	}
	rows := make([]habitlist.Row, len(snap.Habits))
	for i, h := range snap.Habits {
		rows[i] = habitlist.DisplayRow(h)
	}
	ctx.PrintRows(rows)
	return nil
}

type HabitAddCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Days  string `help:"'Every Day', 'Weekdays', or comma-separated weekdays (Monday,Thursday)." default:"Every Day"`
	Start string `help:"Start date (YYYY-MM-DD)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if c.Start != "" {
		if _, err := time.Parse(constants.DateFormat, c.Start); err != nil {
			return fmt.Errorf("invalid start date %q, use YYYY-MM-DD", c.Start)
		}
	}

	draft := habitform.Draft{Name: c.Name, StartDate: c.Start}
	switch days := strings.TrimSpace(c.Days); days {
	case constants.CadenceEveryDay, constants.CadenceWeekdays:
		draft.Cadence = days
	default:
		draft.Cadence = constants.CadenceCustom
		for _, day := range habitlist.SplitTargetDays(days) {
			if day != "" && !draft.Selected(day) {
				draft.ToggleDay(day)
			}
		}
	}

	ctrl, err := ctx.MountDashboard()
	if err != nil {
		return err
	}
	return ctrl.Create(ctx.Ctx, draft.Submit())
}

type HabitEditCmd struct {
	ID    string  `arg:"" help:"Habit ID."`
	Name  *string `help:"New name."`
	Days  *string `help:"New target days, comma-separated."`
	Start *string `help:"New start date (YYYY-MM-DD)."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.MountDashboard()
	if err != nil {
		return err
	}

	h, ok := ctrl.Find(c.ID)
	if !ok {
		return fmt.Errorf("habit %s not found", c.ID)
	}

	editor := ctrl.Editor()
	draft := editor.BeginEdit(h)
	if c.Name != nil {
		draft.Name = *c.Name
	}
	if c.Days != nil {
		draft.TargetDays = *c.Days
	}
	if c.Start != nil {
		draft.StartDate = *c.Start
	}
	editor.UpdateDraft(h.ID, draft)

	return editor.Save(ctx.Ctx, h.ID)
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.MountDashboard()
	if err != nil {
		return err
	}
	return ctrl.Editor().Delete(ctx.Ctx, c.ID)
}

type HabitLogCmd struct {
	ID     string `arg:"" help:"Habit ID."`
	Status string `help:"Today's status." enum:"completed,missed" default:"completed"`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.MountDashboard()
	if err != nil {
		return err
	}

	editor := ctrl.Editor()
	if c.Status == constants.StatusMissed {
		err = editor.MarkMissed(ctx.Ctx, c.ID)
	} else {
		err = editor.MarkCompleted(ctx.Ctx, c.ID)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, "✓ "+constants.MsgHabitLogged)
	if h, ok := ctrl.Find(c.ID); ok {
		fmt.Fprintf(ctx.Out, "  %s  %s · Streak: %d (best %d)\n", habitlist.StatusBadge(h.TodayStatus), h.Name,
			habitlist.StreakValue(h.CurrentStreak), habitlist.StreakValue(h.LongestStreak))
	}
	return nil
}

type HabitChartCmd struct {
	ID    string `arg:"" help:"Habit ID."`
	Width int    `help:"Maximum number of days shown." default:"60"`
}

func (c *HabitChartCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.MountDashboard()
	if err != nil {
		return err
	}

	h, ok := ctrl.Find(c.ID)
	if !ok {
		return fmt.Errorf("habit %s not found", c.ID)
	}

	fmt.Fprintln(ctx.Out, h.Name)
	fmt.Fprintln(ctx.Out, chart.Render(chart.FromLogs(h.Logs), c.Width))
	return nil
}
