package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitvault/internal/api"
	"github.com/julianstephens/habitvault/internal/cli"
	"github.com/julianstephens/habitvault/internal/keyring"
	"github.com/julianstephens/habitvault/internal/models"
	"github.com/julianstephens/habitvault/internal/storage"
)

// Snapshots older than this are reported as stale
const staleSnapshotAge = 24 * time.Hour

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	out := ctx.Out
	fmt.Fprintln(out, "Running diagnostics...")
	fmt.Fprintln(out)

	hasError := false
	fail := func(check string, err error) {
		fmt.Fprintf(out, "❌ %s: FAIL\n", check)
		fmt.Fprintf(out, "   Error: %v\n", err)
		hasError = true
	}
	warn := func(check string, err error) {
		fmt.Fprintf(out, "⚠ %s: WARNING\n", check)
		fmt.Fprintf(out, "   %v\n", err)
	}
	ok := func(check string) {
		fmt.Fprintf(out, "✓ %s: OK\n", check)
	}
	skip := func(check, reason string) {
		fmt.Fprintf(out, "⊘ %s: SKIPPED (%s)\n", check, reason)
	}

	// Check 1: Keyring availability (warning only, --token works without it)
	if keyring.IsAvailable() {
		ok("OS keyring")
	} else {
		warn("OS keyring", keyring.ErrKeyringUnavailable)
	}

	// Check 2: Token present
	hasToken := false
	if token, err := ctx.Session.Token(); err != nil {
		fail("API token", err)
	} else if token == "" {
		fail("API token", errors.New("no token stored; run 'habitvault login <token>'"))
	} else {
		ok("API token")
		hasToken = true
	}

	// Check 3: API reachable and token accepted
	var habits []models.Habit
	apiOK := false
	if hasToken {
		var err error
		habits, err = ctx.Client.GetHabits(ctx.Ctx)
		switch {
		case errors.Is(err, api.ErrUnauthorized):
			fail("API reachable", fmt.Errorf("%s rejected the token", ctx.Client.BaseURL()))
		case err != nil:
			fail("API reachable", err)
		default:
			ok("API reachable")
			apiOK = true
		}
	} else {
		skip("API reachable", "no token")
	}

	// Check 4: Custom-day integrity of stored habits
	if apiOK {
		if err := checkCustomDays(habits); err != nil {
			fail("Custom day integrity", err)
		} else {
			ok("Custom day integrity")
		}
	} else {
		skip("Custom day integrity", "API not reachable")
	}

	// Check 5: Snapshot present and fresh (warning only)
	if err := checkSnapshot(ctx); err != nil {
		warn("Habit cache", err)
	} else {
		ok("Habit cache")
	}

	fmt.Fprintln(out)
	if hasError {
		fmt.Fprintln(out, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Fprintln(out, "All diagnostics passed!")
	return nil
}

func checkCustomDays(habits []models.Habit) error {
	var problems []string
	for _, h := range habits {
		if !h.TargetDays.IsList {
			continue
		}
		if err := models.ValidateCustomDays(h.TargetDays.Days); err != nil {
			problems = append(problems, fmt.Sprintf("%s (%s): %v", h.Name, h.ID, err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d habit(s) with invalid custom days: %s", len(problems), strings.Join(problems, "; "))
	}
	return nil
}

func checkSnapshot(ctx *cli.Context) error {
	if ctx.Store == nil {
		return storage.ErrNoSnapshot
	}
	if err := ctx.Store.Load(ctx.Ctx); err != nil {
		return err
	}

	status, err := ctx.Store.SchemaStatus(ctx.Ctx)
	if err != nil {
		return err
	}
	if status.Pending() {
		return fmt.Errorf("cache schema at version %d, expected %d", status.Current, status.Latest)
	}

	snap, err := ctx.Store.LoadSnapshot()
	if err != nil {
		return err
	}
	if age := snap.Age(time.Now()); age > staleSnapshotAge {
		return fmt.Errorf("last fetch was %s ago", age.Round(time.Minute))
	}
	return nil
}
