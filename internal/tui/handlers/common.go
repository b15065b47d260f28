package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/habitform"
	"github.com/julianstephens/habitvault/internal/tui/state"
)

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// NewHabitForm creates the habit creation form. The custom-day group only
// shows when the Custom cadence is selected.
func NewHabitForm(fm *state.HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Draft.Name),
			huh.NewSelect[string]().
				Title("Target Days").
				Options(huh.NewOptions(habitform.Cadences()...)...).
				Value(&fm.Draft.Cadence),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Custom Days").
				Options(huh.NewOptions(constants.Weekdays...)...).
				Value(&fm.CustomDays),
		).WithHideFunc(func() bool {
			return fm.Draft.Cadence != constants.CadenceCustom
		}),
		huh.NewGroup(
			huh.NewInput().
				Title("Start Date (YYYY-MM-DD)").
				Value(&fm.Draft.StartDate).
				Validate(validateOptionalDate),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewEditHabitForm creates the form for editing a habit in place
func NewEditHabitForm(fm *state.EditFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Draft.Name),
			huh.NewInput().
				Title("Target Days").
				Description("Comma-separated (Monday,Wednesday)").
				Value(&fm.Draft.TargetDays),
			huh.NewInput().
				Title("Start Date (YYYY-MM-DD)").
				Value(&fm.Draft.StartDate).
				Validate(validateOptionalDate),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewEntryForm creates the token entry form shown when not logged in
func NewEntryForm(fm *state.EntryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API Token").
				Description("Paste the token issued by your HabitVault server").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("token cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
