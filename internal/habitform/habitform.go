package habitform

import (
	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/models"
)

// Cadences returns the selectable cadence options, in display order
func Cadences() []string {
	return []string{constants.CadenceEveryDay, constants.CadenceWeekdays, constants.CadenceCustom}
}

// Draft holds the creation form's fields until submission
type Draft struct {
	Name       string
	Cadence    string
	CustomDays []string
	StartDate  string
}

// ToggleDay adds day to the custom set if absent, or removes it if present
func (d *Draft) ToggleDay(day string) {
	for i, existing := range d.CustomDays {
		if existing == day {
			d.CustomDays = append(d.CustomDays[:i:i], d.CustomDays[i+1:]...)
			return
		}
	}
	d.CustomDays = append(d.CustomDays, day)
}

// Selected reports whether day is currently toggled on
func (d *Draft) Selected(day string) bool {
	for _, existing := range d.CustomDays {
		if existing == day {
			return true
		}
	}
	return false
}

// Submit builds the habit input and resets every field. Nothing is
// validated: an empty name or custom set is forwarded as-is.
func (d *Draft) Submit() models.HabitInput {
	in := models.HabitInput{
		Name:      d.Name,
		StartDate: d.StartDate,
	}
	if d.Cadence == constants.CadenceCustom {
		days := make([]string, len(d.CustomDays))
		copy(days, d.CustomDays)
		in.TargetDays = models.Days(days...)
	} else {
		in.TargetDays = models.Token(d.Cadence)
	}

	d.Reset()
	return in
}

// Reset clears every field
func (d *Draft) Reset() {
	*d = Draft{}
}

// IsEmpty reports whether the draft holds no input
func (d *Draft) IsEmpty() bool {
	return d.Name == "" && d.Cadence == "" && len(d.CustomDays) == 0 && d.StartDate == ""
}
