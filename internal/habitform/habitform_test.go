package habitform

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/models"
)

func TestToggleDay(t *testing.T) {
	d := &Draft{}

	d.ToggleDay("Monday")
	d.ToggleDay("Friday")
	if !d.Selected("Monday") || !d.Selected("Friday") {
		t.Fatalf("CustomDays = %v, want Monday and Friday selected", d.CustomDays)
	}

	d.ToggleDay("Monday")
	if d.Selected("Monday") {
		t.Errorf("Monday still selected after second toggle: %v", d.CustomDays)
	}
	if diff := cmp.Diff([]string{"Friday"}, d.CustomDays); diff != "" {
		t.Errorf("CustomDays mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleDayTwiceRestoresSet(t *testing.T) {
	for _, day := range constants.Weekdays {
		d := &Draft{CustomDays: []string{"Tuesday", "Thursday"}}
		before := append([]string(nil), d.CustomDays...)

		d.ToggleDay(day)
		d.ToggleDay(day)

		got := map[string]bool{}
		for _, x := range d.CustomDays {
			got[x] = true
		}
		want := map[string]bool{}
		for _, x := range before {
			want[x] = true
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("toggling %s twice changed the set (-want +got):\n%s", day, diff)
		}
	}
}

func TestToggleDayDoesNotAliasCaller(t *testing.T) {
	shared := []string{"Monday", "Tuesday", "Wednesday"}
	d := &Draft{CustomDays: shared[:3]}

	d.ToggleDay("Monday")
	if shared[0] != "Monday" {
		t.Errorf("ToggleDay modified the caller's backing array: %v", shared)
	}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  models.HabitInput
	}{
		{
			name:  "custom uses toggled days",
			draft: Draft{Name: "Gym", Cadence: constants.CadenceCustom, CustomDays: []string{"Monday", "Thursday"}, StartDate: "2025-02-01"},
			want:  models.HabitInput{Name: "Gym", TargetDays: models.Days("Monday", "Thursday"), StartDate: "2025-02-01"},
		},
		{
			name:  "every day sends token",
			draft: Draft{Name: "Read", Cadence: constants.CadenceEveryDay, CustomDays: []string{"Monday"}},
			want:  models.HabitInput{Name: "Read", TargetDays: models.Token(constants.CadenceEveryDay)},
		},
		{
			name:  "weekdays sends token",
			draft: Draft{Name: "Walk", Cadence: constants.CadenceWeekdays},
			want:  models.HabitInput{Name: "Walk", TargetDays: models.Token(constants.CadenceWeekdays)},
		},
		{
			name:  "empty custom set is forwarded",
			draft: Draft{Cadence: constants.CadenceCustom},
			want:  models.HabitInput{TargetDays: models.Days()},
		},
		{
			name:  "nothing selected",
			draft: Draft{},
			want:  models.HabitInput{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.draft
			got := d.Submit()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Submit() mismatch (-want +got):\n%s", diff)
			}
			if !d.IsEmpty() {
				t.Errorf("draft not reset after Submit(): %+v", d)
			}
		})
	}
}

func TestCadences(t *testing.T) {
	want := []string{"Every Day", "Weekdays", "Custom"}
	if diff := cmp.Diff(want, Cadences()); diff != "" {
		t.Errorf("Cadences() mismatch (-want +got):\n%s", diff)
	}
}
