package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitvault/internal/constants"
)

// Habit represents a tracked habit as returned by the HabitVault API
type Habit struct {
	ID            string     `json:"_id"`
	Name          string     `json:"name"`
	TargetDays    TargetDays `json:"targetDays"`
	StartDate     string     `json:"startDate,omitempty"` // RFC3339 or YYYY-MM-DD, as sent by the server
	CurrentStreak *int       `json:"currentStreak,omitempty"`
	LongestStreak *int       `json:"longestStreak,omitempty"`
	TodayStatus   string     `json:"todayStatus,omitempty"`
	Logs          []HabitLog `json:"logs,omitempty"`
}

// HabitLog represents a single day's record of a habit
type HabitLog struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// HabitInput is the payload for creating or editing a habit
type HabitInput struct {
	Name       string     `json:"name"`
	TargetDays TargetDays `json:"targetDays"`
	StartDate  string     `json:"startDate"`
}

// LogRequest is the payload for logging today's status of a habit
type LogRequest struct {
	Status string `json:"status"`
}

// TargetDays holds either a cadence token ("Every Day", "Weekdays") or an
// explicit list of weekday names. The zero value is unset.
type TargetDays struct {
	Token  string
	Days   []string
	IsList bool
}

// Token returns a TargetDays holding a cadence token
func Token(token string) TargetDays {
	return TargetDays{Token: token}
}

// Days returns a TargetDays holding an explicit list of days. A nil list is
// kept as an empty list.
func Days(days ...string) TargetDays {
	if days == nil {
		days = []string{}
	}
	return TargetDays{Days: days, IsList: true}
}

// IsSet reports whether the value would be truthy on the wire
func (t TargetDays) IsSet() bool {
	return t.IsList || t.Token != ""
}

func (t TargetDays) MarshalJSON() ([]byte, error) {
	if t.IsList {
		days := t.Days
		if days == nil {
			days = []string{}
		}
		return json.Marshal(days)
	}
	return json.Marshal(t.Token)
}

func (t *TargetDays) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = TargetDays{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '[':
		var days []string
		if err := json.Unmarshal(data, &days); err != nil {
			return fmt.Errorf("parsing targetDays list: %w", err)
		}
		*t = Days(days...)
	case '"':
		var token string
		if err := json.Unmarshal(data, &token); err != nil {
			return fmt.Errorf("parsing targetDays token: %w", err)
		}
		t.Token = token
	default:
		// Numbers and booleans pass through as text unless falsy
		raw := string(data)
		if raw != "false" && raw != "0" {
			t.Token = raw
		}
	}
	return nil
}

// ValidateCustomDays checks that a custom day list is non-empty and holds only
// weekday names, each at most once.
func ValidateCustomDays(days []string) error {
	if len(days) == 0 {
		return fmt.Errorf("custom target days cannot be empty")
	}

	known := make(map[string]bool, len(constants.Weekdays))
	for _, d := range constants.Weekdays {
		known[d] = true
	}

	seen := make(map[string]bool, len(days))
	for _, d := range days {
		if !known[d] {
			return fmt.Errorf("invalid weekday: %s", d)
		}
		if seen[d] {
			return fmt.Errorf("duplicate weekday: %s", d)
		}
		seen[d] = true
	}
	return nil
}
