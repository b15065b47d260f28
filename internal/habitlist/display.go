package habitlist

import (
	"strings"
	"time"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/models"
)

// TargetDaysDisplay renders target days for the list view
func TargetDaysDisplay(td models.TargetDays) string {
	if td.IsList {
		return strings.Join(td.Days, ", ")
	}
	if td.Token != "" {
		return td.Token
	}
	return constants.TargetDaysNotSet
}

// StatusLabel maps today's status to its display label
func StatusLabel(status string) string {
	switch status {
	case constants.StatusCompleted:
		return constants.LabelCompleted
	case constants.StatusMissed:
		return constants.LabelMissed
	default:
		return constants.LabelPending
	}
}

// StatusBadge is StatusLabel prefixed with its glyph
func StatusBadge(status string) string {
	switch status {
	case constants.StatusCompleted:
		return "✅ " + constants.LabelCompleted
	case constants.StatusMissed:
		return "❌ " + constants.LabelMissed
	default:
		return "⏳ " + constants.LabelPending
	}
}

// StreakValue returns the streak, treating a missing value as 0
func StreakValue(streak *int) int {
	if streak == nil {
		return 0
	}
	return *streak
}

// DateInputValue converts a server start date to the YYYY-MM-DD form used by
// date inputs. A leading calendar date is kept as sent, so an RFC3339 value
// shows the server's date rather than its UTC equivalent. Other formats
// (RFC1123, as produced by Date.toUTCString) are converted to UTC.
// Unparseable values give "".
func DateInputValue(startDate string) string {
	startDate = strings.TrimSpace(startDate)
	if len(startDate) >= len(constants.DateFormat) {
		prefix := startDate[:len(constants.DateFormat)]
		if _, err := time.Parse(constants.DateFormat, prefix); err == nil {
			return prefix
		}
	}
	for _, layout := range []string{time.RFC1123, time.RFC1123Z} {
		if t, err := time.Parse(layout, startDate); err == nil {
			return t.UTC().Format(constants.DateFormat)
		}
	}
	return ""
}

// SplitTargetDays turns comma-separated edit text into a day list. Elements
// are trimmed but never dropped, so "Monday, " gives ["Monday", ""].
func SplitTargetDays(text string) []string {
	parts := strings.Split(text, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
