package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitvault"
	DefaultKeyringUser = "api-token"
	DefaultConfigDir   = "~/.config/habitvault"
	DefaultAPIURL      = "http://localhost:5000"
	Version            = "v0.1.0"

	// DateFormat is the date format used by date inputs and the chart axis (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	SnapshotFileName = "snapshot.db"
	LogFileName      = "habitvault.log"

	// API constants
	APIHabitsPath         = "/api/habits"
	DefaultRequestTimeout = 15 * time.Second
	RequestsPerSecond     = 5
	RequestBurst          = 10
	RequestIDHeader       = "X-Request-ID"

	// Today's status values as sent by the server
	StatusCompleted = "completed"
	StatusMissed    = "missed"

	// Status labels
	LabelPending   = "Pending"
	LabelCompleted = "Completed"
	LabelMissed    = "Missed"

	// Cadence tokens
	CadenceEveryDay = "Every Day"
	CadenceWeekdays = "Weekdays"
	CadenceCustom   = "Custom"

	TargetDaysNotSet = "Not set"

	// Notifications
	MsgHabitCreated      = "Habit created successfully!"
	MsgHabitCreateFailed = "Error creating habit."
	MsgHabitUpdated      = "Habit updated successfully!"
	MsgHabitUpdateFailed = "Error editing habit."
	MsgHabitDeleted      = "Habit deleted successfully!"
	MsgHabitDeleteFailed = "Error deleting habit."
	MsgHabitLogged       = "Habit logged successfully!"
	MsgHabitLogFailed    = "Error logging habit."
	MsgHabitFetchFailed  = "Error loading habits."
	MsgLoggedOut         = "Logged out."
	MsgHabitIDMissing    = "Habit ID is missing!"

	// Empty states
	EmptyDashboard = "No habits created yet. Start building your streaks!"
	EmptyList      = "No habits yet. Add a habit to get started!"
)

// Session States
const (
	StateEntry SessionState = iota
	StateDashboard
	StateAddHabit
	StateEditHabit
)

// Weekdays lists the weekday names accepted for a custom cadence, in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
