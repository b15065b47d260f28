// Package chart turns a habit's logs into a performance series and renders it
// as a compact terminal strip.
package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/models"
)

// Point is one logged day. Value is 1 for completed and 0 otherwise.
type Point struct {
	Date   string
	Status string
	Value  int
}

// Series is a habit's log history ordered by date
type Series struct {
	Points []Point
}

// FromLogs builds a series from a habit's logs. Dates are normalised to
// YYYY-MM-DD where possible and the points are sorted by date, keeping the
// server order for equal dates.
func FromLogs(logs []models.HabitLog) Series {
	points := make([]Point, 0, len(logs))
	for _, l := range logs {
		date := l.Date
		if len(date) >= len(constants.DateFormat) {
			date = date[:len(constants.DateFormat)]
		}
		p := Point{Date: date, Status: l.Status}
		if l.Status == constants.StatusCompleted {
			p.Value = 1
		}
		points = append(points, p)
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return Series{Points: points}
}

// Empty reports whether the series has no points
func (s Series) Empty() bool {
	return len(s.Points) == 0
}

// Completed counts completed points
func (s Series) Completed() int {
	n := 0
	for _, p := range s.Points {
		n += p.Value
	}
	return n
}

// Missed counts points logged as missed
func (s Series) Missed() int {
	n := 0
	for _, p := range s.Points {
		if p.Status == constants.StatusMissed {
			n++
		}
	}
	return n
}

// Rate is the completion percentage over all points, 0 for an empty series
func (s Series) Rate() int {
	if s.Empty() {
		return 0
	}
	return s.Completed() * 100 / len(s.Points)
}

// Tail returns the last n points as a new series
func (s Series) Tail(n int) Series {
	if n <= 0 || n >= len(s.Points) {
		return s
	}
	return Series{Points: s.Points[len(s.Points)-n:]}
}

var (
	completedCell = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missedCell    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	otherCell     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	axisStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Render draws the most recent points that fit in width cells, followed by a
// date range and a summary line. An empty series renders a placeholder.
func Render(s Series, width int) string {
	if s.Empty() {
		return axisStyle.Render("No logs yet")
	}
	if width < 1 {
		width = 1
	}
	visible := s.Tail(width)

	var strip strings.Builder
	for _, p := range visible.Points {
		switch p.Status {
		case constants.StatusCompleted:
			strip.WriteString(completedCell.Render("█"))
		case constants.StatusMissed:
			strip.WriteString(missedCell.Render("░"))
		default:
			strip.WriteString(otherCell.Render("·"))
		}
	}

	first := visible.Points[0].Date
	last := visible.Points[len(visible.Points)-1].Date
	axis := first
	if first != last {
		axis = first + " → " + last
	}

	summary := fmt.Sprintf("%d completed, %d missed (%d%%)", s.Completed(), s.Missed(), s.Rate())

	return lipgloss.JoinVertical(lipgloss.Left,
		strip.String(),
		axisStyle.Render(axis),
		summary,
	)
}
