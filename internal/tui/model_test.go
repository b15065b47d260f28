package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitvault/internal/api"
	"github.com/julianstephens/habitvault/internal/api/apitest"
	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/dashboard"
	"github.com/julianstephens/habitvault/internal/models"
	"github.com/julianstephens/habitvault/internal/notifier"
)

type fakeSession struct {
	token string
}

func (s *fakeSession) Token() (string, error) { return s.token, nil }

func (s *fakeSession) Logout() error {
	s.token = ""
	return nil
}

func (s *fakeSession) Login(token string) error {
	s.token = token
	return nil
}

func newTestModel(t *testing.T, token string, habits ...models.Habit) (Model, *apitest.Server, *fakeSession) {
	t.Helper()
	srv := apitest.NewServer(habits...)
	t.Cleanup(srv.Close)

	session := &fakeSession{token: token}
	client, err := api.New(api.Config{BaseURL: srv.URL, Timeout: 5 * time.Second, Token: session.Token})
	if err != nil {
		t.Fatalf("api.New() failed: %v", err)
	}
	rec := notifier.NewRecorder(5)
	ctrl := dashboard.New(dashboard.Config{API: client, Tokens: session, Notifier: rec})

	m := NewModel(context.Background(), ctrl, session, rec, srv.URL)
	m.toastTTL = 20 * time.Millisecond
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), srv, session
}

// run executes cmd and returns the messages it produced, flattening batches
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func feed(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestInit_WithoutTokenShowsEntry(t *testing.T) {
	m, srv, _ := newTestModel(t, "")

	m = feed(m, run(m.Init())...)
	if m.State != constants.StateEntry {
		t.Errorf("State = %v, want entry", m.State)
	}
	if calls := srv.Calls(); len(calls) != 0 {
		t.Errorf("mount without token made requests: %v", calls)
	}
}

func TestInit_LoadsHabits(t *testing.T) {
	m, _, _ := newTestModel(t, "tok", models.Habit{Name: "Run", TargetDays: models.Days("Monday", "Wednesday")})

	m = feed(m, run(m.Init())...)
	if m.State != constants.StateDashboard || !m.Mounted {
		t.Fatalf("State = %v, Mounted = %v, want mounted dashboard", m.State, m.Mounted)
	}
	view := m.View()
	for _, want := range []string{"Run", "Monday, Wednesday", "Pending"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestInit_UnauthorizedShowsEntry(t *testing.T) {
	m, srv, _ := newTestModel(t, "stale", models.Habit{Name: "Run"})
	srv.Token = "fresh"

	m = feed(m, run(m.Init())...)
	if m.State != constants.StateEntry {
		t.Errorf("State = %v, want entry after 401", m.State)
	}
}

func TestMarkComplete(t *testing.T) {
	m, srv, _ := newTestModel(t, "tok", models.Habit{Name: "Run"})
	m = feed(m, run(m.Init())...)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = updated.(Model)
	for _, msg := range run(cmd) {
		updated, cmd := m.Update(msg)
		m = updated.(Model)
		m = feed(m, run(cmd)...)
	}

	if got := srv.Habits()[0].TodayStatus; got != constants.StatusCompleted {
		t.Errorf("server todayStatus = %q, want completed", got)
	}
	if !strings.Contains(m.View(), "Completed") {
		t.Error("View() should show the completed status after refresh")
	}
}

func TestLogoutReturnsToEntry(t *testing.T) {
	m, _, session := newTestModel(t, "tok", models.Habit{Name: "Run"})
	m = feed(m, run(m.Init())...)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	m = updated.(Model)

	if m.State != constants.StateEntry {
		t.Errorf("State = %v, want entry after logout", m.State)
	}
	if session.token != "" {
		t.Error("logout should clear the token")
	}
	if len(m.Dashboard.Habits()) != 0 {
		t.Error("logout should empty the collection")
	}
}

func TestToastExpires(t *testing.T) {
	m, _, _ := newTestModel(t, "tok", models.Habit{Name: "Run"})
	m = feed(m, run(m.Init())...)

	m.Notices.Success(constants.MsgHabitCreated)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	if !strings.Contains(m.View(), constants.MsgHabitCreated) {
		t.Fatal("View() should show the new toast")
	}

	msgs := run(cmd)
	expired := false
	for _, msg := range msgs {
		if _, ok := msg.(toastExpiredMsg); ok {
			expired = true
		}
	}
	if !expired {
		t.Fatalf("Update() after a notification should schedule an expiry, got %v", msgs)
	}

	m = feed(m, msgs...)
	if strings.Contains(m.View(), constants.MsgHabitCreated) {
		t.Error("View() should drop the toast once it expires")
	}

	// The same notification is not scheduled twice
	if _, cmd := m.Update(toastExpiredMsg{}); cmd != nil {
		t.Error("Update() without a new notification should not schedule an expiry")
	}
}
