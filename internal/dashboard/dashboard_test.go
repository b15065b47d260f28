package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitvault/internal/api"
	"github.com/julianstephens/habitvault/internal/api/apitest"
	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/models"
	"github.com/julianstephens/habitvault/internal/notifier"
)

type staticTokens struct {
	token     string
	loggedOut bool
}

func (s *staticTokens) Token() (string, error) { return s.token, nil }

func (s *staticTokens) Logout() error {
	s.token = ""
	s.loggedOut = true
	return nil
}

type memorySnapshot struct {
	saved [][]models.Habit
	err   error
}

func (m *memorySnapshot) SaveSnapshot(habits []models.Habit) error {
	m.saved = append(m.saved, habits)
	return m.err
}

type fixture struct {
	srv      *apitest.Server
	tokens   *staticTokens
	rec      *notifier.Recorder
	snapshot *memorySnapshot
	ctrl     *Controller
}

func newFixture(t *testing.T, habits ...models.Habit) *fixture {
	t.Helper()
	f := &fixture{
		srv:      apitest.NewServer(habits...),
		tokens:   &staticTokens{token: "secret"},
		rec:      notifier.NewRecorder(10),
		snapshot: &memorySnapshot{},
	}
	t.Cleanup(f.srv.Close)
	f.srv.Token = "secret"

	client, err := api.New(api.Config{
		BaseURL: f.srv.URL,
		Timeout: 5 * time.Second,
		Token:   f.tokens.Token,
	})
	if err != nil {
		t.Fatalf("api.New() failed: %v", err)
	}

	f.ctrl = New(Config{API: client, Tokens: f.tokens, Notifier: f.rec, Snapshot: f.snapshot})
	return f
}

func (f *fixture) assertInSync(t *testing.T) {
	t.Helper()
	if diff := cmp.Diff(f.srv.Habits(), f.ctrl.Habits()); diff != "" {
		t.Errorf("collection differs from server (-server +controller):\n%s", diff)
	}
}

func TestMount_NoToken(t *testing.T) {
	f := newFixture(t, models.Habit{Name: "Run"})
	f.tokens.token = ""

	err := f.ctrl.Mount(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Mount() error = %v, want ErrUnauthenticated", err)
	}
	if calls := f.srv.Calls(); len(calls) != 0 {
		t.Errorf("Mount() without token made requests: %v", calls)
	}
}

func TestMount_FetchesCollection(t *testing.T) {
	f := newFixture(t, models.Habit{Name: "Run"}, models.Habit{Name: "Read"})

	if err := f.ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() failed: %v", err)
	}
	f.assertInSync(t)
	if len(f.snapshot.saved) != 1 || len(f.snapshot.saved[0]) != 2 {
		t.Errorf("snapshot writes = %v, want one write of two habits", f.snapshot.saved)
	}
}

func TestRefresh_Unauthorized(t *testing.T) {
	f := newFixture(t, models.Habit{Name: "Run"})
	f.srv.Token = "rotated"

	err := f.ctrl.Refresh(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Errorf("Refresh() error = %v, want api.ErrUnauthorized", err)
	}
}

func TestRefresh_KeepsCollectionOnFailure(t *testing.T) {
	f := newFixture(t, models.Habit{Name: "Run"})
	if err := f.ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	f.srv.Fail(http.MethodGet, constants.APIHabitsPath, http.StatusInternalServerError)
	if err := f.ctrl.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() should fail")
	}
	if len(f.ctrl.Habits()) != 1 {
		t.Errorf("collection after failed refresh = %v, want previous collection", f.ctrl.Habits())
	}
}

func TestRefresh_SnapshotFailureIgnored(t *testing.T) {
	f := newFixture(t, models.Habit{Name: "Run"})
	f.snapshot.err = errors.New("disk full")

	if err := f.ctrl.Refresh(context.Background()); err != nil {
		t.Errorf("Refresh() error = %v, want snapshot failure ignored", err)
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	err := f.ctrl.Create(context.Background(), models.HabitInput{Name: "Meditate", TargetDays: models.Token("Every Day")})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	f.assertInSync(t)
	if n, _ := f.rec.Latest(); n.Text != constants.MsgHabitCreated {
		t.Errorf("notification = %q, want %q", n.Text, constants.MsgHabitCreated)
	}
}

func TestCreate_FailureStillRefreshes(t *testing.T) {
	f := newFixture(t, models.Habit{Name: "Run"})
	f.srv.Fail(http.MethodPost, constants.APIHabitsPath, http.StatusBadRequest)

	if err := f.ctrl.Create(context.Background(), models.HabitInput{}); err == nil {
		t.Fatal("Create() should fail")
	}
	if n := f.srv.CountCalls(http.MethodGet, constants.APIHabitsPath); n != 1 {
		t.Errorf("refresh count = %d, want 1", n)
	}
	f.assertInSync(t)
	if n, _ := f.rec.Latest(); n.Level != notifier.LevelError || n.Text != constants.MsgHabitCreateFailed {
		t.Errorf("notification = %+v, want create failure", n)
	}
}

func TestLog(t *testing.T) {
	f := newFixture(t, models.Habit{Name: "Run"})

	if err := f.ctrl.Log(context.Background(), "h1", constants.StatusCompleted); err != nil {
		t.Fatalf("Log() failed: %v", err)
	}
	f.assertInSync(t)

	h, ok := f.ctrl.Find("h1")
	if !ok || h.TodayStatus != constants.StatusCompleted {
		t.Errorf("Find(h1) = %+v, want completed today", h)
	}
}

func TestLog_FailureNotifies(t *testing.T) {
	f := newFixture(t, models.Habit{Name: "Run"})
	f.srv.Fail(http.MethodPost, "/api/habits/h1/log", http.StatusInternalServerError)

	if err := f.ctrl.Log(context.Background(), "h1", constants.StatusMissed); err == nil {
		t.Fatal("Log() should fail")
	}
	if n, _ := f.rec.Latest(); n.Text != constants.MsgHabitLogFailed {
		t.Errorf("notification = %q, want %q", n.Text, constants.MsgHabitLogFailed)
	}
	if n := f.srv.CountCalls(http.MethodGet, constants.APIHabitsPath); n != 1 {
		t.Errorf("refresh count = %d, want 1", n)
	}
}

func TestEditorActionsStayInSync(t *testing.T) {
	f := newFixture(t, models.Habit{Name: "Run", TargetDays: models.Days("Monday")}, models.Habit{Name: "Read"})
	ctx := context.Background()
	if err := f.ctrl.Mount(ctx); err != nil {
		t.Fatalf("Mount() failed: %v", err)
	}
	ed := f.ctrl.Editor()

	h, _ := f.ctrl.Find("h1")
	draft := ed.BeginEdit(h)
	draft.Name = "Run daily"
	ed.UpdateDraft("h1", draft)
	if err := ed.Save(ctx, "h1"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	f.assertInSync(t)

	if err := ed.MarkMissed(ctx, "h2"); err != nil {
		t.Fatalf("MarkMissed() failed: %v", err)
	}
	f.assertInSync(t)

	if err := ed.Delete(ctx, "h2"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	f.assertInSync(t)
}

func TestRows(t *testing.T) {
	f := newFixture(t, models.Habit{
		Name:       "Run",
		TargetDays: models.Days("Monday", "Wednesday"),
		Logs:       []models.HabitLog{{Date: "2025-01-06", Status: "completed"}},
	})
	if err := f.ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	rows := f.ctrl.Rows()
	if len(rows) != 1 {
		t.Fatalf("Rows() returned %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.Display.TargetDays != "Monday, Wednesday" || r.Display.Status != "⏳ Pending" {
		t.Errorf("Display = %+v, want joined days and pending status", r.Display)
	}
	if r.Chart.Completed() != 1 {
		t.Errorf("Chart.Completed() = %d, want 1", r.Chart.Completed())
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t, models.Habit{Name: "Run"})
	if err := f.ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() failed: %v", err)
	}

	if err := f.ctrl.Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if !f.tokens.loggedOut {
		t.Error("Logout() did not clear the token")
	}
	if len(f.ctrl.Habits()) != 0 {
		t.Errorf("collection after logout = %v, want empty", f.ctrl.Habits())
	}
	if !errors.Is(f.ctrl.Mount(context.Background()), ErrUnauthenticated) {
		t.Error("Mount() after logout should be unauthenticated")
	}
}
