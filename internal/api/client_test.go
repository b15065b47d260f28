package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitvault/internal/api/apitest"
	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/models"
)

func newTestClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	c, err := New(Config{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Token:   func() (string, error) { return token, nil },
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "valid", baseURL: "http://localhost:5000", wantErr: false},
		{name: "trailing slash", baseURL: "http://localhost:5000/", wantErr: false},
		{name: "empty", baseURL: "  ", wantErr: true},
		{name: "not a url", baseURL: "habits", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{BaseURL: tt.baseURL})
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q) error = %v, wantErr %v", tt.baseURL, err, tt.wantErr)
			}
		})
	}
}

func TestClient_CRUD(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.Token = "secret"

	c := newTestClient(t, srv.URL, "secret")
	ctx := context.Background()

	created, err := c.CreateHabit(ctx, models.HabitInput{
		Name:       "Read",
		TargetDays: models.Days("Monday", "Wednesday"),
		StartDate:  "2025-01-05",
	})
	if err != nil {
		t.Fatalf("CreateHabit() failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateHabit() returned habit without an id")
	}

	habits, err := c.GetHabits(ctx)
	if err != nil {
		t.Fatalf("GetHabits() failed: %v", err)
	}
	if diff := cmp.Diff(srv.Habits(), habits); diff != "" {
		t.Errorf("GetHabits() mismatch (-server +client):\n%s", diff)
	}

	edited, err := c.EditHabit(ctx, created.ID, models.HabitInput{Name: "Read more", TargetDays: models.Token("Every Day")})
	if err != nil {
		t.Fatalf("EditHabit() failed: %v", err)
	}
	if edited.Name != "Read more" || edited.TargetDays.Token != "Every Day" {
		t.Errorf("EditHabit() = %+v, want renamed every-day habit", edited)
	}

	logged, err := c.LogHabit(ctx, created.ID, constants.StatusCompleted)
	if err != nil {
		t.Fatalf("LogHabit() failed: %v", err)
	}
	if logged.TodayStatus != constants.StatusCompleted {
		t.Errorf("LogHabit() todayStatus = %q, want %q", logged.TodayStatus, constants.StatusCompleted)
	}

	msg, err := c.DeleteHabit(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteHabit() failed: %v", err)
	}
	if msg != "Habit deleted" {
		t.Errorf("DeleteHabit() message = %q, want %q", msg, "Habit deleted")
	}
	if len(srv.Habits()) != 0 {
		t.Errorf("server still holds %d habits after delete", len(srv.Habits()))
	}
}

func TestClient_EmptyCollection(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	habits, err := newTestClient(t, srv.URL, "").GetHabits(context.Background())
	if err != nil {
		t.Fatalf("GetHabits() failed: %v", err)
	}
	if habits == nil || len(habits) != 0 {
		t.Errorf("GetHabits() = %#v, want empty non-nil slice", habits)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.Token = "secret"

	_, err := newTestClient(t, srv.URL, "wrong").GetHabits(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("GetHabits() error = %v, want ErrUnauthorized", err)
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "invalid token" {
		t.Errorf("GetHabits() error = %#v, want api.Error with server message", err)
	}
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "message field", status: 400, body: `{"message":"name required"}`, want: "api returned 400: name required"},
		{name: "error field", status: 500, body: `{"error":"db down"}`, want: "api returned 500: db down"},
		{name: "no body", status: 404, body: ``, want: "api returned 404 Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newTestClient(t, srv.URL, "").Ping(context.Background())
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("Ping() error = %v, want *Error", err)
			}
			if apiErr.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", apiErr.Error(), tt.want)
			}
		})
	}
}

func TestClient_DeleteConfirmation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "json message", body: `{"message":"Habit deleted"}`, want: "Habit deleted"},
		{name: "plain text", body: "Habit deleted", want: "Habit deleted"},
		{name: "plain text with newline", body: "Habit deleted\n", want: "Habit deleted"},
		{name: "empty body", body: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			msg, err := newTestClient(t, srv.URL, "").DeleteHabit(context.Background(), "h1")
			if err != nil {
				t.Fatalf("DeleteHabit() failed: %v", err)
			}
			if msg != tt.want {
				t.Errorf("DeleteHabit() message = %q, want %q", msg, tt.want)
			}
		})
	}
}

func TestClient_Headers(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv.URL, "tok").GetHabits(context.Background()); err != nil {
		t.Fatalf("GetHabits() failed: %v", err)
	}

	if got.Get("Authorization") != "Bearer tok" {
		t.Errorf("Authorization = %q, want %q", got.Get("Authorization"), "Bearer tok")
	}
	if got.Get(constants.RequestIDHeader) == "" {
		t.Errorf("%s header missing", constants.RequestIDHeader)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv.URL, "").GetHabits(context.Background()); err != nil {
		t.Fatalf("GetHabits() failed: %v", err)
	}
	if auth != "" {
		t.Errorf("Authorization = %q, want no header", auth)
	}
}

func TestClient_CanceledContext(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestClient(t, srv.URL, "").GetHabits(ctx); err == nil {
		t.Error("GetHabits() with canceled context should fail")
	}
}
