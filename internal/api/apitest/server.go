// Package apitest provides an in-memory HabitVault API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/models"
)

// Call is a request the server received
type Call struct {
	Method string
	Path   string
}

// Server is a fake HabitVault API backed by an in-memory collection
type Server struct {
	*httptest.Server

	// Token, when non-empty, must be presented as a bearer token
	Token string
	// PlainTextDelete makes DELETE confirm with a text/plain body
	PlainTextDelete bool

	mu       sync.Mutex
	habits   []models.Habit
	nextID   int
	calls    []Call
	failures map[string]int // "METHOD /path" -> status
	today    string
}

// NewServer starts a fake server seeded with habits
func NewServer(habits ...models.Habit) *Server {
	s := &Server{
		failures: make(map[string]int),
		today:    time.Now().Format(constants.DateFormat),
	}
	for _, h := range habits {
		s.nextID++
		if h.ID == "" {
			h.ID = fmt.Sprintf("h%d", s.nextID)
		}
		s.habits = append(s.habits, h)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Fail makes every request matching method and path answer with status
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Habits returns a copy of the server's current collection
func (s *Server) Habits() []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Habit, len(s.habits))
	copy(out, s.habits)
	return out
}

// Calls returns the requests received so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CountCalls counts received requests with the given method and path
func (s *Server) CountCalls(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// ResetCalls forgets the recorded requests
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path})

	if status, ok := s.failures[r.Method+" "+r.URL.Path]; ok {
		writeJSON(w, status, map[string]string{"message": "injected failure"})
		return
	}

	if s.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, constants.APIHabitsPath)
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, s.habits)
	case rest == "" && r.Method == http.MethodPost:
		s.create(w, r)
	case len(parts) == 1 && parts[0] != "" && r.Method == http.MethodPut:
		s.edit(w, r, parts[0])
	case len(parts) == 1 && parts[0] != "" && r.Method == http.MethodDelete:
		s.remove(w, parts[0])
	case len(parts) == 2 && parts[1] == "log" && r.Method == http.MethodPost:
		s.log(w, r, parts[0])
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in models.HabitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	s.nextID++
	zero := 0
	h := models.Habit{
		ID:            fmt.Sprintf("h%d", s.nextID),
		Name:          in.Name,
		TargetDays:    in.TargetDays,
		StartDate:     in.StartDate,
		CurrentStreak: &zero,
		LongestStreak: &zero,
	}
	s.habits = append(s.habits, h)
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request, id string) {
	i := s.index(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "habit not found"})
		return
	}
	var in models.HabitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	s.habits[i].Name = in.Name
	s.habits[i].TargetDays = in.TargetDays
	s.habits[i].StartDate = in.StartDate
	writeJSON(w, http.StatusOK, s.habits[i])
}

func (s *Server) remove(w http.ResponseWriter, id string) {
	i := s.index(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "habit not found"})
		return
	}
	s.habits = append(s.habits[:i], s.habits[i+1:]...)
	if s.PlainTextDelete {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Habit deleted"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Habit deleted"})
}

func (s *Server) log(w http.ResponseWriter, r *http.Request, id string) {
	i := s.index(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "habit not found"})
		return
	}
	var req models.LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	h := &s.habits[i]
	current, longest := 0, 0
	if h.CurrentStreak != nil {
		current = *h.CurrentStreak
	}
	if h.LongestStreak != nil {
		longest = *h.LongestStreak
	}
	if req.Status == constants.StatusCompleted {
		current++
	} else {
		current = 0
	}
	if current > longest {
		longest = current
	}
	h.CurrentStreak = &current
	h.LongestStreak = &longest
	h.TodayStatus = req.Status
	h.Logs = append(h.Logs, models.HabitLog{Date: s.today, Status: req.Status})
	writeJSON(w, http.StatusOK, *h)
}

func (s *Server) index(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
