package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/julianstephens/habitvault/internal/constants"
	"github.com/julianstephens/habitvault/internal/logger"
	"github.com/julianstephens/habitvault/internal/models"
)

// ErrUnauthorized is matched by errors.Is for any 401 response
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx response from the HabitVault API
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// TokenFunc supplies the bearer token for each request
type TokenFunc func() (string, error)

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	Token   TokenFunc
	// Limiter paces outgoing requests. Defaults to RequestsPerSecond with RequestBurst.
	Limiter *rate.Limiter
}

// Client talks to the HabitVault habits API
type Client struct {
	baseURL    string
	token      TokenFunc
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a Client from cfg
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api base URL cannot be empty")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid api base URL %q: %w", cfg.BaseURL, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(constants.RequestsPerSecond, constants.RequestBurst)
	}

	token := cfg.Token
	if token == nil {
		token = func() (string, error) { return "", nil }
	}

	return &Client{
		baseURL:    base,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}, nil
}

// BaseURL returns the configured API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetHabits fetches the full habit collection
func (c *Client) GetHabits(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.do(ctx, http.MethodGet, constants.APIHabitsPath, nil, &habits); err != nil {
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	return habits, nil
}

// CreateHabit creates a habit; the server assigns its id and streak fields
func (c *Client) CreateHabit(ctx context.Context, in models.HabitInput) (models.Habit, error) {
	var habit models.Habit
	if err := c.do(ctx, http.MethodPost, constants.APIHabitsPath, in, &habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to create habit: %w", err)
	}
	return habit, nil
}

// EditHabit replaces a habit's name, target days and start date
func (c *Client) EditHabit(ctx context.Context, id string, in models.HabitInput) (models.Habit, error) {
	var habit models.Habit
	if err := c.do(ctx, http.MethodPut, habitPath(id), in, &habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to edit habit %s: %w", id, err)
	}
	return habit, nil
}

// LogHabit records today's status for a habit
func (c *Client) LogHabit(ctx context.Context, id, status string) (models.Habit, error) {
	var habit models.Habit
	if err := c.do(ctx, http.MethodPost, habitPath(id)+"/log", models.LogRequest{Status: status}, &habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to log habit %s: %w", id, err)
	}
	return habit, nil
}

// DeleteHabit deletes a habit and its logs, returning the server's confirmation
// message. The confirmation may be a JSON message body or plain text.
func (c *Client) DeleteHabit(ctx context.Context, id string) (string, error) {
	data, err := c.send(ctx, http.MethodDelete, habitPath(id), nil)
	if err != nil {
		return "", fmt.Errorf("failed to delete habit %s: %w", id, err)
	}

	var resp messageBody
	if json.Unmarshal(data, &resp) == nil {
		return resp.text(), nil
	}
	return strings.TrimSpace(string(data)), nil
}

// Ping checks that the API is reachable and accepts the current token
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, constants.APIHabitsPath, nil, nil)
}

func habitPath(id string) string {
	return constants.APIHabitsPath + "/" + url.PathEscape(id)
}

type messageBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (m messageBody) text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	data, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// send performs a request and returns the body of a 2xx response
func (c *Client) send(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(constants.RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.token()
	if err != nil {
		// A token we cannot read is treated as no token; the server decides
		logger.Warn("Failed to read API token", "error", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("API request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	logger.Debug("API request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var msg messageBody
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.text()
		}
		return nil, apiErr
	}
	return data, nil
}
