package wellness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/christopherklint97/wellsync/internal/plan"
)

const (
	defaultBaseURL = "http://127.0.0.1:5000"
	defaultReply   = "I'm here to help!"
)

// Client talks to the plan generation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// MaxRetries is the number of extra attempts on transport errors,
	// 429 and 5xx. Zero means one-shot.
	MaxRetries int
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	c.logger.Debug("wellness API request", "method", method, "path", path, "bytes", len(body))

	var resp *http.Response
	requestStart := time.Now()
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if attempt == c.MaxRetries {
				c.logger.Error("wellness request transport error", "method", method, "path", path, "error", err, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("sending request: %w", err)
			}
			c.logger.Debug("wellness request transport error, retrying", "attempt", attempt+1, "error", err)
			if !sleep(ctx, backoff(attempt)) {
				return nil, ctx.Err()
			}
			continue
		}

		if (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500) && attempt < c.MaxRetries {
			resp.Body.Close()
			c.logger.Debug("wellness request retryable error", "status", resp.StatusCode, "attempt", attempt+1)
			if !sleep(ctx, backoff(attempt)) {
				return nil, ctx.Err()
			}
			continue
		}
		break
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("wellness API response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(requestStart))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("wellness request failed", "method", method, "path", path, "status", resp.StatusCode, "response", truncate(string(respBody), 200))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
	}
	return respBody, nil
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Generate asks the service for a new plan.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (plan.Document, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "user_profile", req)
	if err == nil {
		body, err = sjson.SetBytes(body, "constraints", req.Constraints)
	}
	if err == nil {
		body, err = sjson.SetBytes(body, "goals", req.Goals)
	}
	if err != nil {
		return nil, fmt.Errorf("building plan request: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/wellness-plan", body)
	if err != nil {
		return nil, fmt.Errorf("generating plan: %w", err)
	}

	doc := plan.FromBytes(data)
	if !doc.Valid() {
		return nil, fmt.Errorf("generating plan: response is not a JSON object")
	}
	return doc, nil
}

// Health reports whether the service answers its health check.
func (c *Client) Health(ctx context.Context) bool {
	_, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		c.logger.Debug("health check failed", "error", err)
		return false
	}
	return true
}

// Simulate generates a plan for a canned scenario profile.
func (c *Client) Simulate(ctx context.Context, sc Scenario) (plan.Document, error) {
	req, err := ScenarioRequest(sc, time.Now())
	if err != nil {
		return nil, err
	}
	return c.Generate(ctx, req)
}

// Chat sends a message to the coaching endpoint and returns the reply.
// Earlier turns are folded into the message as a transcript.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "message", chatPrompt(req))
	if err == nil {
		body, err = sjson.SetBytes(body, "user_id", req.UserID)
	}
	if err == nil {
		body, err = sjson.SetBytes(body, "context", req.Context)
	}
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/chat", body)
	if err != nil {
		return "", fmt.Errorf("sending chat: %w", err)
	}

	for _, key := range []string{"response", "message"} {
		if v := gjson.GetBytes(data, key); v.Type == gjson.String && v.Str != "" {
			return v.Str, nil
		}
	}
	return defaultReply, nil
}

func chatPrompt(req ChatRequest) string {
	if len(req.History) == 0 {
		return req.Message
	}
	var sb strings.Builder
	sb.WriteString("Previous conversation:\n")
	for _, turn := range req.History {
		who := "Coach"
		if turn.FromUser {
			who = "User"
		}
		sb.WriteString(who + ": " + turn.Text + "\n")
	}
	sb.WriteString("User: " + req.Message)
	return sb.String()
}

// SubmitFeedback records the user's verdict on a plan.
func (c *Client) SubmitFeedback(ctx context.Context, stateID string, fb Feedback) error {
	if stateID == "" {
		return fmt.Errorf("submitting feedback: plan has no state ID")
	}
	if fb.Timestamp.IsZero() {
		fb.Timestamp = time.Now().UTC()
	}
	body, err := sjson.SetBytes([]byte(`{}`), "feedback", fb)
	if err != nil {
		return fmt.Errorf("building feedback request: %w", err)
	}
	path := "/wellness-plan/" + url.PathEscape(stateID) + "/feedback"
	if _, err := c.doRequest(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("submitting feedback: %w", err)
	}
	return nil
}

// GetProgress fetches the completed-task identifiers the server holds.
func (c *Client) GetProgress(ctx context.Context, userID string) ([]string, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/plan/progress?user_id="+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting progress: %w", err)
	}
	tasks := []string{}
	gjson.GetBytes(data, "completed_tasks").ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			tasks = append(tasks, v.Str)
		}
		return true
	})
	return tasks, nil
}

// SyncProgress replaces the server's completed-task set.
func (c *Client) SyncProgress(ctx context.Context, userID string, tasks []string) error {
	if tasks == nil {
		tasks = []string{}
	}
	body, err := sjson.SetBytes([]byte(`{}`), "user_id", userID)
	if err == nil {
		body, err = sjson.SetBytes(body, "completed_tasks", tasks)
	}
	if err != nil {
		return fmt.Errorf("building progress request: %w", err)
	}
	if _, err := c.doRequest(ctx, http.MethodPost, "/plan/progress", body); err != nil {
		return fmt.Errorf("syncing progress: %w", err)
	}
	return nil
}

// StateID returns the identifier the service uses for feedback on doc.
func StateID(doc plan.Document) string {
	for _, key := range []string{"state_id", "plan_id"} {
		if v := doc.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
