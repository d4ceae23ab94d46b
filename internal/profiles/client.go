package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/christopherklint97/wellsync/internal/plan"
)

// ErrNotFound is returned when no profile row exists for a user.
var ErrNotFound = errors.New("profile not found")

const profilesPath = "/rest/v1/profiles"

// Client reads and updates user profiles through the backend's REST
// interface.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *ProfileCache
	logger     *slog.Logger

	// MaxRetries is the number of extra attempts on transport errors,
	// 429 and 5xx. Zero means one-shot.
	MaxRetries int
}

func NewClient(baseURL, apiKey string, cacheTTL time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:  NewProfileCache(cacheTTL),
		logger: logger,
	}
}

// Configured reports whether the client has somewhere to talk to.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	c.logger.Debug("profiles API request", "method", method, "path", path)

	var resp *http.Response
	requestStart := time.Now()
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Prefer", "return=minimal")
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if attempt == c.MaxRetries {
				c.logger.Error("profiles request transport error", "method", method, "path", path, "error", err, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("sending request: %w", err)
			}
			c.logger.Debug("profiles request transport error, retrying", "attempt", attempt+1, "error", err)
			if !sleep(ctx, backoff(attempt)) {
				return nil, ctx.Err()
			}
			continue
		}

		if (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500) && attempt < c.MaxRetries {
			resp.Body.Close()
			c.logger.Debug("profiles request retryable error", "status", resp.StatusCode, "attempt", attempt+1)
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

	c.logger.Debug("profiles API response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(requestStart))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
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

func rowPath(userID string) string {
	return profilesPath + "?id=eq." + url.QueryEscape(userID)
}

// Get fetches a user's profile.
func (c *Client) Get(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is empty; set user_id in config or WELLSYNC_USER_ID env var")
	}
	if cached := c.cache.Get(userID); cached != nil {
		return cached, nil
	}

	data, err := c.doRequest(ctx, http.MethodGet, rowPath(userID)+"&select=*", nil)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	var rows []Profile
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing profile response: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	p := rows[0]
	c.cache.Set(p)
	return &p, nil
}

// Update writes the given columns of a user's profile.
func (c *Client) Update(ctx context.Context, userID string, fields map[string]any) error {
	if userID == "" {
		return fmt.Errorf("user ID is empty; set user_id in config or WELLSYNC_USER_ID env var")
	}
	defer c.cache.Invalidate(userID)

	if _, err := c.doRequest(ctx, http.MethodPatch, rowPath(userID), fields); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

// StorePlan saves a freshly generated plan and clears any earlier
// acceptance.
func (c *Client) StorePlan(ctx context.Context, userID string, doc plan.Document) error {
	return c.Update(ctx, userID, map[string]any{
		"current_plan":     doc,
		"plan_accepted_at": nil,
		"updated_at":       time.Now().UTC(),
	})
}

// MarkAccepted stamps the current plan as accepted at t.
func (c *Client) MarkAccepted(ctx context.Context, userID string, t time.Time) error {
	return c.Update(ctx, userID, map[string]any{
		"plan_accepted_at": t.UTC(),
	})
}
