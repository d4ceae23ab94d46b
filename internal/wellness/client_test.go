package wellness

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/christopherklint97/wellsync/internal/plan"
	"github.com/christopherklint97/wellsync/internal/profiles"
)

func readBody(t *testing.T, r *http.Request) gjson.Result {
	t.Helper()
	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(b), "request body is not JSON: %s", b)
	return gjson.ParseBytes(b)
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wellness-plan", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body := readBody(t, r)
		assert.Equal(t, "u1", body.Get("user_profile.user_id").String())
		assert.Equal(t, "beginner", body.Get("user_profile.fitness_level").String())
		assert.Equal(t, "knee", body.Get("constraints.injury").String())
		assert.Equal(t, "strength", body.Get("goals.fitness").String())

		io.WriteString(w, `{"state_id":"s-1","unified_plan":{"sleep":{"bedtime":"11:00 PM"}}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	doc, err := c.Generate(context.Background(), GenerateRequest{
		UserID:       "u1",
		FitnessLevel: "beginner",
		Goals:        map[string]any{"fitness": "strength"},
		Constraints:  map[string]any{"injury": "knee"},
	})
	require.NoError(t, err)

	assert.Equal(t, "s-1", StateID(doc))
	assert.Equal(t, "11:00 PM", plan.ExtractSleep(doc).Bedtime)
}

func TestGenerateRejectsNonObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `"queued"`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.Generate(context.Background(), GenerateRequest{UserID: "u1"})
	assert.Error(t, err)
}

func TestGenerateIsOneShot(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "agents offline", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.Generate(context.Background(), GenerateRequest{UserID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, int32(1), hits.Load())
}

func TestHealth(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"status":"healthy"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	assert.True(t, c.Health(context.Background()))
	healthy.Store(false)
	assert.False(t, c.Health(context.Background()))
}

func TestSimulateMergesScenario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := readBody(t, r)
		assert.Equal(t, "Demo User", body.Get("user_profile.name").String())
		assert.Equal(t, "beginner", body.Get("user_profile.fitness_level").String())
		assert.Equal(t, "Movement", body.Get("goals.fitness").String())
		assert.Equal(t, "Energy", body.Get("goals.nutrition").String())
		assert.Equal(t, int64(7), body.Get("constraints.current_sleep").Int())
		io.WriteString(w, `{"plan_id":"p-7"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	doc, err := c.Simulate(context.Background(), ScenarioLowEnergy)
	require.NoError(t, err)
	assert.Equal(t, "p-7", StateID(doc))
}

func TestScenarioRequestKeepsDemoGoals(t *testing.T) {
	req, err := ScenarioRequest(ScenarioBusy, time.UnixMilli(42))
	require.NoError(t, err)
	assert.Equal(t, "sim_42", req.UserID)
	assert.Equal(t, "Efficiency", req.Goals["fitness"])
	assert.Equal(t, "Power Nap", req.Goals["sleep"])
	assert.Equal(t, "20 minutes", req.Constraints["time_available"])

	// Scenario maps are not shared with the request.
	req.Goals["fitness"] = "changed"
	again, err := ScenarioRequest(ScenarioBusy, time.UnixMilli(42))
	require.NoError(t, err)
	assert.Equal(t, "Efficiency", again.Goals["fitness"])
}

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario(" Sleep_Deprived ")
	require.NoError(t, err)
	assert.Equal(t, ScenarioSleepDeprived, sc)

	_, err = ParseScenario("hungover")
	assert.Error(t, err)
}

func TestChat(t *testing.T) {
	tests := map[string]struct {
		reply string
		want  string
	}{
		"response key": {`{"response":"Drink water."}`, "Drink water."},
		"message key":  {`{"message":"Sleep earlier."}`, "Sleep earlier."},
		"neither":      {`{}`, defaultReply},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/chat", r.URL.Path)
				body := readBody(t, r)
				assert.Equal(t, "u1", body.Get("user_id").String())
				assert.Equal(t, "dashboard", body.Get("context").String())
				io.WriteString(w, tt.reply)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, time.Second, nil)
			got, err := c.Chat(context.Background(), ChatRequest{Message: "hi", UserID: "u1", Context: "dashboard"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChatPromptIncludesHistory(t *testing.T) {
	got := chatPrompt(ChatRequest{
		Message: "and tomorrow?",
		History: []ChatTurn{{FromUser: true, Text: "what should I eat?"}, {Text: "Oats."}},
	})
	assert.Equal(t, "Previous conversation:\nUser: what should I eat?\nCoach: Oats.\nUser: and tomorrow?", got)
	assert.Equal(t, "plain", chatPrompt(ChatRequest{Message: "plain"}))
}

func TestSubmitFeedback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wellness-plan/s-1/feedback", r.URL.Path)
		body := readBody(t, r)
		assert.True(t, body.Get("feedback.accepted").Bool())
		assert.Equal(t, int64(5), body.Get("feedback.rating").Int())
		assert.Equal(t, "User accepted", body.Get("feedback.comments").String())
		assert.NotEmpty(t, body.Get("feedback.timestamp").String())
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	require.NoError(t, c.SubmitFeedback(context.Background(), "s-1", Feedback{Accepted: true, Rating: 5, Comments: "User accepted"}))
	assert.Error(t, c.SubmitFeedback(context.Background(), "", Feedback{}))
}

func TestProgressRoundTrip(t *testing.T) {
	var stored []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/plan/progress", r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			body := readBody(t, r)
			assert.Equal(t, "u1", body.Get("user_id").String())
			stored = nil
			for _, v := range body.Get("completed_tasks").Array() {
				stored = append(stored, v.String())
			}
		case http.MethodGet:
			assert.Equal(t, "u1", r.URL.Query().Get("user_id"))
			json.NewEncoder(w).Encode(map[string]any{"completed_tasks": stored})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	ctx := context.Background()
	require.NoError(t, c.SyncProgress(ctx, "u1", []string{"6:30 AM-Wake up", "1:00 PM-Lunch"}))

	got, err := c.GetProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"6:30 AM-Wake up", "1:00 PM-Lunch"}, got)
}

func TestGetProgressMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, time.Second, nil).GetProgress(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFromProfile(t *testing.T) {
	req := FromProfile(&profiles.Profile{ID: "u1", FullName: "Asha"})
	assert.Equal(t, "intermediate", req.FitnessLevel)
	assert.NotNil(t, req.Goals)
	assert.NotNil(t, req.Constraints)
}

func TestStateID(t *testing.T) {
	assert.Equal(t, "a", StateID(plan.Document(`{"state_id":"a","plan_id":"b"}`)))
	assert.Equal(t, "b", StateID(plan.Document(`{"plan_id":"b"}`)))
	assert.Equal(t, "", StateID(nil))
}
