package wellness

import (
	"time"

	"github.com/christopherklint97/wellsync/internal/profiles"
)

// GenerateRequest is the user profile the plan service builds a plan for.
type GenerateRequest struct {
	UserID       string         `json:"user_id"`
	Name         string         `json:"name,omitempty"`
	Age          int            `json:"age,omitempty"`
	Weight       float64        `json:"weight,omitempty"`
	Height       float64        `json:"height,omitempty"`
	FitnessLevel string         `json:"fitness_level"`
	Goals        map[string]any `json:"goals"`
	Constraints  map[string]any `json:"constraints"`
}

// FromProfile builds a generation request from a stored profile.
func FromProfile(p *profiles.Profile) GenerateRequest {
	req := GenerateRequest{
		UserID:       p.ID,
		Name:         p.FullName,
		Age:          p.Age,
		Weight:       p.Weight,
		Height:       p.Height,
		FitnessLevel: p.FitnessLevelOrDefault(),
		Goals:        p.Goals,
		Constraints:  p.Constraints,
	}
	if req.Goals == nil {
		req.Goals = map[string]any{}
	}
	if req.Constraints == nil {
		req.Constraints = map[string]any{}
	}
	return req
}

// Feedback is the user's verdict on a generated plan.
type Feedback struct {
	Accepted  bool      `json:"accepted"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatTurn is one earlier message in a coaching conversation.
type ChatTurn struct {
	FromUser bool
	Text     string
}

type ChatRequest struct {
	Message string
	UserID  string
	Context string
	History []ChatTurn
}
