package ai

import (
	"encoding/json"
	"fmt"

	"github.com/christopherklint97/wellsync/internal/wellness"
)

func buildSystemPrompt() string {
	return `You are a wellness coach coordinating four specialists: fitness, nutrition, sleep and mental wellness. Build one plan for today that the four parts agree on.

Rules:
- Use 12-hour clock times like "7:30 AM" for every time field
- Meals need a name, time, items and calories
- Give 3 workout sessions for the week with exercises, sets and reps
- Keep the sleep window consistent with the wake time and meal times
- Daily practices need an activity, a duration like "10 min" and a time
- Confidence values are between 0 and 1
- Respect every injury, dietary restriction and time limit in the constraints

Return valid JSON matching the required schema.`
}

func buildUserPrompt(req wellness.GenerateRequest) (string, error) {
	profile, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding profile: %w", err)
	}
	return fmt.Sprintf("My profile:\n%s", profile), nil
}
