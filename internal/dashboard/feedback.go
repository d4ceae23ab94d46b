package dashboard

import (
	"time"

	"github.com/christopherklint97/wellsync/internal/wellness"
)

// FeedbackFor maps a verdict event to the feedback sent to the plan
// service. ok is false for events that are not verdicts.
func FeedbackFor(ev Event, now time.Time) (fb wellness.Feedback, ok bool) {
	switch ev {
	case Accept:
		return wellness.Feedback{Accepted: true, Rating: 5, Comments: "User accepted", Timestamp: now.UTC()}, true
	case Modify:
		return wellness.Feedback{Accepted: false, Rating: 3, Comments: "User modified", Timestamp: now.UTC()}, true
	case Skip:
		return wellness.Feedback{Accepted: false, Rating: 0, Comments: "User skipped", Timestamp: now.UTC()}, true
	}
	return wellness.Feedback{}, false
}

// Greeting returns a salutation for the hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
