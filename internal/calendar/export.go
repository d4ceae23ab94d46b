package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/christopherklint97/wellsync/internal/schedule"
)

const productID = "-//wellsync//daily agenda//EN"

// Export writes the agenda for day as an iCalendar file with one event per
// entry. UIDs are derived from the day and entry so re-importing the same
// agenda updates events instead of duplicating them.
func Export(w io.Writer, day time.Time, entries []schedule.Entry, duration time.Duration) error {
	if duration <= 0 {
		duration = 30 * time.Minute
	}
	midnight, _ := DayWindow(day)
	stamp := time.Now().UTC()

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, e := range entries {
		start := midnight.Add(time.Duration(e.Minutes()) * time.Minute)

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, EventUID(day, e))
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(duration))
		event.Props.SetText(ical.PropSummary, summary(e))
		if e.Domain != "" {
			event.Props.SetText(ical.PropCategories, strings.ToUpper(string(e.Domain)))
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

// EventUID is the stable identifier for an agenda entry on a given day.
func EventUID(day time.Time, e schedule.Entry) string {
	name := "wellsync:" + day.Format(time.DateOnly) + ":" + e.ID()
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func summary(e schedule.Entry) string {
	if e.Domain == "" {
		return e.Activity
	}
	return fmt.Sprintf("[%s] %s", e.Domain, e.Activity)
}
