package store

import (
	"fmt"
	"time"
)

// Day is the completion tally for one calendar day.
type Day struct {
	UserID    string
	Day       string // YYYY-MM-DD in local time
	Completed int
	Total     int
	UpdatedAt time.Time
}

// Complete reports whether every agenda entry was done.
func (d Day) Complete() bool {
	return d.Total > 0 && d.Completed >= d.Total
}

// Date parses Day in loc.
func (d Day) Date(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(time.DateOnly, d.Day, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// RecordDay upserts the tally for the calendar day containing day.
func (db *DB) RecordDay(userID string, day time.Time, completed, total int) error {
	_, err := db.Exec(
		`INSERT INTO days (user_id, day, completed, total, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, day) DO UPDATE SET
			completed = excluded.completed,
			total = excluded.total,
			updated_at = excluded.updated_at`,
		userID, day.Format(time.DateOnly), completed, total,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording day: %w", err)
	}
	return nil
}

// DaysSince lists tallies from the day containing since onward, oldest
// first.
func (db *DB) DaysSince(userID string, since time.Time) ([]Day, error) {
	rows, err := db.Query(
		`SELECT user_id, day, completed, total, updated_at
		 FROM days
		 WHERE user_id = ? AND day >= ?
		 ORDER BY day ASC`,
		userID, since.Format(time.DateOnly),
	)
	if err != nil {
		return nil, fmt.Errorf("querying days: %w", err)
	}
	defer rows.Close()

	var days []Day
	for rows.Next() {
		var d Day
		var updatedStr string
		if err := rows.Scan(&d.UserID, &d.Day, &d.Completed, &d.Total, &updatedStr); err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, updatedStr); err == nil {
			d.UpdatedAt = t
		}
		days = append(days, d)
	}

	return days, rows.Err()
}
