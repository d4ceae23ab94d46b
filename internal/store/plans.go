package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/christopherklint97/wellsync/internal/plan"
)

// SavedPlan is a plan document cached locally.
type SavedPlan struct {
	ID        int64
	UserID    string
	StateID   string
	Source    string
	Document  plan.Document
	CreatedAt time.Time
}

func (db *DB) SavePlan(p *SavedPlan) (int64, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.Source == "" {
		p.Source = "service"
	}
	result, err := db.Exec(
		`INSERT INTO plans (user_id, state_id, source, document, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.UserID, p.StateID, p.Source, string(p.Document),
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting plan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

// LatestPlan returns the newest plan for a user, or nil if none is stored.
func (db *DB) LatestPlan(userID string) (*SavedPlan, error) {
	plans, err := db.queryPlans(
		`SELECT id, user_id, state_id, source, document, created_at
		 FROM plans
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, nil
	}
	return &plans[0], nil
}

// PlansSince lists a user's plans created at or after since, oldest first.
func (db *DB) PlansSince(userID string, since time.Time) ([]SavedPlan, error) {
	return db.queryPlans(
		`SELECT id, user_id, state_id, source, document, created_at
		 FROM plans
		 WHERE user_id = ? AND created_at >= ?
		 ORDER BY created_at ASC, id ASC`,
		userID, since.UTC().Format(time.RFC3339),
	)
}

func (db *DB) queryPlans(query string, args ...any) ([]SavedPlan, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var plans []SavedPlan
	for rows.Next() {
		var p SavedPlan
		var stateID sql.NullString
		var document, createdStr string

		if err := rows.Scan(&p.ID, &p.UserID, &stateID, &p.Source, &document, &createdStr); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}

		p.StateID = stateID.String
		p.Document = plan.Document(document)
		if t, err := time.Parse(time.RFC3339, createdStr); err == nil {
			p.CreatedAt = t
		}

		plans = append(plans, p)
	}

	return plans, rows.Err()
}
