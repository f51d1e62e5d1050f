// Package settings persists the window manager preference keys and the
// history of switch attempts.
// This file contains the switch history records.
package settings

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is one finished window manager switch.
type Record struct {
	ID        string
	From      string
	To        string
	Outcome   string
	CreatedAt time.Time
}

// Record appends a switch result to the history table.
func (s *SQLiteStore) Record(from, to, outcome string) (*Record, error) {
	rec := &Record{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Outcome:   outcome,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(
		`INSERT INTO history (id, from_wm, to_wm, outcome, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.From, rec.To, rec.Outcome, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert history record: %w", err)
	}
	return rec, nil
}

// History returns up to limit records, newest first. A limit of zero or
// less returns everything.
func (s *SQLiteStore) History(limit int) ([]Record, error) {
	query := `SELECT id, from_wm, to_wm, outcome, created_at FROM history ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var created int64
		if err := rows.Scan(&rec.ID, &rec.From, &rec.To, &rec.Outcome, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		rec.CreatedAt = time.Unix(0, created)
		records = append(records, rec)
	}
	return records, rows.Err()
}
