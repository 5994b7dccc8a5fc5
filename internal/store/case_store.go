package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CaseRow is a persisted intake case.
type CaseRow struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Contact        string    `json:"contact"`
	DateOfIncident string    `json:"dateOfIncident"` // YYYY-MM-DD
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SQLiteCaseStore implements intake.CaseStore with a durable insert. Fields
// are stored verbatim; the incident date arrives already resolved to a
// calendar date string.
type SQLiteCaseStore struct {
	db *DB
}

// NewSQLiteCaseStore creates a case store using the given database.
func NewSQLiteCaseStore(db *DB) *SQLiteCaseStore {
	return &SQLiteCaseStore{db: db}
}

// SaveCase inserts one intake case.
func (s *SQLiteCaseStore) SaveCase(ctx context.Context, name, contact, incidentDate, description string) error {
	_, err := s.db.sql.ExecContext(ctx,
		`INSERT INTO intake_cases (id, name, contact, date_of_incident, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), name, contact, incidentDate, description,
		time.Now().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("inserting case: %w", err)
	}
	return nil
}

// ListCases returns saved cases, most recent first. Limit of 0 defaults
// to 50.
func (s *SQLiteCaseStore) ListCases(ctx context.Context, limit int) ([]CaseRow, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT id, name, contact, date_of_incident, description, created_at
		 FROM intake_cases ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	defer rows.Close()

	var cases []CaseRow
	for rows.Next() {
		var c CaseRow
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Contact, &c.DateOfIncident, &c.Description, &createdAt); err != nil {
			continue
		}
		c.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// Count returns the number of saved cases.
func (s *SQLiteCaseStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM intake_cases`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting cases: %w", err)
	}
	return n, nil
}
