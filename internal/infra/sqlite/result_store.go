package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"swag-quiz-service/internal/domain"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS quiz_results (
    id           TEXT PRIMARY KEY,
    result       TEXT NOT NULL,
    submitted_at TEXT NOT NULL DEFAULT '',
    lead_data    TEXT,
    created_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// ResultStore keeps stored results in a local SQLite file.
type ResultStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*ResultStore, error) {
	if path == "" {
		path = "file:quiz.db?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

func (s *ResultStore) Put(ctx context.Context, id string, result domain.StoredResult) error {
	data, err := json.Marshal(result.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	var lead sql.NullString
	if len(result.LeadData) > 0 {
		lead = sql.NullString{String: string(result.LeadData), Valid: true}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO quiz_results (id, result, submitted_at, lead_data) VALUES (?, ?, ?, ?)`,
		id, string(data), result.Timestamp, lead)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) Get(ctx context.Context, id string) (domain.StoredResult, error) {
	var (
		raw  string
		ts   string
		lead sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT result, submitted_at, lead_data FROM quiz_results WHERE id = ?`, id).
		Scan(&raw, &ts, &lead)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StoredResult{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.StoredResult{}, fmt.Errorf("select result: %w", err)
	}

	stored := domain.StoredResult{ID: id, Timestamp: ts}
	if err := json.Unmarshal([]byte(raw), &stored.Result); err != nil {
		return domain.StoredResult{}, fmt.Errorf("unmarshal result: %w", err)
	}
	if lead.Valid {
		stored.LeadData = json.RawMessage(lead.String)
	}
	return stored, nil
}
