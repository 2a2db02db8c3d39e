package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"swag-quiz-service/internal/domain"
)

// ResultStore persists stored results in the quiz_results table.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

type resultRow struct {
	bun.BaseModel `bun:"table:quiz_results,alias:qr"`

	ID          string        `bun:"id,pk"`
	Result      domain.Result `bun:"result,type:jsonb"`
	SubmittedAt string        `bun:"submitted_at"`
	LeadData    string        `bun:"lead_data,type:jsonb,nullzero"`
	CreatedAt   time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Put upserts; a colliding id keeps the last write.
func (s *ResultStore) Put(ctx context.Context, id string, result domain.StoredResult) error {
	row := &resultRow{
		ID:          id,
		Result:      result.Result,
		SubmittedAt: result.Timestamp,
		LeadData:    string(result.LeadData),
	}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("result = EXCLUDED.result").
		Set("submitted_at = EXCLUDED.submitted_at").
		Set("lead_data = EXCLUDED.lead_data").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) Get(ctx context.Context, id string) (domain.StoredResult, error) {
	row := new(resultRow)
	err := s.db.NewSelect().Model(row).Where("qr.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StoredResult{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.StoredResult{}, fmt.Errorf("select result: %w", err)
	}
	stored := domain.StoredResult{
		ID:        row.ID,
		Result:    row.Result,
		Timestamp: row.SubmittedAt,
	}
	if row.LeadData != "" {
		stored.LeadData = json.RawMessage(row.LeadData)
	}
	return stored, nil
}
