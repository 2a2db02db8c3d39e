package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"swag-quiz-service/internal/catalog"
	"swag-quiz-service/internal/domain"
)

// CatalogLoader loads the question catalog from the quiz_questions table.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (catalog.Catalog, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, prompt, options, correct_option, explanation
		FROM quiz_questions ORDER BY position, id`)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q   domain.Question
			raw []byte
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &raw, &q.CorrectOption, &q.Explanation); err != nil {
			return catalog.Catalog{}, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(raw, &q.Options); err != nil {
			return catalog.Catalog{}, fmt.Errorf("unmarshal options for question %d: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return catalog.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	if len(questions) == 0 {
		return catalog.Catalog{}, domain.ErrCatalogNotFound
	}
	return catalog.New(questions)
}

// SeedCatalog inserts the catalog's questions, leaving existing rows untouched.
// It returns how many questions were newly inserted.
func SeedCatalog(ctx context.Context, pool *pgxpool.Pool, c catalog.Catalog) (int, error) {
	batch := &pgx.Batch{}
	for position, q := range c.Questions() {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return 0, fmt.Errorf("marshal options for question %d: %w", q.ID, err)
		}
		batch.Queue(`INSERT INTO quiz_questions (id, position, prompt, options, correct_option, explanation)
			VALUES ($1, $2, $3, $4::jsonb, $5, $6) ON CONFLICT (id) DO NOTHING`,
			q.ID, position, q.Prompt, string(options), q.CorrectOption, q.Explanation)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("seed question: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
