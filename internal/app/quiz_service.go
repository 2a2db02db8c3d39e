package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"swag-quiz-service/internal/catalog"
	"swag-quiz-service/internal/domain"
	"swag-quiz-service/internal/scoring"
)

// ResultStore abstracts where stored results live (in-memory, Redis, Postgres, SQLite).
// Get returns domain.ErrResultNotFound for unknown ids.
type ResultStore interface {
	Put(ctx context.Context, id string, result domain.StoredResult) error
	Get(ctx context.Context, id string) (domain.StoredResult, error)
}

// CatalogSource returns the live question catalog (possibly cached).
type CatalogSource interface {
	Catalog(ctx context.Context) (catalog.Catalog, error)
}

// CatalogLoader fetches the catalog from a backing store (e.g. Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (catalog.Catalog, error)
}

// QuizService contains the quiz submission and retrieval use cases.
type QuizService struct {
	results  ResultStore
	catalogs CatalogSource
	feed     *Feed
	logger   *slog.Logger
	newID    func() string
	now      func() time.Time
}

type Option func(*QuizService)

// WithFeed publishes an Outcome for every accepted submission.
func WithFeed(feed *Feed) Option { return func(s *QuizService) { s.feed = feed } }

func WithLogger(logger *slog.Logger) Option { return func(s *QuizService) { s.logger = logger } }

// WithIDGenerator replaces the uuid-based result id generator.
func WithIDGenerator(gen func() string) Option { return func(s *QuizService) { s.newID = gen } }

// WithClock is for deterministic outcome timestamps in tests.
func WithClock(now func() time.Time) Option { return func(s *QuizService) { s.now = now } }

func NewQuizService(results ResultStore, catalogs CatalogSource, opts ...Option) *QuizService {
	s := &QuizService{
		results:  results,
		catalogs: catalogs,
		logger:   slog.Default(),
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit scores a submission against the live catalog and stores it under a fresh id.
// Malformed answers never fail a submission; only catalog or store faults do.
func (s *QuizService) Submit(ctx context.Context, req domain.SubmitRequest) (domain.Submitted, error) {
	c, err := s.catalogs.Catalog(ctx)
	if err != nil {
		return domain.Submitted{}, fmt.Errorf("load catalog: %w", err)
	}

	result := scoring.Score(c, req.Answers)
	id := s.newID()

	if err := s.results.Put(ctx, id, domain.StoredResult{
		ID:        id,
		Result:    result,
		Timestamp: req.Timestamp,
		LeadData:  req.LeadData,
	}); err != nil {
		return domain.Submitted{}, fmt.Errorf("store result %s: %w", id, err)
	}

	email := leadEmail(req.LeadData)
	s.logger.Info("quiz submitted",
		"id", id,
		"email", email,
		"score", result.Score,
		"percentage", result.Percentage,
		"passed", result.Passed,
	)
	if result.Passed {
		s.logger.Info("swag winner", "id", id, "email", email, "percentage", result.Percentage)
	}

	if s.feed != nil {
		s.feed.Publish(domain.Outcome{
			ID:             id,
			Score:          result.Score,
			TotalQuestions: result.TotalQuestions,
			Percentage:     result.Percentage,
			Passed:         result.Passed,
			At:             s.now(),
		})
	}

	return domain.Submitted{ID: id, Result: result}, nil
}

// Retrieve returns a stored result and its submission timestamp. Lead data is never exposed.
func (s *QuizService) Retrieve(ctx context.Context, id string) (domain.Retrieved, error) {
	stored, err := s.lookup(ctx, id)
	if err != nil {
		return domain.Retrieved{}, err
	}
	return domain.Retrieved{Result: stored.Result, Timestamp: stored.Timestamp}, nil
}

// Review pairs a stored result with the current catalog's answers and explanations.
func (s *QuizService) Review(ctx context.Context, id string) ([]domain.AnswerReview, error) {
	stored, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := s.catalogs.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return scoring.Review(c, stored.Result), nil
}

// Questions lists the catalog without answers for rendering the quiz.
func (s *QuizService) Questions(ctx context.Context) ([]domain.PublicQuestion, error) {
	c, err := s.catalogs.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return c.Public(), nil
}

func (s *QuizService) lookup(ctx context.Context, id string) (domain.StoredResult, error) {
	if id == "" {
		return domain.StoredResult{}, domain.ErrResultNotFound
	}
	stored, err := s.results.Get(ctx, id)
	if errors.Is(err, domain.ErrResultNotFound) {
		return domain.StoredResult{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.StoredResult{}, fmt.Errorf("get result %s: %w", id, err)
	}
	return stored, nil
}

// leadEmail pulls the email out of opaque lead data for log lines only.
func leadEmail(raw json.RawMessage) string {
	var lead struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &lead); err != nil {
		return ""
	}
	return lead.Email
}
