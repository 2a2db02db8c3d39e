package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"swag-quiz-service/internal/app"
	"swag-quiz-service/internal/catalog"
	"swag-quiz-service/internal/domain"
	"swag-quiz-service/internal/infra/memory"
)

func TestSubmitAndRetrieve(t *testing.T) {
	ctx := context.Background()
	store := memory.NewResultStore()
	service := newTestService(store)

	lead := json.RawMessage(`{"email":"oncall@example.io","company":"Example"}`)
	submitted, err := service.Submit(ctx, domain.SubmitRequest{
		LeadData:  lead,
		Answers:   correctAnswers(10),
		Timestamp: "2024-11-22T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if submitted.ID == "" {
		t.Fatalf("expected an id")
	}
	if submitted.Result.Percentage != 83 || !submitted.Result.Passed {
		t.Fatalf("expected 83%% pass, got %+v", submitted.Result)
	}

	stored, err := store.Get(ctx, submitted.ID)
	if err != nil {
		t.Fatalf("expected stored result: %v", err)
	}
	if string(stored.LeadData) != string(lead) || stored.Timestamp != "2024-11-22T10:00:00Z" {
		t.Fatalf("stored metadata not passed through: %+v", stored)
	}

	retrieved, err := service.Retrieve(ctx, submitted.ID)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if retrieved.Timestamp != "2024-11-22T10:00:00Z" || retrieved.Result.Score != 10 {
		t.Fatalf("unexpected retrieval %+v", retrieved)
	}
}

func TestStoredResultUnaffectedByCallerEdits(t *testing.T) {
	ctx := context.Background()
	service := newTestService(memory.NewResultStore())

	submitted, err := service.Submit(ctx, domain.SubmitRequest{Answers: domain.Submission{1: 1}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	*submitted.Result.Answers[0].Selected = 3
	submitted.Result.Answers[0].IsCorrect = false

	retrieved, err := service.Retrieve(ctx, submitted.ID)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	retrieved.Result.Answers[1].IsCorrect = true

	again, err := service.Retrieve(ctx, submitted.ID)
	if err != nil {
		t.Fatalf("retrieve again failed: %v", err)
	}
	a0, a1 := again.Result.Answers[0], again.Result.Answers[1]
	if !a0.IsCorrect || *a0.Selected != 1 || a1.IsCorrect || again.Result.Score != 1 {
		t.Fatalf("stored result changed after handoff: %+v %+v score=%d", a0, a1, again.Result.Score)
	}
}

func TestRetrieveUnknownID(t *testing.T) {
	service := newTestService(memory.NewResultStore())
	for _, id := range []string{"", "missing"} {
		if _, err := service.Retrieve(context.Background(), id); !errors.Is(err, domain.ErrResultNotFound) {
			t.Fatalf("id %q: expected not found, got %v", id, err)
		}
	}
}

func TestSubmitGeneratesDistinctIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewResultStore()
	service := newTestService(store)

	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		submitted, err := service.Submit(ctx, domain.SubmitRequest{Answers: correctAnswers(i % 13)})
		if err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
		if _, dup := seen[submitted.ID]; dup {
			t.Fatalf("duplicate id %s after %d submissions", submitted.ID, i)
		}
		seen[submitted.ID] = struct{}{}
	}
	if store.Len() != 500 {
		t.Fatalf("expected 500 stored results, got %d", store.Len())
	}
}

func TestConcurrentSubmissions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewResultStore()
	service := newTestService(store)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]int)
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(correct int) {
			defer wg.Done()
			submitted, err := service.Submit(ctx, domain.SubmitRequest{Answers: correctAnswers(correct)})
			if err != nil {
				t.Errorf("submit failed: %v", err)
				return
			}
			mu.Lock()
			ids[submitted.ID] = correct
			mu.Unlock()
		}(i % 13)
	}
	wg.Wait()

	if len(ids) != 50 {
		t.Fatalf("expected 50 distinct ids, got %d", len(ids))
	}
	for id, correct := range ids {
		retrieved, err := service.Retrieve(ctx, id)
		if err != nil || retrieved.Result.Score != correct {
			t.Fatalf("result %s: expected score %d, got %+v (%v)", id, correct, retrieved.Result, err)
		}
	}
}

func TestSubmitUsesLiveCatalogLength(t *testing.T) {
	ctx := context.Background()
	source := &swappableCatalog{current: catalog.Default()}
	service := app.NewQuizService(memory.NewResultStore(), source, app.WithLogger(discardLogger()))

	source.set(catalog.MustNew(catalog.Default().Questions()[:4]))
	submitted, err := service.Submit(ctx, domain.SubmitRequest{Answers: correctAnswers(12)})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if submitted.Result.TotalQuestions != 4 || submitted.Result.Score != 4 || len(submitted.Result.Answers) != 4 {
		t.Fatalf("expected scoring against the 4-question catalog, got %+v", submitted.Result)
	}
}

func TestSubmitPublishesOutcome(t *testing.T) {
	ctx := context.Background()
	feed := app.NewFeed(4)
	at := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	service := app.NewQuizService(memory.NewResultStore(), memory.NewStaticCatalog(catalog.Default()),
		app.WithFeed(feed),
		app.WithLogger(discardLogger()),
		app.WithIDGenerator(func() string { return "fixed-id" }),
		app.WithClock(func() time.Time { return at }),
	)

	updates, cancel := feed.Subscribe()
	defer cancel()

	if _, err := service.Submit(ctx, domain.SubmitRequest{Answers: correctAnswers(12)}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	select {
	case outcome := <-updates:
		want := domain.Outcome{ID: "fixed-id", Score: 12, TotalQuestions: 12, Percentage: 100, Passed: true, At: at}
		if outcome != want {
			t.Fatalf("expected %+v, got %+v", want, outcome)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected an outcome")
	}
}

func TestSubmitLogsWinner(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	service := app.NewQuizService(memory.NewResultStore(), memory.NewStaticCatalog(catalog.Default()), app.WithLogger(logger))

	_, err := service.Submit(context.Background(), domain.SubmitRequest{
		LeadData: json.RawMessage(`{"email":"winner@example.io"}`),
		Answers:  correctAnswers(12),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !strings.Contains(buf.String(), "swag winner") || !strings.Contains(buf.String(), "winner@example.io") {
		t.Fatalf("expected winner log line, got %q", buf.String())
	}
}

func TestSubmitSurfacesStoreFaults(t *testing.T) {
	service := app.NewQuizService(failingStore{}, memory.NewStaticCatalog(catalog.Default()), app.WithLogger(discardLogger()))

	if _, err := service.Submit(context.Background(), domain.SubmitRequest{}); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store fault, got %v", err)
	}
	_, err := service.Retrieve(context.Background(), "any")
	if !errors.Is(err, errStoreDown) || errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected store fault on retrieve, got %v", err)
	}
}

func TestReview(t *testing.T) {
	ctx := context.Background()
	service := newTestService(memory.NewResultStore())

	submitted, err := service.Submit(ctx, domain.SubmitRequest{Answers: domain.Submission{1: 1}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	review, err := service.Review(ctx, submitted.ID)
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if len(review) != 12 || !review[0].IsCorrect || review[1].Selected != nil {
		t.Fatalf("unexpected review %+v", review[:2])
	}
	if _, err := service.Review(ctx, "missing"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQuestionsHideAnswers(t *testing.T) {
	questions, err := newTestService(memory.NewResultStore()).Questions(context.Background())
	if err != nil {
		t.Fatalf("questions failed: %v", err)
	}
	data, _ := json.Marshal(questions)
	if strings.Contains(string(data), "correctAnswer") || strings.Contains(string(data), "explanation") {
		t.Fatalf("public questions leak answers: %s", data)
	}
}

func newTestService(store app.ResultStore) *app.QuizService {
	return app.NewQuizService(store, memory.NewStaticCatalog(catalog.Default()), app.WithLogger(discardLogger()))
}

// correctAnswers answers the first n default questions correctly and the rest wrong.
func correctAnswers(n int) domain.Submission {
	submission := make(domain.Submission)
	for i, q := range catalog.Default().Questions() {
		if i < n {
			submission[q.ID] = q.CorrectOption
		} else {
			submission[q.ID] = (q.CorrectOption + 1) % len(q.Options)
		}
	}
	return submission
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type swappableCatalog struct {
	mu      sync.Mutex
	current catalog.Catalog
}

func (s *swappableCatalog) set(c catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
}

func (s *swappableCatalog) Catalog(context.Context) (catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, nil
}

var errStoreDown = errors.New("store unavailable")

type failingStore struct{}

func (failingStore) Put(context.Context, string, domain.StoredResult) error { return errStoreDown }

func (failingStore) Get(context.Context, string) (domain.StoredResult, error) {
	return domain.StoredResult{}, errStoreDown
}
