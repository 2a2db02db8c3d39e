package lead

import (
	"context"
	"log/slog"
	"sync"
)

// Sink receives captured leads, e.g. a CRM client. It runs on a worker goroutine.
type Sink func(ctx context.Context, d Data) error

// LogSink records leads in the service log.
func LogSink(logger *slog.Logger) Sink {
	return func(_ context.Context, d Data) error {
		logger.Info("lead captured",
			"email", d.Email,
			"company", d.Company,
			"company_size", d.CompanySize,
			"role", d.Role,
			"source", d.Source,
		)
		return nil
	}
}

// Notifier hands leads to a sink on a small worker pool. Notify never blocks
// the request path: when the queue is full the lead is dropped and logged.
type Notifier struct {
	sink   Sink
	logger *slog.Logger
	jobs   chan Data
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewNotifier(sink Sink, logger *slog.Logger, workers, queue int) *Notifier {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = 64
	}
	n := &Notifier{
		sink:   sink,
		logger: logger,
		jobs:   make(chan Data, queue),
	}
	for i := 0; i < workers; i++ {
		n.wg.Add(1)
		go n.worker()
	}
	return n
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for d := range n.jobs {
		if err := n.sink(context.Background(), d); err != nil {
			n.logger.Error("lead notification failed", "email", d.Email, "error", err)
		}
	}
}

// Notify enqueues a lead and reports whether it was accepted. Leads arriving
// after Close are dropped.
func (n *Notifier) Notify(d Data) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.logger.Warn("lead notifier closed, dropping lead", "email", d.Email)
		return false
	}
	select {
	case n.jobs <- d:
		return true
	default:
		n.logger.Warn("lead queue full, dropping lead", "email", d.Email)
		return false
	}
}

// Close stops accepting leads and waits for queued ones to be delivered.
func (n *Notifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.jobs)
	}
	n.mu.Unlock()
	n.wg.Wait()
}
