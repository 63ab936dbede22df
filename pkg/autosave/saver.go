package autosave

import (
	"log/slog"
	"sync"
	"time"

	"github.com/quillmate/quillmate-cli/pkg/logging"
	"github.com/quillmate/quillmate-cli/pkg/observability"
)

// SaveFunc writes the current state somewhere durable.
type SaveFunc func() error

// Saver schedules debounced saves. A failed save is logged and recorded but
// not retried; the next edit schedules a fresh attempt.
type Saver struct {
	debouncer *Debouncer
	save      SaveFunc
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu        sync.Mutex
	lastErr   error
	lastSaved time.Time
	saves     int
	onSaved   func(error)
}

// SaverOption configures a Saver.
type SaverOption func(*Saver)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SaverOption {
	return func(s *Saver) { s.logger = l }
}

// WithMetrics records each attempt.
func WithMetrics(m *observability.Metrics) SaverOption {
	return func(s *Saver) { s.metrics = m }
}

// OnSaved registers a callback run after every attempt with its error.
func OnSaved(fn func(error)) SaverOption {
	return func(s *Saver) { s.onSaved = fn }
}

// NewSaver creates a Saver that waits delay after the last Schedule.
func NewSaver(delay time.Duration, save SaveFunc, opts ...SaverOption) *Saver {
	s := &Saver{save: save}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	s.debouncer = NewDebouncer(delay, s.run)
	return s
}

// Schedule requests a save once edits settle.
func (s *Saver) Schedule() {
	s.debouncer.Trigger()
}

// Flush saves now if a save is pending and returns that save's error.
func (s *Saver) Flush() error {
	if !s.debouncer.Flush() {
		return nil
	}
	return s.LastError()
}

// Pending reports whether a save is scheduled.
func (s *Saver) Pending() bool {
	return s.debouncer.Pending()
}

// Cancel drops a pending save without writing.
func (s *Saver) Cancel() {
	s.debouncer.Cancel()
}

// Stop cancels any pending save and ignores later schedules.
func (s *Saver) Stop() {
	s.debouncer.Stop()
}

// LastError returns the error of the most recent attempt.
func (s *Saver) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// LastSaved returns when the last successful save finished.
func (s *Saver) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

// Saves counts successful saves.
func (s *Saver) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *Saver) run() {
	err := s.save()

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.lastSaved = time.Now()
		s.saves++
	}
	onSaved := s.onSaved
	s.mu.Unlock()

	s.metrics.ObserveAutosave(err)
	if err != nil {
		s.logger.Error("auto-save failed", "error", err)
	} else {
		s.logger.Debug("auto-saved")
	}
	if onSaved != nil {
		onSaved(err)
	}
}
