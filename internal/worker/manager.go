package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/romanzzaa/stock-tracker-bot/internal/domain"
)

// ItemProcessor handles one due tracking end to end.
// Implemented by usecase.UpdateService.
type ItemProcessor interface {
	ProcessTracking(ctx context.Context, t domain.Tracking, now time.Time) error
}

// ItemResult - outcome of one tracking within a sweep
type ItemResult struct {
	Tracking domain.Tracking
	Err      error
}

// CycleReport - what one sweep did. Collected instead of thrown so the
// isolation guarantees are testable without real I/O.
type CycleReport struct {
	StartedAt time.Time
	Skipped   bool  // calendar gate fired, nothing touched
	SelectErr error // due-selection failed, cycle aborted
	Results   []ItemResult
}

func (r CycleReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Manager - the long-lived sweep loop over due trackings
type Manager struct {
	repo      domain.TrackingRepository
	processor ItemProcessor
	logger    *slog.Logger

	threshold time.Duration
	period    time.Duration

	// SkipDay gates whole cycles; defaults to the weekend check.
	// Replace it to model real exchange calendars.
	SkipDay func(time.Time) bool
	// Now is the clock, swappable in tests.
	Now func() time.Time
}

func NewManager(
	repo domain.TrackingRepository,
	processor ItemProcessor,
	threshold time.Duration,
	period time.Duration,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		repo:      repo,
		processor: processor,
		threshold: threshold,
		period:    period,
		logger:    logger,
		SkipDay:   IsWeekend,
		Now:       time.Now,
	}
}

// IsWeekend reports whether t falls on Saturday or Sunday (UTC).
func IsWeekend(t time.Time) bool {
	switch t.UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// Run executes sweeps until ctx is cancelled. The first sweep starts
// immediately; afterwards the loop sleeps for the configured period.
// Sleeping happens in a select so shutdown never waits out the timer.
func (m *Manager) Run(ctx context.Context) {
	m.logger.Info("Starting tracker sweep loop",
		slog.Duration("period", m.period),
		slog.Duration("threshold", m.threshold))

	for {
		report := m.RunCycle(ctx)
		m.logCycle(report)

		select {
		case <-time.After(m.period):
		case <-ctx.Done():
			m.logger.Info("Tracker sweep loop stopped")
			return
		}
	}
}

// RunCycle performs a single sweep: calendar gate, due selection, then
// sequential per-item processing. One bad ticker never stops the sweep;
// its error lands in the report and the item stays due for next cycle.
func (m *Manager) RunCycle(ctx context.Context) CycleReport {
	now := m.Now()
	report := CycleReport{StartedAt: now}

	if m.SkipDay(now) {
		report.Skipped = true
		return report
	}

	due, err := m.repo.SelectDue(ctx, now, m.threshold)
	if err != nil {
		report.SelectErr = err
		return report
	}

	for _, t := range due {
		if ctx.Err() != nil {
			break
		}

		err := m.processor.ProcessTracking(ctx, t, now)
		if err != nil {
			m.logger.Error("tracking update failed",
				slog.Int64("tracking_id", t.ID),
				slog.Int64("user_id", t.UserID),
				slog.String("ticker", t.Ticker),
				slog.String("error", err.Error()))
		}
		report.Results = append(report.Results, ItemResult{Tracking: t, Err: err})
	}

	return report
}

func (m *Manager) logCycle(report CycleReport) {
	switch {
	case report.Skipped:
		m.logger.Info("Sweep skipped: market closed")
	case report.SelectErr != nil:
		m.logger.Error("Sweep aborted: due selection failed",
			slog.String("error", report.SelectErr.Error()))
	default:
		m.logger.Info("Sweep finished",
			slog.Int("processed", len(report.Results)),
			slog.Int("failed", report.Failed()))
	}
}
