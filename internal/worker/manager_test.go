package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanzzaa/stock-tracker-bot/internal/domain"
)

var (
	monday   = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	saturday = time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)
)

// fakeStore is an in-memory TrackingRepository good enough for sweep tests.
type fakeStore struct {
	items       map[int64]*domain.Tracking
	nextID      int64
	selectErr   error
	selectCalls int
	marked      map[int64]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:  map[int64]*domain.Tracking{},
		marked: map[int64]time.Time{},
		nextID: 1,
	}
}

func (s *fakeStore) Create(ctx context.Context, t *domain.Tracking) error {
	for _, existing := range s.items {
		if existing.UserID == t.UserID && existing.Ticker == t.Ticker {
			return domain.ErrDuplicateTracking
		}
	}
	t.ID = s.nextID
	s.nextID++
	cp := *t
	s.items[t.ID] = &cp
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, userID int64, ticker string) (bool, error) {
	for id, t := range s.items {
		if t.UserID == userID && t.Ticker == ticker {
			delete(s.items, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ListByUser(ctx context.Context, userID int64) ([]domain.Tracking, error) {
	var out []domain.Tracking
	for _, t := range s.items {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeStore) GetByUserAndTicker(ctx context.Context, userID int64, ticker string) (*domain.Tracking, error) {
	for _, t := range s.items {
		if t.UserID == userID && t.Ticker == ticker {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SelectDue(ctx context.Context, now time.Time, threshold time.Duration) ([]domain.Tracking, error) {
	s.selectCalls++
	if s.selectErr != nil {
		return nil, s.selectErr
	}
	var out []domain.Tracking
	for _, t := range s.items {
		if t.IsDue(now, threshold) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkChecked(ctx context.Context, id int64, at time.Time) error {
	if t, ok := s.items[id]; ok {
		t.LastCheck = at
		s.marked[id] = at
	}
	return nil
}

// fakeProcessor records calls and fails for configured tickers.
type fakeProcessor struct {
	store   *fakeStore
	failFor map[string]error
	calls   []string
}

func (p *fakeProcessor) ProcessTracking(ctx context.Context, t domain.Tracking, now time.Time) error {
	p.calls = append(p.calls, t.Ticker)
	if err, ok := p.failFor[t.Ticker]; ok {
		return err // failed items are not marked, mirroring UpdateService
	}
	return p.store.MarkChecked(ctx, t.ID, now)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(store *fakeStore, proc *fakeProcessor, now time.Time) *Manager {
	m := NewManager(store, proc, 11*time.Hour, 12*time.Hour, discard())
	m.Now = func() time.Time { return now }
	return m
}

func addTracking(store *fakeStore, userID int64, ticker string, lastCheck time.Time) int64 {
	t := &domain.Tracking{UserID: userID, Ticker: ticker}
	_ = store.Create(context.Background(), t)
	store.items[t.ID].LastCheck = lastCheck
	return t.ID
}

func TestRunCycleProcessesEachDueItemOnce(t *testing.T) {
	store := newFakeStore()
	proc := &fakeProcessor{store: store}

	addTracking(store, 1, "AAPL", monday.Add(-12*time.Hour))
	addTracking(store, 1, "MSFT", monday.Add(-13*time.Hour))
	addTracking(store, 2, "AAPL", monday.Add(-1*time.Hour)) // not due

	report := newTestManager(store, proc, monday).RunCycle(context.Background())

	require.Len(t, report.Results, 2)
	assert.Zero(t, report.Failed())
	assert.ElementsMatch(t, []string{"AAPL", "MSFT"}, proc.calls)
}

func TestRunCycleIsolatesItemFailures(t *testing.T) {
	store := newFakeStore()
	proc := &fakeProcessor{
		store:   store,
		failFor: map[string]error{"BAD": domain.ErrQuoteUnavailable},
	}

	badID := addTracking(store, 1, "BAD", monday.Add(-12*time.Hour))
	goodID := addTracking(store, 1, "GOOD", monday.Add(-12*time.Hour))

	report := newTestManager(store, proc, monday).RunCycle(context.Background())

	require.Len(t, report.Results, 2)
	assert.Equal(t, 1, report.Failed())
	assert.Contains(t, proc.calls, "GOOD", "sibling still processed")

	_, badMarked := store.marked[badID]
	assert.False(t, badMarked, "failed item keeps its last_check and stays due")
	_, goodMarked := store.marked[goodID]
	assert.True(t, goodMarked)
}

func TestRunCycleFailedItemIsDueNextCycle(t *testing.T) {
	store := newFakeStore()
	proc := &fakeProcessor{
		store:   store,
		failFor: map[string]error{"BAD": domain.ErrQuoteUnavailable},
	}

	addTracking(store, 1, "BAD", monday.Add(-12*time.Hour))
	mgr := newTestManager(store, proc, monday)

	mgr.RunCycle(context.Background())

	// upstream recovers before the next sweep
	proc.failFor = nil
	mgr.Now = func() time.Time { return monday.Add(12 * time.Hour) }
	report := mgr.RunCycle(context.Background())

	require.Len(t, report.Results, 1)
	assert.Zero(t, report.Failed())
	assert.Equal(t, []string{"BAD", "BAD"}, proc.calls, "retried exactly once per cycle")
}

func TestRunCycleWeekendGate(t *testing.T) {
	store := newFakeStore()
	proc := &fakeProcessor{store: store}
	addTracking(store, 1, "AAPL", saturday.Add(-48*time.Hour))

	report := newTestManager(store, proc, saturday).RunCycle(context.Background())

	assert.True(t, report.Skipped)
	assert.Zero(t, store.selectCalls, "gated cycle never queries the store")
	assert.Empty(t, proc.calls)
	assert.Empty(t, store.marked)
}

func TestRunCycleSelectFailureAbortsCycle(t *testing.T) {
	store := newFakeStore()
	store.selectErr = errors.New("connection refused")
	proc := &fakeProcessor{store: store}

	report := newTestManager(store, proc, monday).RunCycle(context.Background())

	require.Error(t, report.SelectErr)
	assert.Empty(t, report.Results)
}

func TestTrackThenUntrackNeverSwept(t *testing.T) {
	store := newFakeStore()
	proc := &fakeProcessor{store: store}
	ctx := context.Background()

	tr := &domain.Tracking{UserID: 1, Ticker: "AAPL"}
	require.NoError(t, store.Create(ctx, tr))
	store.items[tr.ID].LastCheck = monday.Add(-24 * time.Hour)

	removed, err := store.Delete(ctx, 1, "AAPL")
	require.NoError(t, err)
	require.True(t, removed)

	report := newTestManager(store, proc, monday).RunCycle(ctx)
	assert.Empty(t, report.Results)
	assert.Empty(t, proc.calls)
}

func TestRunCycleStopsOnCancelledContext(t *testing.T) {
	store := newFakeStore()
	proc := &fakeProcessor{store: store}
	addTracking(store, 1, "AAPL", monday.Add(-12*time.Hour))
	addTracking(store, 1, "MSFT", monday.Add(-12*time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := newTestManager(store, proc, monday).RunCycle(ctx)
	assert.Empty(t, report.Results, "cancelled sweep processes nothing")
}

func TestRunRespectsCancellationDuringSleep(t *testing.T) {
	store := newFakeStore()
	proc := &fakeProcessor{store: store}
	mgr := newTestManager(store, proc, monday)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		mgr.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond) // let the first cycle finish
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancellation while sleeping")
	}
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(saturday))
	assert.True(t, IsWeekend(saturday.Add(24*time.Hour)))
	assert.False(t, IsWeekend(monday))
}
