package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/romanzzaa/stock-tracker-bot/internal/domain"
)

// TrackingRepository - Postgres implementation of domain.TrackingRepository
type TrackingRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewTrackingRepository(db *DB, logger *slog.Logger) *TrackingRepository {
	return &TrackingRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new tracking. last_check defaults to NOW() so a fresh
// tracking is not immediately due.
func (r *TrackingRepository) Create(ctx context.Context, t *domain.Tracking) error {
	query := `
		INSERT INTO tracks (user_id, ticker, buy_price, last_check, created_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, last_check, created_at
	`

	err := r.db.QueryRowContext(
		ctx, query,
		t.UserID, t.Ticker, t.BuyPrice,
	).Scan(&t.ID, &t.LastCheck, &t.CreatedAt)

	if isUniqueViolation(err) {
		return domain.ErrDuplicateTracking
	}
	if err != nil {
		return fmt.Errorf("failed to create tracking: %w", err)
	}
	return nil
}

func (r *TrackingRepository) Delete(ctx context.Context, userID int64, ticker string) (bool, error) {
	query := `DELETE FROM tracks WHERE user_id = $1 AND ticker = $2`

	result, err := r.db.ExecContext(ctx, query, userID, ticker)
	if err != nil {
		return false, fmt.Errorf("failed to delete tracking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *TrackingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Tracking, error) {
	query := `
		SELECT id, user_id, ticker, buy_price, last_check, created_at
		FROM tracks
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trackings: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *TrackingRepository) GetByUserAndTicker(ctx context.Context, userID int64, ticker string) (*domain.Tracking, error) {
	query := `
		SELECT id, user_id, ticker, buy_price, last_check, created_at
		FROM tracks
		WHERE user_id = $1 AND ticker = $2
	`

	t := &domain.Tracking{}
	err := r.db.QueryRowContext(ctx, query, userID, ticker).Scan(
		&t.ID, &t.UserID, &t.Ticker, &t.BuyPrice, &t.LastCheck, &t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking: %w", err)
	}
	return t, nil
}

// SelectDue returns trackings whose last_check is at or before
// now - threshold. A single query gives the sweep a consistent snapshot;
// concurrent inserts are simply picked up next cycle.
func (r *TrackingRepository) SelectDue(ctx context.Context, now time.Time, threshold time.Duration) ([]domain.Tracking, error) {
	query := `
		SELECT id, user_id, ticker, buy_price, last_check, created_at
		FROM tracks
		WHERE last_check <= $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, now.Add(-threshold))
	if err != nil {
		return nil, fmt.Errorf("failed to select due trackings: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// MarkChecked advances last_check. Zero rows affected means the tracking
// was untracked mid-sweep; that is not an error and must not resurrect
// the row.
func (r *TrackingRepository) MarkChecked(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE tracks SET last_check = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark tracking checked: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		r.logger.Debug("tracking vanished before mark_checked", slog.Int64("id", id))
	}
	return nil
}

func (r *TrackingRepository) collect(rows *sql.Rows) ([]domain.Tracking, error) {
	var out []domain.Tracking
	for rows.Next() {
		var t domain.Tracking
		err := rows.Scan(&t.ID, &t.UserID, &t.Ticker, &t.BuyPrice, &t.LastCheck, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan row error: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// isUniqueViolation matches the Postgres unique_violation error class.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
