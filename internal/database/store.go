package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// MaxRecentDeliveries caps how many rows RecentDeliveries returns.
const MaxRecentDeliveries = 50

// Store defines the interface for delivery journal operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RecordDelivery inserts one delivery attempt. CreatedAt is set when zero.
	RecordDelivery(ctx context.Context, d *Delivery) error

	// RecentDeliveries returns up to limit rows, newest first.
	RecentDeliveries(ctx context.Context, limit int) ([]Delivery, error)

	// PruneDeliveries deletes rows created before the cutoff and returns how many were removed.
	PruneDeliveries(ctx context.Context, before time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) RecordDelivery(ctx context.Context, d *Delivery) error {
	if d == nil {
		return fmt.Errorf("cannot record nil delivery")
	}
	if d.BatchID == "" {
		return fmt.Errorf("delivery must have a batch_id")
	}
	if d.TargetChatID == 0 {
		return fmt.Errorf("delivery must have a non-zero target_chat_id")
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	d.CreatedAt = d.CreatedAt.UTC()

	const query = `INSERT INTO deliveries
		(batch_id, source_chat_id, source_message_id, target_chat_id, target_name,
		 copied_message_id, success, error, created_at)
		VALUES
		(:batch_id, :source_chat_id, :source_message_id, :target_chat_id, :target_name,
		 :copied_message_id, :success, :error, :created_at)`

	res, err := s.db.NamedExecContext(ctx, query, d)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert delivery",
			"batch_id", d.BatchID, "target_chat_id", d.TargetChatID, "error", err)
		return fmt.Errorf("failed to insert delivery: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get last insert ID for delivery", "error", err)
	} else {
		d.ID = id
	}

	s.logger.DebugContext(ctx, "Delivery recorded",
		"delivery_id", d.ID, "batch_id", d.BatchID, "target_chat_id", d.TargetChatID, "success", d.Success)
	return nil
}

func (s *sqlxStore) RecentDeliveries(ctx context.Context, limit int) ([]Delivery, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("invalid limit: %d", limit)
	}
	if limit > MaxRecentDeliveries {
		limit = MaxRecentDeliveries
	}

	var deliveries []Delivery
	const query = `SELECT id, batch_id, source_chat_id, source_message_id, target_chat_id,
		target_name, copied_message_id, success, error, created_at
		FROM deliveries ORDER BY created_at DESC, id DESC LIMIT ?`

	if err := s.db.SelectContext(ctx, &deliveries, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Failed to query recent deliveries", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to query recent deliveries: %w", err)
	}

	return deliveries, nil
}

func (s *sqlxStore) PruneDeliveries(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM deliveries WHERE created_at < ?", before.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to prune deliveries", "before", before, "error", err)
		return 0, fmt.Errorf("failed to prune deliveries: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned deliveries: %w", err)
	}

	s.logger.InfoContext(ctx, "Pruned old deliveries", "before", before, "deleted", n)
	return n, nil
}

// RunSQLMaintenance executes VACUUM and ANALYZE on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		s.logger.WarnContext(ctx, "ANALYZE failed after VACUUM", "error", err)
		return fmt.Errorf("failed to execute ANALYZE: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
