package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/godilite/procurement-server/internal/repository/models"
)

// RateRepository keeps the history of successfully fetched exchange rate tables.
type RateRepository struct {
	db *sql.DB
}

func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

func (r *RateRepository) SaveRateSnapshot(ctx context.Context, snap models.RateSnapshot) error {
	raw, err := json.Marshal(snap.Rates)
	if err != nil {
		return fmt.Errorf("encode rates: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO rate_snapshots (reference, rates, fetched_at) VALUES (?, ?, ?)
	`, snap.Reference, string(raw), snap.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert rate snapshot: %w", err)
	}
	return nil
}

// LatestRateSnapshot returns the most recent snapshot for the reference currency.
func (r *RateRepository) LatestRateSnapshot(ctx context.Context, reference string) (models.RateSnapshot, error) {
	var (
		snap models.RateSnapshot
		raw  string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT reference, rates, fetched_at
		FROM rate_snapshots
		WHERE reference = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`, reference).Scan(&snap.Reference, &raw, &snap.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RateSnapshot{}, ErrNotFound
	}
	if err != nil {
		return models.RateSnapshot{}, fmt.Errorf("query LatestRateSnapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &snap.Rates); err != nil {
		return models.RateSnapshot{}, fmt.Errorf("decode rates: %w", err)
	}
	return snap, nil
}

// PruneRateSnapshots keeps the newest keep snapshots per reference currency and
// deletes the rest. At least one snapshot per reference is always kept.
func (r *RateRepository) PruneRateSnapshots(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM rate_snapshots WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY reference ORDER BY fetched_at DESC, id DESC
				) AS rn
				FROM rate_snapshots
			) WHERE rn > ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune rate snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rate snapshots rows affected: %w", err)
	}
	return n, nil
}
