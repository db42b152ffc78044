package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/procurement-server/internal/drafts"
	"github.com/vmihailenco/msgpack/v5"
)

// DraftRepository is the sqlite-backed drafts.Store. Payloads are msgpack encoded.
type DraftRepository struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewDraftRepository creates a draft store. A zero ttl keeps drafts until deleted.
func NewDraftRepository(db *sql.DB, ttl time.Duration) *DraftRepository {
	return &DraftRepository{db: db, ttl: ttl, now: time.Now}
}

var _ drafts.Store = (*DraftRepository)(nil)

func (r *DraftRepository) Load(ctx context.Context, key string, dest any) error {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT payload FROM drafts
		WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)
	`, key, r.now().UTC()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return drafts.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query draft %q: %w", key, err)
	}

	if err := msgpack.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode draft %q: %w", key, err)
	}
	return nil
}

func (r *DraftRepository) Save(ctx context.Context, key string, value any) error {
	payload, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode draft %q: %w", key, err)
	}

	now := r.now().UTC()
	var expires sql.NullTime
	if r.ttl > 0 {
		expires = sql.NullTime{Time: now.Add(r.ttl), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO drafts (key, payload, updated_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at
	`, key, payload, now, expires)
	if err != nil {
		return fmt.Errorf("save draft %q: %w", key, err)
	}
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete draft %q: %w", key, err)
	}
	return nil
}

// PurgeExpired deletes drafts whose expiry has passed and reports how many went.
func (r *DraftRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM drafts WHERE expires_at IS NOT NULL AND expires_at <= ?
	`, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge drafts rows affected: %w", err)
	}
	return n, nil
}
