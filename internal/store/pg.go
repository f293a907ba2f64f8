package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adminboard/apiserver/types"
)

// Compile-time check that PGStorage satisfies Storage.
var _ Storage = (*PGStorage)(nil)

// PGStorage persists every entity kind in PostgreSQL. The schema lives in
// internal/db/migrations; identity columns provide the id sequences.
type PGStorage struct {
	db *sql.DB
}

func NewPGStorage(db *sql.DB) *PGStorage {
	return &PGStorage{db: db}
}

// SeedIfEmpty applies seed when none of the seeded tables hold rows, so a
// restart against an existing database does not duplicate the demo data.
func (r *PGStorage) SeedIfEmpty(ctx context.Context, seed Seed) (bool, error) {
	const query = `
		SELECT
			(SELECT COUNT(1) FROM orders) +
			(SELECT COUNT(1) FROM tasks) +
			(SELECT COUNT(1) FROM events) +
			(SELECT COUNT(1) FROM metrics)`
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return false, err
	}
	if total > 0 || seed.Empty() {
		return false, nil
	}
	if err := seed.Apply(ctx, r); err != nil {
		return false, err
	}
	return true, nil
}

func (r *PGStorage) GetChartData(ctx context.Context) (types.ChartData, error) {
	return chartData(), nil
}

// dbTime normalizes t to what a TIMESTAMPTZ column round-trips: UTC with
// microsecond precision.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// withTx runs fn inside a transaction, committing on success.
func (r *PGStorage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func deleteByID(ctx context.Context, db *sql.DB, query string, id int) (bool, error) {
	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
