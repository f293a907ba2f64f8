package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/adminboard/apiserver/types"
)

const eventColumns = `id, title, description, starts_at, ends_at, color, created_at`

func (r *PGStorage) GetEvents(ctx context.Context) ([]types.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]types.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *PGStorage) GetEvent(ctx context.Context, id int) (types.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.db.QueryRowContext(ctx, query, id))
}

func (r *PGStorage) CreateEvent(ctx context.Context, input types.NewEvent) (types.Event, error) {
	event := input.Build(0, dbTime(time.Now()))
	event.Start, event.End = dbTime(event.Start), dbTime(event.End)

	const query = `
		INSERT INTO events (title, description, starts_at, ends_at, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		event.Title,
		event.Description,
		event.Start,
		event.End,
		event.Color,
		event.CreatedAt,
	).Scan(&event.ID); err != nil {
		return types.Event{}, err
	}
	return event, nil
}

func (r *PGStorage) UpdateEvent(ctx context.Context, id int, patch types.EventPatch) (types.Event, error) {
	var updated types.Event
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
		current, err := scanEvent(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			return err
		}
		updated = patch.Apply(current)
		updated.Start, updated.End = dbTime(updated.Start), dbTime(updated.End)

		const update = `
			UPDATE events
			SET title = $1,
				description = $2,
				starts_at = $3,
				ends_at = $4,
				color = $5
			WHERE id = $6`
		_, err = tx.ExecContext(
			ctx,
			update,
			updated.Title,
			updated.Description,
			updated.Start,
			updated.End,
			updated.Color,
			id,
		)
		return err
	})
	if err != nil {
		return types.Event{}, err
	}
	return updated, nil
}

func (r *PGStorage) DeleteEvent(ctx context.Context, id int) (bool, error) {
	return deleteByID(ctx, r.db, `DELETE FROM events WHERE id = $1`, id)
}

func scanEvent(row rowScanner) (types.Event, error) {
	var event types.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Start,
		&event.End,
		&event.Color,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Event{}, ErrNotFound
		}
		return types.Event{}, err
	}
	event.Start, event.End, event.CreatedAt = dbTime(event.Start), dbTime(event.End), dbTime(event.CreatedAt)
	return event, nil
}
