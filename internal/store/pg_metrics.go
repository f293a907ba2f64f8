package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/adminboard/apiserver/types"
)

func (r *PGStorage) GetLatestMetrics(ctx context.Context) (types.Metrics, error) {
	const query = `
		SELECT id, revenue, users, orders, conversion_rate, date
		FROM metrics
		ORDER BY date DESC, id DESC
		LIMIT 1`
	var m types.Metrics
	err := r.db.QueryRowContext(ctx, query).Scan(
		&m.ID,
		&m.Revenue,
		&m.Users,
		&m.Orders,
		&m.ConversionRate,
		&m.Date,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Metrics{}, ErrNotFound
		}
		return types.Metrics{}, err
	}
	m.Date = dbTime(m.Date)
	return m, nil
}

func (r *PGStorage) CreateMetrics(ctx context.Context, input types.NewMetrics) (types.Metrics, error) {
	m := input.Build(0, dbTime(time.Now()))

	const query = `
		INSERT INTO metrics (revenue, users, orders, conversion_rate, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		m.Revenue,
		m.Users,
		m.Orders,
		m.ConversionRate,
		m.Date,
	).Scan(&m.ID); err != nil {
		return types.Metrics{}, err
	}
	return m, nil
}
