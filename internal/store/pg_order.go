package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/adminboard/apiserver/types"
)

const orderColumns = `id, customer_id, customer_name, customer_email, customer_avatar, amount, status, created_at`

// orderSearchClause matches $1 against name, email and the decimal id.
const orderSearchClause = `
	($1 = ''
		OR customer_name ILIKE '%' || $1 || '%'
		OR customer_email ILIKE '%' || $1 || '%'
		OR CAST(id AS TEXT) LIKE '%' || $1 || '%')`

func (r *PGStorage) GetOrders(ctx context.Context, q OrderQuery) ([]types.Order, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultOrderLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ` + orderSearchClause + `
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, strings.TrimSpace(q.Search), offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]types.Order, 0, limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PGStorage) GetOrder(ctx context.Context, id int) (types.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRowContext(ctx, query, id))
}

func (r *PGStorage) CreateOrder(ctx context.Context, input types.NewOrder) (types.Order, error) {
	order := input.Build(0, dbTime(time.Now()))

	const query = `
		INSERT INTO orders (customer_id, customer_name, customer_email, customer_avatar, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		order.CustomerID,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerAvatar,
		order.Amount,
		string(order.Status),
		order.CreatedAt,
	).Scan(&order.ID); err != nil {
		return types.Order{}, err
	}
	return order, nil
}

func (r *PGStorage) UpdateOrder(ctx context.Context, id int, patch types.OrderPatch) (types.Order, error) {
	var updated types.Order
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
		current, err := scanOrder(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			return err
		}
		updated = patch.Apply(current)

		const update = `
			UPDATE orders
			SET customer_id = $1,
				customer_name = $2,
				customer_email = $3,
				customer_avatar = $4,
				amount = $5,
				status = $6
			WHERE id = $7`
		_, err = tx.ExecContext(
			ctx,
			update,
			updated.CustomerID,
			updated.CustomerName,
			updated.CustomerEmail,
			updated.CustomerAvatar,
			updated.Amount,
			string(updated.Status),
			id,
		)
		return err
	})
	if err != nil {
		return types.Order{}, err
	}
	return updated, nil
}

func (r *PGStorage) DeleteOrder(ctx context.Context, id int) (bool, error) {
	return deleteByID(ctx, r.db, `DELETE FROM orders WHERE id = $1`, id)
}

func (r *PGStorage) GetOrdersCount(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM orders`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PGStorage) CountOrders(ctx context.Context, search string) (int, error) {
	query := `SELECT COUNT(1) FROM orders WHERE ` + orderSearchClause
	var total int
	if err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(search)).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanOrder(row rowScanner) (types.Order, error) {
	var order types.Order
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerAvatar,
		&order.Amount,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Order{}, ErrNotFound
		}
		return types.Order{}, err
	}
	order.CreatedAt = dbTime(order.CreatedAt)
	return order, nil
}
