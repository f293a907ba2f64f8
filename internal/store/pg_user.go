package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adminboard/apiserver/types"
)

func (r *PGStorage) GetUser(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT id, username, password
		FROM users
		WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PGStorage) GetUserByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `
		SELECT id, username, password
		FROM users
		WHERE username = $1
		ORDER BY id
		LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PGStorage) CreateUser(ctx context.Context, input types.NewUser) (types.User, error) {
	user := types.User{Username: input.Username, Password: input.Password}

	const query = `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, user.Username, user.Password).Scan(&user.ID); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func scanUser(row rowScanner) (types.User, error) {
	var user types.User
	if err := row.Scan(&user.ID, &user.Username, &user.Password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
