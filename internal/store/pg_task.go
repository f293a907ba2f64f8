package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/adminboard/apiserver/types"
)

const taskColumns = `id, title, description, status, priority, category, assignee_id, assignee_name, assignee_avatar, progress, created_at`

func (r *PGStorage) GetTasks(ctx context.Context, filter TaskFilter) ([]types.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, string(filter.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]types.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *PGStorage) GetTask(ctx context.Context, id int) (types.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRowContext(ctx, query, id))
}

func (r *PGStorage) CreateTask(ctx context.Context, input types.NewTask) (types.Task, error) {
	task := input.Build(0, dbTime(time.Now()))

	const query = `
		INSERT INTO tasks (title, description, status, priority, category, assignee_id, assignee_name, assignee_avatar, progress, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		string(task.Category),
		task.AssigneeID,
		task.AssigneeName,
		task.AssigneeAvatar,
		task.Progress,
		task.CreatedAt,
	).Scan(&task.ID); err != nil {
		return types.Task{}, err
	}
	return task, nil
}

func (r *PGStorage) UpdateTask(ctx context.Context, id int, patch types.TaskPatch) (types.Task, error) {
	var updated types.Task
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`
		current, err := scanTask(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			return err
		}
		updated = patch.Apply(current)

		const update = `
			UPDATE tasks
			SET title = $1,
				description = $2,
				status = $3,
				priority = $4,
				category = $5,
				assignee_id = $6,
				assignee_name = $7,
				assignee_avatar = $8,
				progress = $9
			WHERE id = $10`
		_, err = tx.ExecContext(
			ctx,
			update,
			updated.Title,
			updated.Description,
			string(updated.Status),
			string(updated.Priority),
			string(updated.Category),
			updated.AssigneeID,
			updated.AssigneeName,
			updated.AssigneeAvatar,
			updated.Progress,
			id,
		)
		return err
	})
	if err != nil {
		return types.Task{}, err
	}
	return updated, nil
}

func (r *PGStorage) DeleteTask(ctx context.Context, id int) (bool, error) {
	return deleteByID(ctx, r.db, `DELETE FROM tasks WHERE id = $1`, id)
}

func scanTask(row rowScanner) (types.Task, error) {
	var task types.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Category,
		&task.AssigneeID,
		&task.AssigneeName,
		&task.AssigneeAvatar,
		&task.Progress,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Task{}, ErrNotFound
		}
		return types.Task{}, err
	}
	task.CreatedAt = dbTime(task.CreatedAt)
	return task, nil
}
