package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskorg/taskorg/internal/models"
)

type postgresTodoStore struct {
	pgPool *pgxpool.Pool
}

func NewPostgresTodoStore(pgPool *pgxpool.Pool) TodoStore {
	return &postgresTodoStore{pgPool: pgPool}
}

func (s *postgresTodoStore) CreateTodo(ctx context.Context, todo *models.Todo) error {
	const insertTodoQuery = `
INSERT INTO todos (id,
                   user_id,
                   text,
                   description,
                   priority,
                   due_date,
                   completed,
                   pinned,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := s.pgPool.Exec(
		ctx,
		insertTodoQuery,
		todo.ID,
		todo.UserID,
		todo.Text,
		todo.Description,
		todo.Priority,
		todo.DueDate,
		todo.Completed,
		todo.Pinned,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	return err
}

func (s *postgresTodoStore) ListTodos(ctx context.Context, userID string) ([]models.Todo, error) {
	const selectTodosQuery = `
SELECT id,
       text,
       description,
       priority,
       due_date,
       completed,
       pinned,
       created_at,
       updated_at
FROM todos
WHERE user_id = $1
ORDER BY pinned DESC, created_at DESC
`
	rows, err := s.pgPool.Query(ctx, selectTodosQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTodos(rows, userID)
}

func (s *postgresTodoStore) ListTodosDue(ctx context.Context, userID string, from, to time.Time) ([]models.Todo, error) {
	const selectTodosDueQuery = `
SELECT id,
       text,
       description,
       priority,
       due_date,
       completed,
       pinned,
       created_at,
       updated_at
FROM todos
WHERE user_id = $1 AND
      due_date >= $2 AND
      due_date <= $3
ORDER BY pinned DESC, created_at DESC
`
	rows, err := s.pgPool.Query(ctx, selectTodosDueQuery, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTodos(rows, userID)
}

func scanTodos(rows pgx.Rows, userID string) ([]models.Todo, error) {
	todos := make([]models.Todo, 0)
	for rows.Next() {
		todo := models.Todo{UserID: userID}
		err := rows.Scan(
			&todo.ID,
			&todo.Text,
			&todo.Description,
			&todo.Priority,
			&todo.DueDate,
			&todo.Completed,
			&todo.Pinned,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

func (s *postgresTodoStore) GetTodo(ctx context.Context, id, userID string) (*models.Todo, error) {
	todo := &models.Todo{ID: id, UserID: userID}

	const selectTodoQuery = `
SELECT text,
       description,
       priority,
       due_date,
       completed,
       pinned,
       created_at,
       updated_at
FROM todos
WHERE id = $1 AND user_id = $2
`
	err := s.pgPool.QueryRow(
		ctx,
		selectTodoQuery,
		todo.ID,
		todo.UserID,
	).Scan(
		&todo.Text,
		&todo.Description,
		&todo.Priority,
		&todo.DueDate,
		&todo.Completed,
		&todo.Pinned,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *postgresTodoStore) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	// user_id is part of the filter, never of the SET list.
	const updateTodoQuery = `
UPDATE todos
SET text = $1,
    description = $2,
    priority = $3,
    due_date = $4,
    completed = $5,
    pinned = $6,
    updated_at = $7
WHERE id = $8 AND user_id = $9
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateTodoQuery,
		todo.Text,
		todo.Description,
		todo.Priority,
		todo.DueDate,
		todo.Completed,
		todo.Pinned,
		todo.UpdatedAt,
		todo.ID,
		todo.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *postgresTodoStore) DeleteTodo(ctx context.Context, id, userID string) (*models.Todo, error) {
	todo := &models.Todo{ID: id, UserID: userID}

	const deleteTodoQuery = `
DELETE FROM todos
WHERE id = $1 AND user_id = $2
RETURNING text, description, priority, due_date, completed, pinned, created_at, updated_at
`
	err := s.pgPool.QueryRow(
		ctx,
		deleteTodoQuery,
		todo.ID,
		todo.UserID,
	).Scan(
		&todo.Text,
		&todo.Description,
		&todo.Priority,
		&todo.DueDate,
		&todo.Completed,
		&todo.Pinned,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *postgresTodoStore) DeleteCompleted(ctx context.Context, userID string) (int64, error) {
	const deleteCompletedQuery = `
DELETE FROM todos
WHERE user_id = $1 AND completed = TRUE
`
	tag, err := s.pgPool.Exec(ctx, deleteCompletedQuery, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
