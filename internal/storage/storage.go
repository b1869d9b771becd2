package storage

import (
	"context"
	"errors"
	"time"

	"github.com/taskorg/taskorg/internal/models"
)

var (
	// ErrNotFound is returned when no row matches the query. Ownership
	// mismatches surface as ErrNotFound too, since every lookup filters
	// by (id, user_id).
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned on a unique violation of users.email.
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	SetRefreshToken(ctx context.Context, userID, refreshToken string) error
	DeleteUser(ctx context.Context, id string) error
}

type TodoStore interface {
	CreateTodo(ctx context.Context, todo *models.Todo) error
	// ListTodos returns the user's todos ordered pinned first,
	// then newest first.
	ListTodos(ctx context.Context, userID string) ([]models.Todo, error)
	// ListTodosDue returns the user's todos with a due date inside
	// [from, to], both bounds inclusive, in ListTodos order.
	ListTodosDue(ctx context.Context, userID string, from, to time.Time) ([]models.Todo, error)
	GetTodo(ctx context.Context, id, userID string) (*models.Todo, error)
	UpdateTodo(ctx context.Context, todo *models.Todo) error
	DeleteTodo(ctx context.Context, id, userID string) (*models.Todo, error)
	DeleteCompleted(ctx context.Context, userID string) (int64, error)
}
