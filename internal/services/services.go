package services

import (
	"context"
	"errors"
	"time"

	"github.com/taskorg/taskorg/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTodoNotFound       = errors.New("todo not found")
	ErrTextRequired       = errors.New("todo text is required")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
)

// TokenService mints and checks the two JWT kinds. Access tokens are
// stateless; refresh tokens are additionally checked against the single
// value stored on the user row, so a login overwrite or a logout revokes
// every previously issued refresh token at once.
type TokenService interface {
	IssueAccessToken(userID string) (token string, expiresAt time.Time, err error)
	IssueRefreshToken(userID string) (token string, expiresAt time.Time, err error)

	// VerifyAccessToken returns the user ID carried by the token or
	// ErrInvalidToken on a bad signature, issuer or expiry.
	VerifyAccessToken(token string) (string, error)

	// VerifyRefreshToken performs the same checks and then requires the
	// token to exactly match the user's stored refresh token.
	VerifyRefreshToken(ctx context.Context, token string) (string, error)
}

type AuthService interface {
	// Register creates the user, issues both tokens and persists the
	// refresh token. Returns ErrEmailTaken on a duplicate email.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login verifies the credentials and performs the same issuance as
	// Register, overwriting any previously stored refresh token.
	// Unknown email and wrong password are indistinguishable: both
	// return ErrInvalidCredentials.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// Logout clears the stored refresh token, revoking all outstanding
	// refresh capability for the user.
	Logout(ctx context.Context, userID string) error

	// Refresh exchanges a valid refresh token for a new access token.
	// The refresh token itself is not rotated here.
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)

	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, params UpdateUserParams) (*models.User, error)

	// DeleteUser removes the account and, by cascade, all of its todos.
	DeleteUser(ctx context.Context, userID string) error
}

// TodoService scopes every operation to the owning user. Ownership
// mismatches are reported as ErrTodoNotFound, never as a distinct
// "forbidden" kind, so record existence is not leaked across users.
type TodoService interface {
	CreateTodo(ctx context.Context, params CreateTodoParams) (*models.Todo, error)
	ListTodos(ctx context.Context, userID string) ([]models.Todo, error)

	// ListTodosByDate returns the todos due within the UTC calendar day
	// named by date (YYYY-MM-DD), both midnight and end of day inclusive.
	ListTodosByDate(ctx context.Context, userID, date string) ([]models.Todo, error)

	UpdateTodo(ctx context.Context, params UpdateTodoParams) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id, userID string) (*models.Todo, error)
	DeleteCompleted(ctx context.Context, userID string) (int64, error)
}

type RegisterParams struct {
	FullName string
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User                  *models.User
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshResult struct {
	UserID               string
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

type UpdateUserParams struct {
	ID       string
	FullName *string
	Email    *string
}

type CreateTodoParams struct {
	UserID      string
	Text        string
	Description string
	Priority    string
	DueDate     *time.Time
	Pinned      bool
}

// UpdateTodoParams is an explicit patch: each present field overwrites
// the stored one. The owner is taken from the session, never from input.
type UpdateTodoParams struct {
	ID          string
	UserID      string
	Text        *string
	Description *string
	Priority    *string
	DueDate     *time.Time
	Completed   *bool
	Pinned      *bool
}
