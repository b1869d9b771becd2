package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskorg/taskorg/internal/models"
	"github.com/taskorg/taskorg/internal/storage"
)

type todoServiceImpl struct {
	logger zerolog.Logger
	todos  storage.TodoStore
}

func NewTodoService(
	logger zerolog.Logger,
	todos storage.TodoStore,
) TodoService {
	return &todoServiceImpl{
		logger: logger,
		todos:  todos,
	}
}

func (s *todoServiceImpl) CreateTodo(ctx context.Context, params CreateTodoParams) (*models.Todo, error) {
	text := strings.TrimSpace(params.Text)
	if text == "" {
		return nil, ErrTextRequired
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !models.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	now := time.Now()
	todo := &models.Todo{
		UserID:      params.UserID,
		Text:        text,
		Description: strings.TrimSpace(params.Description),
		Priority:    priority,
		DueDate:     params.DueDate,
		Pinned:      params.Pinned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	todoUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate todo uuid")
		return nil, err
	}
	todo.ID = todoUUID.String()

	err = s.todos.CreateTodo(ctx, todo)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert todo")
		return nil, err
	}

	s.logger.Info().
		Str("todo_id", todo.ID).
		Str("user_id", todo.UserID).
		Msg("created todo")
	return todo, nil
}

func (s *todoServiceImpl) ListTodos(ctx context.Context, userID string) ([]models.Todo, error) {
	todos, err := s.todos.ListTodos(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select todos")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(todos)).
		Str("user_id", userID).
		Msg("selected todos")
	return todos, nil
}

func (s *todoServiceImpl) ListTodosByDate(ctx context.Context, userID, date string) ([]models.Todo, error) {
	day, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}

	// Inclusive window over the UTC calendar day: midnight belongs to
	// this day, 23:59:59.999 is still inside it.
	from := day
	to := day.Add(24*time.Hour - time.Millisecond)

	todos, err := s.todos.ListTodosDue(ctx, userID, from, to)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("date", date).
			Msg("failed to select todos by date")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(todos)).
		Str("user_id", userID).
		Str("date", date).
		Msg("selected todos by date")
	return todos, nil
}

func (s *todoServiceImpl) UpdateTodo(ctx context.Context, params UpdateTodoParams) (*models.Todo, error) {
	todo, err := s.todos.GetTodo(ctx, params.ID, params.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", params.ID).
			Msg("failed to select todo")
		return nil, err
	}

	if params.Text != nil {
		text := strings.TrimSpace(*params.Text)
		if text == "" {
			return nil, ErrTextRequired
		}
		todo.Text = text
	}
	if params.Description != nil {
		todo.Description = strings.TrimSpace(*params.Description)
	}
	if params.Priority != nil {
		if !models.ValidPriority(*params.Priority) {
			return nil, ErrInvalidPriority
		}
		todo.Priority = *params.Priority
	}
	if params.DueDate != nil {
		todo.DueDate = params.DueDate
	}
	if params.Completed != nil {
		todo.Completed = *params.Completed
	}
	if params.Pinned != nil {
		todo.Pinned = *params.Pinned
	}
	todo.UpdatedAt = time.Now()

	err = s.todos.UpdateTodo(ctx, todo)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", todo.ID).
			Msg("failed to update todo")
		return nil, err
	}

	s.logger.Info().
		Str("todo_id", todo.ID).
		Str("user_id", todo.UserID).
		Msg("updated todo")
	return todo, nil
}

func (s *todoServiceImpl) DeleteTodo(ctx context.Context, id, userID string) (*models.Todo, error) {
	todo, err := s.todos.DeleteTodo(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", id).
			Msg("failed to delete todo")
		return nil, err
	}

	s.logger.Info().
		Str("todo_id", id).
		Str("user_id", userID).
		Msg("deleted todo")
	return todo, nil
}

func (s *todoServiceImpl) DeleteCompleted(ctx context.Context, userID string) (int64, error) {
	deleted, err := s.todos.DeleteCompleted(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete completed todos")
		return 0, err
	}

	s.logger.Info().
		Int64("deleted", deleted).
		Str("user_id", userID).
		Msg("deleted completed todos")
	return deleted, nil
}
