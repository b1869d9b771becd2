package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskorg/taskorg/internal/models"
	"github.com/taskorg/taskorg/internal/storage"
)

type mockTodoStore struct {
	created   *models.Todo
	updated   *models.Todo
	dueFrom   time.Time
	dueTo     time.Time
	getFunc   func(ctx context.Context, id, userID string) (*models.Todo, error)
	listFunc  func(ctx context.Context, userID string) ([]models.Todo, error)
	deleted   int64
	deleteErr error
}

func (m *mockTodoStore) CreateTodo(ctx context.Context, todo *models.Todo) error {
	m.created = todo
	return nil
}

func (m *mockTodoStore) ListTodos(ctx context.Context, userID string) ([]models.Todo, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockTodoStore) ListTodosDue(ctx context.Context, userID string, from, to time.Time) ([]models.Todo, error) {
	m.dueFrom, m.dueTo = from, to
	return nil, nil
}

func (m *mockTodoStore) GetTodo(ctx context.Context, id, userID string) (*models.Todo, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id, userID)
	}
	return nil, storage.ErrNotFound
}

func (m *mockTodoStore) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	m.updated = todo
	return nil
}

func (m *mockTodoStore) DeleteTodo(ctx context.Context, id, userID string) (*models.Todo, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return &models.Todo{ID: id, UserID: userID}, nil
}

func (m *mockTodoStore) DeleteCompleted(ctx context.Context, userID string) (int64, error) {
	return m.deleted, nil
}

func newTestTodoService(store storage.TodoStore) TodoService {
	return NewTodoService(zerolog.Nop(), store)
}

func TestCreateTodo_Defaults(t *testing.T) {
	store := &mockTodoStore{}
	svc := newTestTodoService(store)

	todo, err := svc.CreateTodo(context.Background(), CreateTodoParams{
		UserID: "user-1",
		Text:   "  Buy milk  ",
	})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}

	if todo.Text != "Buy milk" {
		t.Fatalf("expected trimmed text, got %q", todo.Text)
	}
	if todo.Priority != models.PriorityNormal {
		t.Fatalf("expected default priority normal, got %q", todo.Priority)
	}
	if todo.Completed || todo.Pinned {
		t.Fatal("expected completed and pinned to default to false")
	}
	if todo.ID == "" {
		t.Fatal("expected a generated id")
	}
	if store.created == nil {
		t.Fatal("expected the todo to be persisted")
	}
}

func TestCreateTodo_TextRequired(t *testing.T) {
	svc := newTestTodoService(&mockTodoStore{})

	_, err := svc.CreateTodo(context.Background(), CreateTodoParams{
		UserID: "user-1",
		Text:   "   ",
	})
	if !errors.Is(err, ErrTextRequired) {
		t.Fatalf("expected ErrTextRequired, got %v", err)
	}
}

func TestCreateTodo_InvalidPriority(t *testing.T) {
	svc := newTestTodoService(&mockTodoStore{})

	_, err := svc.CreateTodo(context.Background(), CreateTodoParams{
		UserID:   "user-1",
		Text:     "Buy milk",
		Priority: "urgent",
	})
	if !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestListTodosByDate_Window(t *testing.T) {
	store := &mockTodoStore{}
	svc := newTestTodoService(store)

	_, err := svc.ListTodosByDate(context.Background(), "user-1", "2024-01-05")
	if err != nil {
		t.Fatalf("ListTodosByDate: %v", err)
	}

	wantFrom := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 1, 5, 23, 59, 59, 999_000_000, time.UTC)
	if !store.dueFrom.Equal(wantFrom) {
		t.Fatalf("expected window start %v, got %v", wantFrom, store.dueFrom)
	}
	if !store.dueTo.Equal(wantTo) {
		t.Fatalf("expected window end %v, got %v", wantTo, store.dueTo)
	}
}

func TestListTodosByDate_BoundaryOwnership(t *testing.T) {
	// A due date of 23:59:59.999 sits inside its own day's window and
	// outside the next day's.
	due := time.Date(2024, 1, 5, 23, 59, 59, 999_000_000, time.UTC)

	store := &mockTodoStore{}
	svc := newTestTodoService(store)

	if _, err := svc.ListTodosByDate(context.Background(), "user-1", "2024-01-05"); err != nil {
		t.Fatalf("ListTodosByDate: %v", err)
	}
	if due.Before(store.dueFrom) || due.After(store.dueTo) {
		t.Fatalf("due %v should be inside [%v, %v]", due, store.dueFrom, store.dueTo)
	}

	if _, err := svc.ListTodosByDate(context.Background(), "user-1", "2024-01-06"); err != nil {
		t.Fatalf("ListTodosByDate: %v", err)
	}
	if !due.Before(store.dueFrom) {
		t.Fatalf("due %v should be before next day's window start %v", due, store.dueFrom)
	}
}

func TestListTodosByDate_InvalidDate(t *testing.T) {
	svc := newTestTodoService(&mockTodoStore{})

	_, err := svc.ListTodosByDate(context.Background(), "user-1", "05-01-2024")
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestUpdateTodo_MergesPresentFields(t *testing.T) {
	existing := &models.Todo{
		ID:          "todo-1",
		UserID:      "user-1",
		Text:        "Buy milk",
		Description: "2 liters",
		Priority:    models.PriorityNormal,
	}
	store := &mockTodoStore{
		getFunc: func(ctx context.Context, id, userID string) (*models.Todo, error) {
			if id == existing.ID && userID == existing.UserID {
				copied := *existing
				return &copied, nil
			}
			return nil, storage.ErrNotFound
		},
	}
	svc := newTestTodoService(store)

	completed := true
	priority := models.PriorityHigh
	todo, err := svc.UpdateTodo(context.Background(), UpdateTodoParams{
		ID:        "todo-1",
		UserID:    "user-1",
		Priority:  &priority,
		Completed: &completed,
	})
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}

	if todo.Priority != models.PriorityHigh || !todo.Completed {
		t.Fatalf("patched fields not applied: %+v", todo)
	}
	if todo.Text != "Buy milk" || todo.Description != "2 liters" {
		t.Fatalf("absent fields must stay untouched: %+v", todo)
	}
	if store.updated == nil {
		t.Fatal("expected merged todo to be persisted")
	}
}

func TestUpdateTodo_OtherUsersTodoIsNotFound(t *testing.T) {
	store := &mockTodoStore{
		getFunc: func(ctx context.Context, id, userID string) (*models.Todo, error) {
			// The store filters by (id, user_id), so a foreign todo
			// is indistinguishable from a missing one.
			return nil, storage.ErrNotFound
		},
	}
	svc := newTestTodoService(store)

	text := "hijack"
	_, err := svc.UpdateTodo(context.Background(), UpdateTodoParams{
		ID:     "todo-owned-by-someone-else",
		UserID: "user-2",
		Text:   &text,
	})
	if !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestUpdateTodo_EmptyTextRejected(t *testing.T) {
	store := &mockTodoStore{
		getFunc: func(ctx context.Context, id, userID string) (*models.Todo, error) {
			return &models.Todo{ID: id, UserID: userID, Text: "old"}, nil
		},
	}
	svc := newTestTodoService(store)

	empty := "   "
	_, err := svc.UpdateTodo(context.Background(), UpdateTodoParams{
		ID:     "todo-1",
		UserID: "user-1",
		Text:   &empty,
	})
	if !errors.Is(err, ErrTextRequired) {
		t.Fatalf("expected ErrTextRequired, got %v", err)
	}
}

func TestDeleteTodo_NotOwned(t *testing.T) {
	store := &mockTodoStore{deleteErr: storage.ErrNotFound}
	svc := newTestTodoService(store)

	_, err := svc.DeleteTodo(context.Background(), "todo-1", "user-2")
	if !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestDeleteCompleted_ZeroIsNotAnError(t *testing.T) {
	store := &mockTodoStore{deleted: 0}
	svc := newTestTodoService(store)

	deleted, err := svc.DeleteCompleted(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("DeleteCompleted: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected 0 deleted, got %d", deleted)
	}
}
