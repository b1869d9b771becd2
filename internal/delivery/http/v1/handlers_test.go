package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taskorg/taskorg/internal/models"
	"github.com/taskorg/taskorg/internal/services"
)

const (
	testUserID      = "user-1"
	testAccessToken = "valid-access-token"
)

type mockTokenService struct{}

func (m *mockTokenService) IssueAccessToken(userID string) (string, time.Time, error) {
	return testAccessToken, time.Now().Add(15 * time.Minute), nil
}

func (m *mockTokenService) IssueRefreshToken(userID string) (string, time.Time, error) {
	return "refresh-token", time.Now().Add(time.Hour), nil
}

func (m *mockTokenService) VerifyAccessToken(token string) (string, error) {
	if token == testAccessToken {
		return testUserID, nil
	}
	return "", services.ErrInvalidToken
}

func (m *mockTokenService) VerifyRefreshToken(ctx context.Context, token string) (string, error) {
	if token == "valid-refresh" {
		return testUserID, nil
	}
	return "", services.ErrInvalidToken
}

type mockAuthService struct {
	registerFunc func(ctx context.Context, params services.RegisterParams) (*services.AuthResult, error)
	loginFunc    func(ctx context.Context, params services.LoginParams) (*services.AuthResult, error)
	refreshFunc  func(ctx context.Context, refreshToken string) (*services.RefreshResult, error)
	logoutCalls  int
}

func (m *mockAuthService) Register(ctx context.Context, params services.RegisterParams) (*services.AuthResult, error) {
	return m.registerFunc(ctx, params)
}

func (m *mockAuthService) Login(ctx context.Context, params services.LoginParams) (*services.AuthResult, error) {
	return m.loginFunc(ctx, params)
}

func (m *mockAuthService) Logout(ctx context.Context, userID string) error {
	m.logoutCalls++
	return nil
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*services.RefreshResult, error) {
	return m.refreshFunc(ctx, refreshToken)
}

func (m *mockAuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return &models.User{ID: userID, FullName: "Ada", Email: "ada@example.com", Password: "argon2-hash"}, nil
}

func (m *mockAuthService) UpdateUser(ctx context.Context, params services.UpdateUserParams) (*models.User, error) {
	user := &models.User{ID: params.ID, FullName: "Ada", Email: "ada@example.com"}
	if params.FullName != nil {
		user.FullName = *params.FullName
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	return user, nil
}

func (m *mockAuthService) DeleteUser(ctx context.Context, userID string) error {
	return nil
}

type mockTodoService struct {
	createFunc          func(ctx context.Context, params services.CreateTodoParams) (*models.Todo, error)
	listFunc            func(ctx context.Context, userID string) ([]models.Todo, error)
	listByDateFunc      func(ctx context.Context, userID, date string) ([]models.Todo, error)
	updateFunc          func(ctx context.Context, params services.UpdateTodoParams) (*models.Todo, error)
	deleteFunc          func(ctx context.Context, id, userID string) (*models.Todo, error)
	deleteCompletedFunc func(ctx context.Context, userID string) (int64, error)
}

func (m *mockTodoService) CreateTodo(ctx context.Context, params services.CreateTodoParams) (*models.Todo, error) {
	return m.createFunc(ctx, params)
}

func (m *mockTodoService) ListTodos(ctx context.Context, userID string) ([]models.Todo, error) {
	return m.listFunc(ctx, userID)
}

func (m *mockTodoService) ListTodosByDate(ctx context.Context, userID, date string) ([]models.Todo, error) {
	return m.listByDateFunc(ctx, userID, date)
}

func (m *mockTodoService) UpdateTodo(ctx context.Context, params services.UpdateTodoParams) (*models.Todo, error) {
	return m.updateFunc(ctx, params)
}

func (m *mockTodoService) DeleteTodo(ctx context.Context, id, userID string) (*models.Todo, error) {
	return m.deleteFunc(ctx, id, userID)
}

func (m *mockTodoService) DeleteCompleted(ctx context.Context, userID string) (int64, error) {
	return m.deleteCompletedFunc(ctx, userID)
}

// newTestRouter mounts the handler on the same routes the app uses.
func newTestRouter(auth services.AuthService, todos services.TodoService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := New(zerolog.Nop(), &mockTokenService{}, auth, todos)

	router := gin.New()
	api := router.Group("/api/v1")

	users := api.Group("/users")
	users.POST("/register", handler.HandleRegister)
	users.POST("/login", handler.HandleLogin)
	users.POST("/refresh-token", handler.HandleRefresh)
	users.POST("/logout", handler.HandleAuthMiddleware, handler.HandleLogout)
	users.GET("/me", handler.HandleAuthMiddleware, handler.HandleGetMe)
	users.PATCH("/update", handler.HandleAuthMiddleware, handler.HandleUpdateUser)
	users.DELETE("/delete", handler.HandleAuthMiddleware, handler.HandleDeleteUser)

	todoRoutes := api.Group("/todos", handler.HandleAuthMiddleware)
	todoRoutes.GET("", handler.HandleListTodos)
	todoRoutes.POST("", handler.HandleCreateTodo)
	todoRoutes.GET("/by-date", handler.HandleListTodosByDate)
	todoRoutes.DELETE("/completed", handler.HandleDeleteCompleted)
	todoRoutes.PUT("/:id", handler.HandleUpdateTodo)
	todoRoutes.DELETE("/:id", handler.HandleDeleteTodo)

	return router
}

type testEnvelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any, authed bool) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testAccessToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", w.Body.String(), err)
	}
	return w, env
}
