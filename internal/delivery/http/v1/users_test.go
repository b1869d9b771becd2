package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/taskorg/taskorg/internal/models"
	"github.com/taskorg/taskorg/internal/services"
)

func authResultFor(user *models.User) *services.AuthResult {
	now := time.Now()
	return &services.AuthResult{
		User:                  user,
		AccessToken:           testAccessToken,
		AccessTokenExpiresAt:  now.Add(15 * time.Minute),
		RefreshToken:          "refresh-token",
		RefreshTokenExpiresAt: now.Add(time.Hour),
	}
}

func TestRegister_Created(t *testing.T) {
	auth := &mockAuthService{
		registerFunc: func(ctx context.Context, params services.RegisterParams) (*services.AuthResult, error) {
			return authResultFor(&models.User{
				ID:       testUserID,
				FullName: params.FullName,
				Email:    params.Email,
				Password: "argon2id-hash-value",
			}), nil
		},
	}
	router := newTestRouter(auth, &mockTodoService{})

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/users/register", map[string]string{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "s3cret-pass",
	}, false)

	if w.Code != http.StatusCreated || !env.Success {
		t.Fatalf("expected 201 success, got %d %q", w.Code, env.Message)
	}

	var data struct {
		User        map[string]any `json:"user"`
		AccessToken string         `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.AccessToken != testAccessToken {
		t.Fatalf("expected access token in body, got %q", data.AccessToken)
	}
	if data.User["email"] != "ada@example.com" {
		t.Fatalf("unexpected user payload: %v", data.User)
	}

	// The secret must not appear anywhere in the response.
	if strings.Contains(w.Body.String(), "argon2id-hash-value") ||
		strings.Contains(w.Body.String(), "password") {
		t.Fatalf("response leaks the password field: %s", w.Body.String())
	}

	cookies := w.Result().Cookies()
	var names []string
	for _, cookie := range cookies {
		names = append(names, cookie.Name)
	}
	if len(cookies) != 2 {
		t.Fatalf("expected both token cookies, got %v", names)
	}
}

func TestRegister_MissingField(t *testing.T) {
	router := newTestRouter(&mockAuthService{}, &mockTodoService{})

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/users/register", map[string]string{
		"email":    "ada@example.com",
		"password": "s3cret-pass",
	}, false)

	if w.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400 failure, got %d", w.Code)
	}
}

func TestRegister_Conflict(t *testing.T) {
	auth := &mockAuthService{
		registerFunc: func(ctx context.Context, params services.RegisterParams) (*services.AuthResult, error) {
			return nil, services.ErrEmailTaken
		},
	}
	router := newTestRouter(auth, &mockTodoService{})

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/users/register", map[string]string{
		"fullName": "Ada",
		"email":    "ada@example.com",
		"password": "s3cret-pass",
	}, false)

	if w.Code != http.StatusConflict || env.Success {
		t.Fatalf("expected 409 failure, got %d", w.Code)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	auth := &mockAuthService{
		loginFunc: func(ctx context.Context, params services.LoginParams) (*services.AuthResult, error) {
			return nil, services.ErrInvalidCredentials
		},
	}
	router := newTestRouter(auth, &mockTodoService{})

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/users/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	}, false)

	if w.Code != http.StatusUnauthorized || env.Success {
		t.Fatalf("expected 401 failure, got %d", w.Code)
	}
}

func TestRefresh_MissingCookie(t *testing.T) {
	router := newTestRouter(&mockAuthService{}, &mockTodoService{})

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/users/refresh-token", nil, false)

	if w.Code != http.StatusUnauthorized || env.Success {
		t.Fatalf("expected 401 failure, got %d", w.Code)
	}
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	auth := &mockAuthService{
		refreshFunc: func(ctx context.Context, refreshToken string) (*services.RefreshResult, error) {
			if refreshToken != "valid-refresh" {
				return nil, services.ErrInvalidToken
			}
			return &services.RefreshResult{
				UserID:               testUserID,
				AccessToken:          "fresh-access-token",
				AccessTokenExpiresAt: time.Now().Add(15 * time.Minute),
			}, nil
		},
	}
	router := newTestRouter(auth, &mockTodoService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "valid-refresh"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var env testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.AccessToken != "fresh-access-token" {
		t.Fatalf("expected fresh access token, got %q", data.AccessToken)
	}
}

func TestLogout_ClearsCookies(t *testing.T) {
	auth := &mockAuthService{}
	router := newTestRouter(auth, &mockTodoService{})

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/users/logout", nil, true)

	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 success, got %d", w.Code)
	}
	if auth.logoutCalls != 1 {
		t.Fatalf("expected one logout call, got %d", auth.logoutCalls)
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge >= 0 {
			t.Fatalf("expected cookie %q to be expired, got MaxAge %d", cookie.Name, cookie.MaxAge)
		}
	}
}

func TestGetMe_HidesSecret(t *testing.T) {
	router := newTestRouter(&mockAuthService{}, &mockTodoService{})

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/users/me", nil, true)

	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 success, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "argon2-hash") {
		t.Fatalf("response leaks the password hash: %s", w.Body.String())
	}
}

func TestUpdateUser_Patch(t *testing.T) {
	router := newTestRouter(&mockAuthService{}, &mockTodoService{})

	w, env := doRequest(t, router, http.MethodPatch, "/api/v1/users/update", map[string]string{
		"fullName": "Ada King",
	}, true)

	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 success, got %d", w.Code)
	}
	var data struct {
		User map[string]any `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.User["fullName"] != "Ada King" {
		t.Fatalf("expected patched name, got %v", data.User["fullName"])
	}
	if data.User["email"] != "ada@example.com" {
		t.Fatalf("absent field must stay untouched, got %v", data.User["email"])
	}
}
