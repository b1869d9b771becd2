package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type RegisterParams struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authData struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}

func (c *Client) Register(ctx context.Context, params RegisterParams) (*User, error) {
	var data authData
	err := c.do(ctx, http.MethodPost, "/users/register", params, &data, false)
	if err != nil {
		return nil, err
	}

	c.setSession(Session{AccessToken: data.AccessToken, User: data.User})
	return data.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}

	var data authData
	err := c.do(ctx, http.MethodPost, "/users/login", body, &data, false)
	if err != nil {
		return nil, err
	}

	c.setSession(Session{AccessToken: data.AccessToken, User: data.User})
	return data.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/users/logout", nil, nil, true)
	// Local state goes away regardless: a failed logout call must not
	// leave the client believing it is still signed in.
	c.clearSession()
	return err
}

type userData struct {
	User *User `json:"user"`
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var data userData
	err := c.do(ctx, http.MethodGet, "/users/me", nil, &data, true)
	if err != nil {
		return nil, err
	}
	return data.User, nil
}

type ProfilePatch struct {
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (*User, error) {
	var data userData
	err := c.do(ctx, http.MethodPatch, "/users/update", patch, &data, true)
	if err != nil {
		return nil, err
	}

	session := c.Session()
	session.User = data.User
	c.setSession(session)
	return data.User, nil
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	err := c.do(ctx, http.MethodDelete, "/users/delete", nil, nil, true)
	if err != nil {
		return err
	}
	c.clearSession()
	return nil
}

type Todo struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Text        string     `json:"text"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	Pinned      bool       `json:"pinned"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type CreateTodoParams struct {
	Text        string     `json:"text"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Pinned      bool       `json:"pinned,omitempty"`
}

type todoData struct {
	Todo *Todo `json:"todo"`
}

type todoListData struct {
	Todos []Todo `json:"todos"`
}

func (c *Client) CreateTodo(ctx context.Context, params CreateTodoParams) (*Todo, error) {
	var data todoData
	err := c.do(ctx, http.MethodPost, "/todos", params, &data, true)
	if err != nil {
		return nil, err
	}
	return data.Todo, nil
}

func (c *Client) ListTodos(ctx context.Context) ([]Todo, error) {
	var data todoListData
	err := c.do(ctx, http.MethodGet, "/todos", nil, &data, true)
	if err != nil {
		return nil, err
	}
	return data.Todos, nil
}

// ListTodosByDate fetches the todos due on the given UTC calendar day,
// date formatted as YYYY-MM-DD.
func (c *Client) ListTodosByDate(ctx context.Context, date string) ([]Todo, error) {
	var data todoListData
	path := "/todos/by-date?date=" + url.QueryEscape(date)
	err := c.do(ctx, http.MethodGet, path, nil, &data, true)
	if err != nil {
		return nil, err
	}
	return data.Todos, nil
}

// TodoPatch mirrors the server's partial update: present fields
// overwrite, absent fields are left alone.
type TodoPatch struct {
	Text        *string    `json:"text,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Pinned      *bool      `json:"pinned,omitempty"`
}

func (c *Client) UpdateTodo(ctx context.Context, id string, patch TodoPatch) (*Todo, error) {
	var data todoData
	err := c.do(ctx, http.MethodPut, "/todos/"+id, patch, &data, true)
	if err != nil {
		return nil, err
	}
	return data.Todo, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id string) (*Todo, error) {
	var data todoData
	err := c.do(ctx, http.MethodDelete, "/todos/"+id, nil, &data, true)
	if err != nil {
		return nil, err
	}
	return data.Todo, nil
}

type deleteCompletedData struct {
	DeletedCount int64 `json:"deletedCount"`
}

func (c *Client) DeleteCompleted(ctx context.Context) (int64, error) {
	var data deleteCompletedData
	err := c.do(ctx, http.MethodDelete, "/todos/completed", nil, &data, true)
	if err != nil {
		return 0, err
	}
	return data.DeletedCount, nil
}
