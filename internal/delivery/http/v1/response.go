package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskorg/taskorg/internal/models"
)

// Every endpoint answers with the same envelope, success or not.
type response struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, response{
		Success:    true,
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, response{
		Success:    false,
		StatusCode: status,
		Message:    message,
	})
}

// userResponse deliberately has no password field: the hash never
// leaves the server on any read path.
type userResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type todoResponse struct {
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

func newTodoResponse(todo *models.Todo) todoResponse {
	return todoResponse{
		ID:          todo.ID,
		UserID:      todo.UserID,
		Text:        todo.Text,
		Description: todo.Description,
		Priority:    todo.Priority,
		DueDate:     todo.DueDate,
		Completed:   todo.Completed,
		Pinned:      todo.Pinned,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func newTodoListResponse(todos []models.Todo) []todoResponse {
	list := make([]todoResponse, len(todos))
	for i := range todos {
		list[i] = newTodoResponse(&todos[i])
	}
	return list
}
