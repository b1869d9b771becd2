package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskorg/taskorg/internal/services"
)

type createTodoRequest struct {
	Text        string     `json:"text" binding:"required,max=500"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Pinned      bool       `json:"pinned,omitempty"`
}

func (h *handlerImpl) HandleCreateTodo(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "no user in context")
		return
	}

	var req createTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	todo, err := h.todos.CreateTodo(c, services.CreateTodoParams{
		UserID:      userID,
		Text:        req.Text,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Pinned:      req.Pinned,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"todo": newTodoResponse(todo)}, "todo created successfully")
}

func (h *handlerImpl) HandleListTodos(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "no user in context")
		return
	}

	todos, err := h.todos.ListTodos(c, userID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"todos": newTodoListResponse(todos)}, "todos fetched successfully")
}

func (h *handlerImpl) HandleListTodosByDate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "no user in context")
		return
	}

	date := c.Query("date")
	if date == "" {
		abort(c, http.StatusBadRequest, msgMissingDateParam)
		return
	}

	todos, err := h.todos.ListTodosByDate(c, userID, date)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"todos": newTodoListResponse(todos)}, "todos for selected date fetched successfully")
}

type updateTodoRequest struct {
	Text        *string    `json:"text,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Pinned      *bool      `json:"pinned,omitempty"`
}

func (h *handlerImpl) HandleUpdateTodo(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "no user in context")
		return
	}

	todoID := c.Param("id")
	if todoID == "" {
		abort(c, http.StatusBadRequest, "todo id is required")
		return
	}

	var req updateTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	todo, err := h.todos.UpdateTodo(c, services.UpdateTodoParams{
		ID:          todoID,
		UserID:      userID,
		Text:        req.Text,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
		Pinned:      req.Pinned,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"todo": newTodoResponse(todo)}, "todo updated successfully")
}

func (h *handlerImpl) HandleDeleteTodo(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "no user in context")
		return
	}

	todoID := c.Param("id")
	if todoID == "" {
		abort(c, http.StatusBadRequest, "todo id is required")
		return
	}

	todo, err := h.todos.DeleteTodo(c, todoID, userID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"todo": newTodoResponse(todo)}, "todo deleted successfully")
}

type deleteCompletedResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

func (h *handlerImpl) HandleDeleteCompleted(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "no user in context")
		return
	}

	deleted, err := h.todos.DeleteCompleted(c, userID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, deleteCompletedResponse{DeletedCount: deleted}, "completed todos deleted successfully")
}
