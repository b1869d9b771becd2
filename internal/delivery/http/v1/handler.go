package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taskorg/taskorg/internal/services"
)

type Handler interface {
	HandleAuthMiddleware(c *gin.Context)

	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleGetMe(c *gin.Context)
	HandleUpdateUser(c *gin.Context)
	HandleDeleteUser(c *gin.Context)

	HandleCreateTodo(c *gin.Context)
	HandleListTodos(c *gin.Context)
	HandleListTodosByDate(c *gin.Context)
	HandleUpdateTodo(c *gin.Context)
	HandleDeleteTodo(c *gin.Context)
	HandleDeleteCompleted(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	tokens services.TokenService
	auth   services.AuthService
	todos  services.TodoService
}

func New(
	logger zerolog.Logger,
	tokenService services.TokenService,
	authService services.AuthService,
	todoService services.TodoService,
) Handler {
	return &handlerImpl{
		logger: logger,
		tokens: tokenService,
		auth:   authService,
		todos:  todoService,
	}
}
