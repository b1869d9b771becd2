package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskorg/taskorg/internal/config"
	v1 "github.com/taskorg/taskorg/internal/delivery/http/v1"
	"github.com/taskorg/taskorg/internal/pkg/metrics"
	"github.com/taskorg/taskorg/internal/services"
	"github.com/taskorg/taskorg/internal/storage"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router *gin.Engine) {
	jwtCfg := config.Global().JWT

	userStore := storage.NewPostgresUserStore(globalPostgresPool)
	todoStore := storage.NewPostgresTodoStore(globalPostgresPool)

	tokenService := services.NewTokenService(
		globalLogger,
		userStore,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
		jwtCfg.RefreshTokenTTL,
	)
	authService := services.NewAuthService(globalLogger, userStore, tokenService)
	todoService := services.NewTodoService(globalLogger, todoStore)

	handler := v1.New(globalLogger, tokenService, authService, todoService)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	users := api.Group("/users")
	users.POST("/register", handler.HandleRegister)
	users.POST("/login", handler.HandleLogin)
	users.POST("/refresh-token", handler.HandleRefresh)
	users.POST("/logout", handler.HandleAuthMiddleware, handler.HandleLogout)
	users.GET("/me", handler.HandleAuthMiddleware, handler.HandleGetMe)
	users.PATCH("/update", handler.HandleAuthMiddleware, handler.HandleUpdateUser)
	users.DELETE("/delete", handler.HandleAuthMiddleware, handler.HandleDeleteUser)

	todos := api.Group("/todos", handler.HandleAuthMiddleware)
	todos.GET("", handler.HandleListTodos)
	todos.POST("", handler.HandleCreateTodo)
	todos.GET("/by-date", handler.HandleListTodosByDate)
	todos.DELETE("/completed", handler.HandleDeleteCompleted)
	todos.PUT("/:id", handler.HandleUpdateTodo)
	todos.DELETE("/:id", handler.HandleDeleteTodo)
}
