package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskorg/taskorg/internal/services"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgMissingDateParam   = "date query parameter is required"
	msgRefreshTokenCookie = "refresh token missing"
	msgInternalError      = "internal server error"
)

// abortWithError is the single boundary between service error kinds and
// HTTP statuses. Anything unrecognized becomes a generic 500 so internals
// never leak to the caller.
func (h *handlerImpl) abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTextRequired),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidDate):
		abort(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		abort(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTodoNotFound):
		abort(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		abort(c, http.StatusConflict, err.Error())
	default:
		h.logger.Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg("unexpected handler error")
		abort(c, http.StatusInternalServerError, msgInternalError)
	}
}
