package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskorg/taskorg/internal/services"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

type registerRequest struct {
	FullName string `json:"fullName" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	result, err := h.auth.Register(c, services.RegisterParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	h.setSessionCookies(c, result)
	respond(c, http.StatusCreated, authResponse{
		User:        newUserResponse(result.User),
		AccessToken: result.AccessToken,
	}, "user registered successfully")
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=255"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	h.setSessionCookies(c, result)
	respond(c, http.StatusOK, authResponse{
		User:        newUserResponse(result.User),
		AccessToken: result.AccessToken,
	}, "login successful")
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func (h *handlerImpl) HandleRefresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		abort(c, http.StatusUnauthorized, msgRefreshTokenCookie)
		return
	}

	result, err := h.auth.Refresh(c, refreshToken)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	setAccessTokenCookie(c, result.AccessToken, time.Until(result.AccessTokenExpiresAt))
	respond(c, http.StatusOK, refreshResponse{
		AccessToken: result.AccessToken,
	}, "access token refreshed")
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "no user in context")
		return
	}

	err := h.auth.Logout(c, userID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	clearSessionCookies(c)
	respond(c, http.StatusOK, gin.H{}, "logged out successfully")
}

func (h *handlerImpl) HandleGetMe(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "no user in context")
		return
	}

	user, err := h.auth.GetUser(c, userID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"user": newUserResponse(user)}, "current user fetched")
}

type updateUserRequest struct {
	FullName *string `json:"fullName,omitempty" binding:"omitempty,max=255"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email,max=255"`
}

func (h *handlerImpl) HandleUpdateUser(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "no user in context")
		return
	}

	var req updateUserRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	user, err := h.auth.UpdateUser(c, services.UpdateUserParams{
		ID:       userID,
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"user": newUserResponse(user)}, "user updated successfully")
}

func (h *handlerImpl) HandleDeleteUser(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "no user in context")
		return
	}

	err := h.auth.DeleteUser(c, userID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	clearSessionCookies(c)
	respond(c, http.StatusOK, gin.H{}, "user deleted successfully")
}

func (h *handlerImpl) setSessionCookies(c *gin.Context, result *services.AuthResult) {
	now := time.Now()
	setAccessTokenCookie(c, result.AccessToken, result.AccessTokenExpiresAt.Sub(now))
	setRefreshTokenCookie(c, result.RefreshToken, result.RefreshTokenExpiresAt.Sub(now))
}

func setAccessTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	const secure, httpOnly = false, true
	c.SetCookie(accessTokenCookie, token, int(maxAge.Seconds()),
		"/", "", secure, httpOnly)
}

func setRefreshTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	const secure, httpOnly = false, true
	c.SetCookie(refreshTokenCookie, token, int(maxAge.Seconds()),
		"/", "", secure, httpOnly)
}

func clearSessionCookies(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", false, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", false, true)
}
