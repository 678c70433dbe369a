package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sashabakes/sasha-bakes/backend/internal/middleware"
	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

type AuthResponse struct {
	Token  string              `json:"token"`
	User   *models.User        `json:"user"`
	Access *types.Capabilities `json:"access,omitempty"`
}

type AuthHandler struct {
	authService *service.AuthService
	guards      guards
}

func NewAuthHandler(authService *service.AuthService, g guards) *AuthHandler {
	return &AuthHandler{authService: authService, guards: g}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/password/reset-request", h.RequestPasswordReset)
		auth.POST("/password/reset", h.ResetPassword)

		authed := auth.Group("")
		authed.Use(h.guards.authed())
		authed.POST("/logout", h.Logout)
		authed.GET("/session", h.guards.access(), h.Session)
		authed.PUT("/password", h.UpdatePassword)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		respondError(c, service.ErrUnauthorized)
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Session returns the signed-in user with their effective capabilities.
func (h *AuthHandler) Session(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	caps := middleware.Access(c)
	c.JSON(http.StatusOK, AuthResponse{User: user, Access: &caps})
}

// RequestPasswordReset always answers 202 so callers cannot learn which accounts exist.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req types.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "If that account exists, a reset link is on its way."})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req types.PasswordResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
