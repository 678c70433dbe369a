package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sashabakes/sasha-bakes/backend/internal/middleware"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

// AdminHandler serves the admin-only back-office: user access management
// and Sasha's training chat. Routes are mounted behind RequireRole(admin).
type AdminHandler struct {
	adminService    *service.AdminService
	trainingService *service.TrainingService
}

func NewAdminHandler(adminService *service.AdminService, trainingService *service.TrainingService) *AdminHandler {
	return &AdminHandler{adminService: adminService, trainingService: trainingService}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/training/chat", h.TrainingChat)

	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.PUT("/:id/role", h.SetRole)
		users.POST("/:id/promo", h.GrantPromo)
		users.DELETE("/:id/promo", h.RevokePromo)
		users.POST("/:id/mute", h.Mute)
		users.DELETE("/:id/mute", h.Unmute)
	}
}

// TrainingChat replies to the admin and reports how many insights were saved.
func (h *AdminHandler) TrainingChat(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.TrainingChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.trainingService.Chat(c.Request.Context(), adminID, req.Messages)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListUsers lists every user, or the one matching ?email=.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	if email := c.Query("email"); email != "" {
		user, err := h.adminService.FindUserByEmail(ctx, email)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}

	users, err := h.adminService.ListUsers(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	row, err := h.adminService.SetRole(c.Request.Context(), middleware.UserIDPtr(c), userID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *AdminHandler) GrantPromo(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.PromoGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	promo, err := h.adminService.GrantPromo(c.Request.Context(), middleware.UserIDPtr(c), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

func (h *AdminHandler) RevokePromo(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.RevokePromo(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) Mute(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.MuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	mute, err := h.adminService.Mute(c.Request.Context(), middleware.UserIDPtr(c), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mute)
}

func (h *AdminHandler) Unmute(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.Unmute(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
