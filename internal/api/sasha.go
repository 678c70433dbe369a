package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sashabakes/sasha-bakes/backend/internal/middleware"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

// SashaHandler serves the public chat with Sasha and the signed-in user's saved conversations.
type SashaHandler struct {
	chatService *service.ChatService
	limiter     *middleware.RateLimiter
	guards      guards
}

func NewSashaHandler(chatService *service.ChatService, limiter *middleware.RateLimiter, g guards) *SashaHandler {
	return &SashaHandler{chatService: chatService, limiter: limiter, guards: g}
}

func (h *SashaHandler) RegisterRoutes(router *gin.RouterGroup) {
	sasha := router.Group("/sasha")
	{
		sasha.POST("/chat", h.guards.optional(), h.guards.access(), h.limiter.Middleware(), h.Chat)

		conversations := sasha.Group("/conversations")
		conversations.Use(h.guards.authed())
		conversations.GET("", h.ListConversations)
		conversations.POST("", h.CreateConversation)
		conversations.GET("/:id/messages", h.ListMessages)
		conversations.DELETE("/:id", h.DeleteConversation)
	}
}

// Chat answers with Sasha's reply. The bearer token is optional; an invalid one
// is treated as anonymous.
func (h *SashaHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	reply, err := h.chatService.Chat(c.Request.Context(), service.ChatInput{
		UserID:         middleware.UserIDPtr(c),
		Access:         middleware.Access(c),
		Turns:          req.Messages,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ChatResponse{Message: reply})
}

func (h *SashaHandler) ListConversations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	convs, err := h.chatService.ListConversations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

func (h *SashaHandler) CreateConversation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.ConversationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	conv, err := h.chatService.CreateConversation(c.Request.Context(), userID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

func (h *SashaHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := pathID(c, "id")
	if !ok {
		return
	}

	msgs, err := h.chatService.Messages(c.Request.Context(), userID, convID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *SashaHandler) DeleteConversation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.chatService.DeleteConversation(c.Request.Context(), userID, convID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
