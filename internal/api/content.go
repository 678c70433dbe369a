package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sashabakes/sasha-bakes/backend/internal/middleware"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

// ContentHandler serves the public site content and the community forum.
type ContentHandler struct {
	stores    *service.Stores
	community *service.CommunityService
	guards    guards
}

func NewContentHandler(stores *service.Stores, community *service.CommunityService, g guards) *ContentHandler {
	return &ContentHandler{stores: stores, community: community, guards: g}
}

func (h *ContentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tools", h.ListTools)
	router.GET("/wellness", h.ListWellness)
	router.GET("/bakers", h.ListBakers)
	router.GET("/blog", h.ListBlogPosts)
	router.GET("/blog/:slug", h.GetBlogPost)
	router.GET("/support", h.ListSupport)
	router.POST("/support/:id/click", h.guards.optional(), h.RecordSupportClick)

	forum := router.Group("/forum")
	{
		forum.GET("/posts", h.ListPosts)
		forum.GET("/posts/:id", h.GetPost)

		authed := forum.Group("")
		authed.Use(h.guards.authed(), h.guards.access())
		authed.POST("/posts", h.CreatePost)
		authed.POST("/posts/:id/comments", h.CreateComment)
		authed.DELETE("/posts/:id", h.DeletePost)
		authed.DELETE("/comments/:id", h.DeleteComment)
	}
}

func (h *ContentHandler) ListTools(c *gin.Context) {
	tools, err := h.stores.Tools.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tools)
}

func (h *ContentHandler) ListWellness(c *gin.Context) {
	items, err := h.stores.Wellness.List(c.Request.Context(), service.Published)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ContentHandler) ListBakers(c *gin.Context) {
	bakers, err := h.stores.Bakers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bakers)
}

func (h *ContentHandler) ListBlogPosts(c *gin.Context) {
	posts, err := h.stores.Blog.List(c.Request.Context(), service.Published)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *ContentHandler) GetBlogPost(c *gin.Context) {
	post, err := h.community.BlogPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *ContentHandler) ListSupport(c *gin.Context) {
	settings, err := h.stores.Support.List(c.Request.Context(), service.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *ContentHandler) RecordSupportClick(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.community.RecordSupportClick(c.Request.Context(), id, middleware.UserIDPtr(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPosts accepts an optional ?category= filter.
func (h *ContentHandler) ListPosts(c *gin.Context) {
	posts, err := h.community.ListPosts(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *ContentHandler) GetPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.community.GetPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *ContentHandler) CreatePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.ForumPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.community.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *ContentHandler) CreateComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.ForumCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.community.CreateComment(c.Request.Context(), userID, postID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *ContentHandler) DeletePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.community.DeletePost(c.Request.Context(), userID, middleware.Access(c), postID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.community.DeleteComment(c.Request.Context(), userID, middleware.Access(c), commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
