package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sashabakes/sasha-bakes/backend/internal/service"
)

type identityResetter interface {
	ResetIdentity()
}

// ResourceHandler exposes list/get/create/update/delete for one back-office table.
type ResourceHandler[T any] struct {
	store *service.Store[T]
}

func NewResourceHandler[T any](store *service.Store[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{store: store}
}

// Register mounts the handler's routes at path under router.
func (h *ResourceHandler[T]) Register(router *gin.RouterGroup, path string) {
	group := router.Group(path)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}

func (h *ResourceHandler[T]) List(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ResourceHandler[T]) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ResourceHandler[T]) Create(c *gin.Context) {
	item, ok := h.bind(c)
	if !ok {
		return
	}

	if err := h.store.Create(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ResourceHandler[T]) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, ok := h.bind(c)
	if !ok {
		return
	}

	updated, err := h.store.Update(c.Request.Context(), id, item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler[T]) bind(c *gin.Context) (*T, bool) {
	item := new(T)
	if err := c.ShouldBindJSON(item); err != nil {
		badRequest(c, err)
		return nil, false
	}
	if r, ok := any(item).(identityResetter); ok {
		r.ResetIdentity()
	}
	return item, true
}
