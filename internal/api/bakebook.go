package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sashabakes/sasha-bakes/backend/internal/middleware"
	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

// EntryResponse is a saved recipe with the recipe gated for the caller's tier.
type EntryResponse struct {
	ID         uuid.UUID         `json:"id"`
	RecipeID   uuid.UUID         `json:"recipe_id"`
	BakeBookID *uuid.UUID        `json:"bakebook_id,omitempty"`
	Notes      string            `json:"notes"`
	Recipe     *types.RecipeView `json:"recipe,omitempty"`
}

func entryResponse(e *models.BakeBookEntry, caps types.Capabilities) EntryResponse {
	resp := EntryResponse{ID: e.ID, RecipeID: e.RecipeID, BakeBookID: e.BakeBookID, Notes: e.Notes}
	if e.Recipe != nil {
		view := service.GateRecipe(e.Recipe, caps)
		resp.Recipe = &view
	}
	return resp
}

type BakeBookHandler struct {
	bakeBookService *service.BakeBookService
	guards          guards
}

func NewBakeBookHandler(bakeBookService *service.BakeBookService, g guards) *BakeBookHandler {
	return &BakeBookHandler{bakeBookService: bakeBookService, guards: g}
}

func (h *BakeBookHandler) RegisterRoutes(router *gin.RouterGroup) {
	bakebook := router.Group("/bakebook")
	bakebook.Use(h.guards.authed(), h.guards.access())
	{
		bakebook.GET("/books", h.ListBooks)
		bakebook.POST("/books", h.CreateBook)
		bakebook.PUT("/books/:id", h.UpdateBook)
		bakebook.DELETE("/books/:id", h.DeleteBook)

		bakebook.GET("/entries", h.ListEntries)
		bakebook.POST("/entries", h.SaveRecipe)
		bakebook.PUT("/entries/:id", h.MoveEntry)
		bakebook.DELETE("/entries/:id", h.DeleteEntry)
	}
}

func (h *BakeBookHandler) ListBooks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	books, err := h.bakeBookService.ListBooks(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *BakeBookHandler) CreateBook(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.BakeBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	book, err := h.bakeBookService.CreateBook(c.Request.Context(), userID, middleware.Access(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *BakeBookHandler) UpdateBook(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.BakeBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	book, err := h.bakeBookService.UpdateBook(c.Request.Context(), userID, bookID, middleware.Access(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a folder. Its entries stay saved without a folder.
func (h *BakeBookHandler) DeleteBook(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.bakeBookService.DeleteBook(c.Request.Context(), userID, bookID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEntries accepts an optional ?book=<id> filter.
func (h *BakeBookHandler) ListEntries(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var bookID *uuid.UUID
	if raw := c.Query("book"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		bookID = &id
	}

	entries, err := h.bakeBookService.ListEntries(c.Request.Context(), userID, bookID)
	if err != nil {
		respondError(c, err)
		return
	}

	caps := middleware.Access(c)
	resp := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, entryResponse(&entries[i], caps))
	}
	c.JSON(http.StatusOK, resp)
}

// SaveRecipe answers 201 for a new entry and 200 when the recipe was already saved.
func (h *BakeBookHandler) SaveRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caps := middleware.Access(c)
	entry, created, err := h.bakeBookService.SaveRecipe(c.Request.Context(), userID, caps, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, entryResponse(entry, caps))
}

func (h *BakeBookHandler) MoveEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.MoveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caps := middleware.Access(c)
	entry, err := h.bakeBookService.MoveEntry(c.Request.Context(), userID, entryID, caps, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entryResponse(entry, caps))
}

func (h *BakeBookHandler) DeleteEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.bakeBookService.DeleteEntry(c.Request.Context(), userID, entryID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
