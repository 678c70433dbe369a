package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sashabakes/sasha-bakes/backend/internal/middleware"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

const maxPhotoBytes = 10 << 20

type RecipeHandler struct {
	recipeService *service.RecipeService
	guards        guards
}

func NewRecipeHandler(recipeService *service.RecipeService, g guards) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, guards: g}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(h.guards.optional(), h.guards.access())
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/photos", h.ListPhotos)
		recipes.GET("/:id/ratings", h.ListRatings)
		recipes.POST("/:id/ratings", h.guards.authed(), h.RateRecipe)
	}
}

// ListRecipes returns gated views. Managers may pass all=true to include drafts.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	caps := middleware.Access(c)
	filter := types.RecipeFilter{
		Query:          c.Query("q"),
		Category:       c.Query("category"),
		IncludePrivate: c.Query("all") == "true" && caps.CanManageContent(),
	}

	recipes, err := h.recipeService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]types.RecipeView, 0, len(recipes))
	for i := range recipes {
		views = append(views, service.GateRecipe(&recipes[i], caps))
	}
	c.JSON(http.StatusOK, views)
}

// GetRecipe returns one recipe. Signed-out callers and free users on premium
// recipes get a locked view without ingredients or instructions.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.recipeService.View(c.Request.Context(), id, middleware.Access(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) ListPhotos(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	photos, err := h.recipeService.Photos(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

func (h *RecipeHandler) ListRatings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.recipeService.Get(ctx, id, middleware.Access(c)); err != nil {
		respondError(c, err)
		return
	}
	summary, err := h.recipeService.RatingSummary(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	ratings, err := h.recipeService.Ratings(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary, "ratings": ratings})
}

func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rating, err := h.recipeService.Rate(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// AdminRecipeHandler is the catalog editor used by admins and collaborators.
type AdminRecipeHandler struct {
	recipeService *service.RecipeService
	photos        service.PhotoStorage
	log           *zap.Logger
}

func NewAdminRecipeHandler(recipeService *service.RecipeService, photos service.PhotoStorage, log *zap.Logger) *AdminRecipeHandler {
	return &AdminRecipeHandler{recipeService: recipeService, photos: photos, log: log}
}

func (h *AdminRecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.CreateRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/photos", h.UploadPhoto)
	}
}

func (h *AdminRecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.List(c.Request.Context(), types.RecipeFilter{
		Query:          c.Query("q"),
		Category:       c.Query("category"),
		IncludePrivate: true,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *AdminRecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), id, middleware.Access(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *AdminRecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *AdminRecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *AdminRecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhoto stores a multipart "photo" file and appends it to the recipe.
func (h *AdminRecipeHandler) UploadPhoto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if h.photos == nil {
		respondError(c, service.ErrStorageDisabled)
		return
	}
	if err := h.recipeService.Exists(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes)
	header, err := c.FormFile("photo")
	if err != nil {
		badRequest(c, err)
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "photo must be an image", Code: "invalid_input"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	key := service.PhotoKey(id, header.Filename)
	url, err := h.photos.Upload(c.Request.Context(), key, contentType, file)
	if err != nil {
		h.log.Error("photo upload failed", zap.String("recipe_id", id.String()), zap.Error(err))
		respondError(c, err)
		return
	}

	photo, err := h.recipeService.AddPhoto(c.Request.Context(), id, url, key, c.PostForm("caption"))
	if err != nil {
		if derr := h.photos.Delete(context.WithoutCancel(c.Request.Context()), key); derr != nil {
			h.log.Warn("failed to remove orphaned photo", zap.String("key", key), zap.Error(derr))
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}
