package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/internal/middleware"
)

// Features are the flags the frontend reads at startup.
type Features struct {
	RecipeDetailV2 bool `json:"recipe_detail_v2"`
}

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports whether the API and its database are reachable.
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "healthy", "message": "Sasha Bakes API is running"}

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			status = http.StatusServiceUnavailable
			body = gin.H{"status": "unhealthy", "message": err.Error()}
		}
	}

	c.JSON(status, body)
}

// SystemHandler serves the feature flags and the caller's access tier.
type SystemHandler struct {
	features Features
	guards   guards
}

func NewSystemHandler(features Features, g guards) *SystemHandler {
	return &SystemHandler{features: features, guards: g}
}

func (h *SystemHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/features", h.GetFeatures)
	router.GET("/access", h.guards.optional(), h.guards.access(), h.GetAccess)
}

func (h *SystemHandler) GetFeatures(c *gin.Context) {
	c.JSON(http.StatusOK, h.features)
}

func (h *SystemHandler) GetAccess(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.Access(c))
}
