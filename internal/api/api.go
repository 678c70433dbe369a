package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/internal/middleware"
	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
)

// Dependencies are the services the HTTP handlers are built from.
type Dependencies struct {
	DB        *gorm.DB
	Log       *zap.Logger
	Auth      *service.AuthService
	Access    *service.AccessService
	Recipes   *service.RecipeService
	BakeBook  *service.BakeBookService
	Chat      *service.ChatService
	Training  *service.TrainingService
	Admin     *service.AdminService
	Community *service.CommunityService
	Profile   *service.ProfileService
	Stores    *service.Stores
	Photos    service.PhotoStorage
	// ChatLimiter may be nil when Redis is unavailable.
	ChatLimiter *middleware.RateLimiter
	Features    Features
}

// guards builds the auth and access middlewares shared by every handler.
type guards struct {
	validator middleware.TokenValidator
	resolver  middleware.AccessResolver
}

func (g guards) authed() gin.HandlerFunc {
	return middleware.AuthMiddleware(g.validator)
}

func (g guards) optional() gin.HandlerFunc {
	return middleware.OptionalAuth(g.validator)
}

func (g guards) access() gin.HandlerFunc {
	return middleware.ResolveAccess(g.resolver)
}

func (g guards) role(roles ...string) gin.HandlerFunc {
	return middleware.RequireRole(g.resolver, roles...)
}

// SetupAPI registers every route under /api/v1 plus the health checks.
func SetupAPI(router *gin.Engine, deps Dependencies) {
	g := guards{validator: deps.Auth, resolver: deps.Access}

	health := NewHealthHandler(deps.DB)
	router.GET("/health", health.Check)
	router.GET("/api/health", health.Check)

	v1 := router.Group("/api/v1")
	{
		NewSystemHandler(deps.Features, g).RegisterRoutes(v1)
		NewAuthHandler(deps.Auth, g).RegisterRoutes(v1)
		NewProfileHandler(deps.Profile, g).RegisterRoutes(v1)
		NewRecipeHandler(deps.Recipes, g).RegisterRoutes(v1)
		NewBakeBookHandler(deps.BakeBook, g).RegisterRoutes(v1)
		NewSashaHandler(deps.Chat, deps.ChatLimiter, g).RegisterRoutes(v1)
		NewContentHandler(deps.Stores, deps.Community, g).RegisterRoutes(v1)

		admin := v1.Group("/admin")
		admin.Use(g.authed())
		{
			content := admin.Group("")
			content.Use(g.role(models.RoleAdmin, models.RoleCollaborator))
			NewAdminRecipeHandler(deps.Recipes, deps.Photos, deps.Log).RegisterRoutes(content)
			NewResourceHandler(deps.Stores.Tools).Register(content, "/tools")
			NewResourceHandler(deps.Stores.Wellness).Register(content, "/wellness")
			NewResourceHandler(deps.Stores.Bakers).Register(content, "/bakers")
			NewResourceHandler(deps.Stores.Blog).Register(content, "/blog")

			adminOnly := admin.Group("")
			adminOnly.Use(g.role(models.RoleAdmin))
			NewAdminHandler(deps.Admin, deps.Training).RegisterRoutes(adminOnly)
			NewResourceHandler(deps.Stores.Notes).Register(adminOnly, "/training-notes")
			NewResourceHandler(deps.Stores.Support).Register(adminOnly, "/support")
			NewResourceHandler(deps.Stores.Forum).Register(adminOnly, "/forum/posts")
			NewResourceHandler(deps.Stores.Comments).Register(adminOnly, "/forum/comments")
		}
	}
}
