package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

// AccessKey holds the caller's resolved capabilities.
const AccessKey = "access"

// AccessResolver derives capabilities for a possibly anonymous user.
type AccessResolver interface {
	Resolve(ctx context.Context, userID *uuid.UUID) types.Capabilities
}

// ResolveAccess stores the caller's capabilities in the context. It never rejects.
func ResolveAccess(resolver AccessResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(AccessKey, resolver.Resolve(c.Request.Context(), UserIDPtr(c)))
		c.Next()
	}
}

// Access returns the capabilities set by ResolveAccess or RequireRole. Without them
// the caller is treated as unauthenticated.
func Access(c *gin.Context) types.Capabilities {
	if v, ok := c.Get(AccessKey); ok {
		if caps, ok := v.(types.Capabilities); ok {
			return caps
		}
	}
	return types.Capabilities{Role: models.RoleUnauthenticated, BakeBookLimit: 10, ChatHistoryLimit: 10}
}

// RequireRole rejects callers whose effective role is not one of roles.
// It must run after AuthMiddleware.
func RequireRole(resolver AccessResolver, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		caps := resolver.Resolve(c.Request.Context(), &userID)
		c.Set(AccessKey, caps)
		for _, role := range roles {
			if caps.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You do not have permission to access this resource",
		})
	}
}
