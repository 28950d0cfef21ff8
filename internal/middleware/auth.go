package middleware

import (
	"net/http"
	"strings"

	"campus-restaurant/internal/auth"
	"campus-restaurant/internal/authz"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/services"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// RequireAuth validates the bearer token, loads the account behind it and
// stores the actor in the request context.
func RequireAuth(tokens *auth.Manager, users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromHeader(c, tokens, users)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or missing token"})
			c.Abort()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuth attaches an actor when a valid token is present but lets
// the request through as a guest otherwise. Used by the menu route so
// staff see unavailable items while guests do not.
func OptionalAuth(tokens *auth.Manager, users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := actorFromHeader(c, tokens, users); ok {
			c.Set(actorKey, actor)
		}
		c.Next()
	}
}

// RequireRoles rejects actors whose role is not in the allowed set. Must
// run after RequireAuth.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
		c.Abort()
	}
}

// GetActor returns the authenticated actor stored by RequireAuth or
// OptionalAuth.
func GetActor(c *gin.Context) (authz.Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return authz.Actor{}, false
	}
	actor, ok := value.(authz.Actor)
	return actor, ok
}

func actorFromHeader(c *gin.Context, tokens *auth.Manager, users services.UserService) (authz.Actor, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return authz.Actor{}, false
	}

	userID, _, err := tokens.ValidateToken(parts[1])
	if err != nil {
		return authz.Actor{}, false
	}

	// Load the account so role changes and deletions take effect
	// immediately instead of at token expiry.
	user, err := users.GetUserByID(userID)
	if err != nil {
		return authz.Actor{}, false
	}

	return authz.Actor{UserID: user.ID, Role: models.UserRole(user.Role)}, true
}
