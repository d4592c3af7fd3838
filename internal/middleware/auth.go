package middleware

import (
	"net/http"
	"strings"

	"github.com/devpilot-dev/devpilot/internal/auth"
	"github.com/devpilot-dev/devpilot/internal/store"
	"github.com/devpilot-dev/devpilot/internal/types"
	"github.com/gin-gonic/gin"
)

type AuthenticatedUser struct {
	ID    uint      `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

func AuthMiddleware(users store.UserStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := auth.VerifyJWT(parts[1])

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// Re-read the user so role changes and deletions take effect
		// immediately, not at token expiry.
		user, err := users.ByID(ctx.Request.Context(), claims.UserID)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  auth.Role(user.Role),
		})
		ctx.Next()
	}
}

// RequireRole gates a route on the global role policy: ADMIN always
// passes, everyone else needs the exact required role.
func RequireRole(required auth.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		user, ok := value.(AuthenticatedUser)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		if !auth.Authorize(user.Role, required) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden - insufficient role"})
			return
		}

		ctx.Next()
	}
}

// RequireAnyRole gates a route on any of the given roles.
func RequireAnyRole(required ...auth.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		user, ok := value.(AuthenticatedUser)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		if !auth.AuthorizeAny(user.Role, required...) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden - insufficient role"})
			return
		}

		ctx.Next()
	}
}
