package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/litovianka/bike-service/internal/domain/users"
	"github.com/litovianka/bike-service/internal/pkg/token"
)

const contextUserKey = "currentUser"

// RequireAuth verifies the bearer token and loads the account behind it into
// the request context. Inactive accounts are rejected even with a valid token.
func RequireAuth(tokenManager *token.Manager, userService users.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
			return
		}

		claims, err := tokenManager.VerifySession(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid or expired token"})
			return
		}

		user, err := userService.GetByID(ctx, claims.UserID)
		if err != nil || !user.IsActive {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid or expired token"})
			return
		}

		ctx.Set(contextUserKey, user)
		ctx.Next()
	}
}

// RequireStaff rejects non-staff accounts. Must run after RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := currentUser(ctx)
		if user == nil || !user.IsStaff {
			ctx.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Message: "staff access required"})
			return
		}
		ctx.Next()
	}
}

// RequireCustomer rejects staff accounts on customer portal routes. Must run
// after RequireAuth.
func RequireCustomer() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := currentUser(ctx)
		if user == nil || user.IsStaff {
			ctx.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Message: "customer access required"})
			return
		}
		ctx.Next()
	}
}

// currentUser returns the account RequireAuth stored, nil when absent.
func currentUser(ctx *gin.Context) *users.User {
	value, exists := ctx.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*users.User)
	if !ok {
		return nil
	}
	return user
}
