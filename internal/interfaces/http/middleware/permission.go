package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/krodas7/constructora-backend/internal/domain/identity"
	"github.com/krodas7/constructora-backend/internal/interfaces/http/dto"
)

// RequirePermission loads the authenticated user and checks their role's
// permission for the module and action. The user is loaded per request so a
// role change or deactivation takes effect on the next call, not at token
// expiry.
func RequirePermission(userRepo identity.Repository, module string, action identity.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Account not found"))
			return
		}
		if !user.HasPermission(module, action) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient permissions"))
			return
		}

		c.Set("current_user", user)
		c.Next()
	}
}

// CurrentUser retrieves the user loaded by RequirePermission, nil when absent
func CurrentUser(c *gin.Context) *identity.User {
	if value, exists := c.Get("current_user"); exists {
		if user, ok := value.(*identity.User); ok {
			return user
		}
	}
	return nil
}
