package middleware

import (
	"net/http"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/LOAD-13/boc-forms-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// RequireRole checks that the JWT carries the given role.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if claims.Role != string(role) {
			if role == model.RoleAdmin {
				response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
				return
			}
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}

		c.Next()
	}
}
