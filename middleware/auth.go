package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

const claimsKey = "claims"

// CurrentClaims returns the signed-in session, or nil on public routes.
func CurrentClaims(c *gin.Context) *services.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.Claims)
	return claims
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	// EventSource cannot set headers
	return c.Query("access_token")
}

// Authenticate rejects requests without a valid, unrevoked bearer token.
func Authenticate(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			utils.AbortJSONError(c, http.StatusUnauthorized, "Authorization required")
			return
		}
		claims, err := auth.ParseToken(c.Request.Context(), raw)
		if err != nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, "Invalid or expired session")
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequirePermission must run after Authenticate.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentClaims(c).Can(permission) {
			utils.AbortJSONError(c, http.StatusForbidden, "You do not have permission for this action")
			return
		}
		c.Next()
	}
}

// OptionalAuthenticate attaches claims when a valid token is sent and lets the request through either way.
func OptionalAuthenticate(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if claims, err := auth.ParseToken(c.Request.Context(), raw); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}
