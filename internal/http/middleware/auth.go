package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleet-registry/internal/auth"
	"fleet-registry/internal/model"
	"fleet-registry/internal/service"
)

const (
	principalContextKey = "principal"
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer"
	tokenCookieName     = "jwt"
)

// Auth authenticates the request from the bearer header or the session
// cookie, resolves the account and attaches a Principal to the context.
func Auth(tokens *auth.Manager, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			abortUnauthorized(c, "please log in to get access")
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			abortUnauthorized(c, "invalid token, please log in again")
			return
		}

		user, err := users.VerifyToken(c.Request.Context(), claims)
		if err != nil {
			abortUnauthorized(c, "invalid token, please log in again")
			return
		}

		c.Set(principalContextKey, model.Principal{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
		c.Next()
	}
}

// RequireRoles permits the request only when the principal's role is in the
// allow-list.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if !ok {
			abortUnauthorized(c, "please log in to get access")
			return
		}
		if !allowed[principal.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "fail",
				"message": "you do not have permission to perform this action",
			})
			return
		}
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(principalContextKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	if !ok {
		return model.Principal{}, false
	}
	return principal, true
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader(authorizationHeader)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], bearerPrefix) {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(tokenCookieName); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "fail",
		"message": message,
	})
}
