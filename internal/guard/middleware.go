package guard

import (
	"net/http"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/gin-gonic/gin"
)

// Authorize declares the roles permitted on a group of API routes.
// Unauthenticated callers get 401, callers with another role get 403; both carry a redirect.
func (p *Policy) Authorize(roles ...domain.Role) gin.HandlerFunc {
	route := Route{Roles: roles}

	return func(c *gin.Context) {
		s, ok := session.Current(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    domain.ErrUnauthenticated.Error(),
				"redirect": p.loginPath,
			})
			return
		}
		if !route.Allows(s.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    domain.ErrUnauthorizedRoute.Error(),
				"redirect": p.BasePath(s.Role),
			})
			return
		}
		c.Next()
	}
}
