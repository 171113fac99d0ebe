package session

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/gin-gonic/gin"
)

const contextKey = "flymate.session"

// Middleware resolves the caller's session from the cookie or a bearer token and treats the
// request as an interaction signal. Requests without a live session continue anonymously;
// route guards decide what they may reach.
func Middleware(svc SessionUseCase, tokens *TokenIssuer, cookie CookieOptions, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, fromCookie := sessionID(c, tokens, cookie)
		if id == "" {
			c.Next()
			return
		}

		sess, err := svc.Touch(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthenticated) {
				log.Error("session lookup failed", "error", err)
			}
			if fromCookie {
				ClearCookie(c.Writer, cookie)
			}
			c.Next()
			return
		}

		if fromCookie {
			SetCookie(c.Writer, sess.ID, sess.ExpiresAt, cookie)
		}
		Attach(c, sess)
		c.Next()
	}
}

// Current returns the session attached by Middleware.
func Current(c *gin.Context) (*domain.Session, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*domain.Session)
	return sess, ok && sess != nil
}

// Attach puts a session on the request context for Current to find.
func Attach(c *gin.Context, s *domain.Session) {
	c.Set(contextKey, s)
}

func sessionID(c *gin.Context, tokens *TokenIssuer, cookie CookieOptions) (string, bool) {
	if auth := c.GetHeader("Authorization"); tokens != nil && strings.HasPrefix(auth, "Bearer ") {
		id, err := tokens.Parse(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return "", false
		}
		return id, false
	}
	return CookieValue(c.Request, cookie), true
}
