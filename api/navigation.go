package api

import (
	"net/http"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/guard"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/gin-gonic/gin"
)

// NavigationHandler answers whether the caller may open a page, and where to go otherwise.
type NavigationHandler struct {
	policy *guard.Policy
}

func NewNavigationHandler(policy *guard.Policy) *NavigationHandler {
	return &NavigationHandler{policy: policy}
}

func (h *NavigationHandler) Register(g Groups) {
	g.Public.GET("/navigation", h.check)
}

func (h *NavigationHandler) check(c *gin.Context) {
	target := c.Query("path")
	sess, _ := session.Current(c)

	d := h.policy.Check(sess, target)
	resp := navigationResponse{Path: target, Allowed: d.Allowed, Redirect: d.Redirect, Routes: h.reachable(sess)}
	if d.Err != nil {
		resp.Error = d.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// reachable lists the declared pages the caller may open, for building menus.
func (h *NavigationHandler) reachable(sess *domain.Session) []string {
	out := make([]string, 0)
	for _, r := range h.policy.Routes() {
		if r.Public() || (sess != nil && r.Allows(sess.Role)) {
			out = append(out, r.Path)
		}
	}
	return out
}
