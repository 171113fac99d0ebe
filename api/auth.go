package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/guard"
	"github.com/Domenick1991/flymate/internal/service/auth"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service auth.AuthUseCase
	policy  *guard.Policy
	cookie  session.CookieOptions
}

func NewAuthHandler(service auth.AuthUseCase, policy *guard.Policy, cookie session.CookieOptions) *AuthHandler {
	return &AuthHandler{service: service, policy: policy, cookie: cookie}
}

func (h *AuthHandler) Register(g Groups) {
	g.Public.POST("/auth/signup", h.signup)
	g.Public.POST("/auth/login", h.login)
	g.Members.POST("/auth/logout", h.logout)
}

func (h *AuthHandler) signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}
	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleUser
	}

	user, err := h.service.Register(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrNotFound) {
		err = domain.ErrInvalidCredentials
	}
	if err != nil {
		handleError(c, err)
		return
	}

	sess := result.Session
	session.SetCookie(c.Writer, sess.ID, sess.ExpiresAt, h.cookie)

	resp := loginResponse{
		User:      sess.User(),
		ExpiresAt: sess.ExpiresAt,
		Token:     result.Token,
		Redirect:  h.policy.BasePath(sess.Role),
	}
	if result.Token != "" {
		resp.TokenExpiresAt = &result.TokenExpiresAt
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) logout(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		handleError(c, domain.ErrUnauthenticated)
		return
	}
	if err := h.service.Logout(c.Request.Context(), sess.ID); err != nil {
		handleError(c, err)
		return
	}
	session.ClearCookie(c.Writer, h.cookie)
	c.JSON(http.StatusOK, gin.H{"redirect": h.policy.LoginPath()})
}
