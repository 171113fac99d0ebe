package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionAs(role domain.Role) *domain.Session {
	return &domain.Session{ID: "sid", Email: "x@x.com", Role: role}
}

func TestPolicy_Check(t *testing.T) {
	p := DefaultPolicy()

	testCases := []struct {
		name     string
		session  *domain.Session
		path     string
		allowed  bool
		redirect string
		err      error
	}{
		{name: "public login", path: "/auth", allowed: true},
		{name: "public signup with trailing slash", path: "/auth/signup/", allowed: true},
		{name: "anonymous to user page", path: "/user/booking", redirect: "/auth", err: domain.ErrUnauthenticated},
		{name: "anonymous to unknown", path: "/nowhere", redirect: "/auth", err: domain.ErrUnauthenticated},
		{name: "user home", session: sessionAs(domain.RoleUser), path: "/user", allowed: true},
		{name: "user bookings with query", session: sessionAs(domain.RoleUser), path: "/user/my-bookings?page=2", allowed: true},
		{name: "user to admin flights", session: sessionAs(domain.RoleUser), path: "/admin/flights", redirect: "/user", err: domain.ErrUnauthorizedRoute},
		{name: "user to undeclared sub-route", session: sessionAs(domain.RoleUser), path: "/user/secret", redirect: "/user", err: domain.ErrUnauthorizedRoute},
		{name: "user path traversal", session: sessionAs(domain.RoleUser), path: "/user/../admin", redirect: "/user", err: domain.ErrUnauthorizedRoute},
		{name: "admin dashboard", session: sessionAs(domain.RoleAdmin), path: "/admin/dashboard", allowed: true},
		{name: "admin to user booking", session: sessionAs(domain.RoleAdmin), path: "/user/booking", redirect: "/admin", err: domain.ErrUnauthorizedRoute},
		{name: "admin to prefix look-alike", session: sessionAs(domain.RoleAdmin), path: "/administrator", redirect: "/admin", err: domain.ErrUnauthorizedRoute},
		{name: "logged in user may open login", session: sessionAs(domain.RoleUser), path: "/auth", allowed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := p.Check(tc.session, tc.path)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.redirect, d.Redirect)
			if tc.err != nil {
				assert.ErrorIs(t, d.Err, tc.err)
			} else {
				assert.NoError(t, d.Err)
			}
		})
	}
}

func TestPolicy_DeclaredRolesDecide(t *testing.T) {
	p := DefaultPolicy()
	for _, route := range p.Routes() {
		for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin} {
			d := p.Check(sessionAs(role), route.Path)
			want := route.Public() || route.Allows(role)
			assert.Equal(t, want, d.Allowed, "%s as %s", route.Path, role)
			if !want {
				assert.Equal(t, p.BasePath(role), d.Redirect)
			}
		}
	}
}

func TestNewPolicy_RejectsBadDeclarations(t *testing.T) {
	bases := map[domain.Role]string{domain.RoleUser: "/user"}

	_, err := NewPolicy("/auth", bases, Route{Path: "/user"}, Route{Path: "/user/"})
	assert.Error(t, err)

	_, err = NewPolicy("/auth", bases, Route{Path: "/admin", Roles: []domain.Role{domain.RoleAdmin}})
	assert.Error(t, err)

	p, err := NewPolicy("auth", bases, Route{Path: "user", Roles: []domain.Role{domain.RoleUser}})
	require.NoError(t, err)
	assert.Equal(t, "/auth", p.LoginPath())
	assert.Equal(t, "/auth", p.BasePath(domain.RoleAdmin))
}

func TestPolicy_Authorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := DefaultPolicy()

	testCases := []struct {
		name    string
		session *domain.Session
		code    int
	}{
		{name: "anonymous", code: http.StatusUnauthorized},
		{name: "user", session: sessionAs(domain.RoleUser), code: http.StatusForbidden},
		{name: "admin", session: sessionAs(domain.RoleAdmin), code: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tc.session != nil {
					session.Attach(c, tc.session)
				}
			})
			r.GET("/admin/dashboard", p.Authorize(domain.RoleAdmin), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"revenue": 42})
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

			assert.Equal(t, tc.code, w.Code)
			if tc.code != http.StatusOK {
				assert.NotContains(t, w.Body.String(), "revenue")
				assert.Contains(t, w.Body.String(), "redirect")
			}
		})
	}
}
