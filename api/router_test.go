package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/flymate/internal/guard"
	"github.com/Domenick1991/flymate/internal/logger"
	"github.com/Domenick1991/flymate/internal/repository"
	"github.com/Domenick1991/flymate/internal/service/auth"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/Domenick1991/flymate/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	engine *gin.Engine
	admin  *MockAdminUseCase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	locker := storage.NewLocalLocker()
	sessions := session.NewService(session.NewDocStore(store, locker), 5*time.Minute)
	tokens := session.NewTokenIssuer("test-secret-0123456789", time.Hour)
	authService := auth.NewAuthService(
		repository.NewUserRepository(store, locker),
		sessions,
		tokens,
		auth.NewHasher(4),
		logger.Discard(),
	)

	s := &testServer{admin: &MockAdminUseCase{}}
	s.engine = NewRouter(Deps{
		Auth:     authService,
		Sessions: sessions,
		Tokens:   tokens,
		Policy:   guard.DefaultPolicy(),
		Flights:  &MockFlightUseCase{},
		Search:   &MockSearchUseCase{},
		Bookings: &MockBookingUseCase{},
		Admin:    s.admin,
		Log:      logger.Discard(),
	})
	return s
}

func (s *testServer) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, email, password string) (*http.Cookie, loginResponse) {
	t.Helper()
	w := s.do("POST", "/api/v1/auth/login", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, c := range w.Result().Cookies() {
		if c.Name == session.InsecureCookieName {
			return c, resp
		}
	}
	t.Fatal("no session cookie issued")
	return nil, resp
}

func TestRouter_SignupAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do("POST", "/api/v1/auth/signup", `{"name":"Alice","email":"alice@x.com","password":"Passw0rd","role":"user"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do("POST", "/api/v1/auth/signup", `{"name":"Alice","email":"alice@x.com","password":"another1","role":"user"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do("POST", "/api/v1/auth/login", `{"email":"alice@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookie, resp := s.login(t, "alice@x.com", "Passw0rd")
	assert.Equal(t, "user", string(resp.User.Role))

	w = s.do("GET", "/api/v1/session", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest("GET", "/api/v1/session", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	bearer := httptest.NewRecorder()
	s.engine.ServeHTTP(bearer, req)
	assert.Equal(t, http.StatusOK, bearer.Code)

	w = s.do("POST", "/api/v1/auth/logout", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do("GET", "/api/v1/session", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A user opening an admin page or endpoint is sent back to /user and sees no admin data.
func TestRouter_UserCannotReachAdmin(t *testing.T) {
	s := newTestServer(t)

	w := s.do("POST", "/api/v1/auth/signup", `{"name":"Alice","email":"alice@x.com","password":"Passw0rd"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	cookie, _ := s.login(t, "alice@x.com", "Passw0rd")

	w = s.do("GET", "/api/v1/admin/dashboard", "", cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "/user", resp.Redirect)
	s.admin.AssertNotCalled(t, "Dashboard", mock.Anything)

	w = s.do("GET", "/api/v1/navigation?path=/admin/dashboard", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var nav navigationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nav))
	assert.False(t, nav.Allowed)
	assert.Equal(t, "/user", nav.Redirect)
	assert.Contains(t, nav.Routes, "/user/my-bookings")
	assert.Contains(t, nav.Routes, "/auth")
	assert.NotContains(t, nav.Routes, "/admin/dashboard")
}

func TestRouter_AnonymousIsSentToLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do("GET", "/api/v1/flights", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/auth", decodeError(t, w).Redirect)

	w = s.do("GET", "/api/v1/navigation?path=/auth/signup", "")
	var nav navigationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nav))
	assert.True(t, nav.Allowed)
	assert.ElementsMatch(t, []string{"/auth", "/auth/signup"}, nav.Routes)
}

func TestOpenAPIDocument(t *testing.T) {
	var doc struct {
		OpenAPI string                     `json:"openapi"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(OpenAPI, &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Contains(t, doc.Paths, "/flights/search")
	assert.Contains(t, doc.Paths, "/admin/dashboard")
}
