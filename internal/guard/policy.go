// Package guard decides which routes a session may reach. Every route declares the roles
// permitted on it; anything undeclared is refused.
package guard

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/Domenick1991/flymate/internal/domain"
)

// Route is a capability declaration. A route with no roles is public.
type Route struct {
	Path  string
	Roles []domain.Role
}

func (r Route) Public() bool {
	return len(r.Roles) == 0
}

func (r Route) Allows(role domain.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Decision is the outcome of a navigation check. Redirect is empty when Allowed.
type Decision struct {
	Allowed  bool
	Redirect string
	Err      error
}

type Policy struct {
	loginPath string
	basePaths map[domain.Role]string
	routes    map[string]Route
}

// NewPolicy validates the declarations: paths are unique and every role has a base path.
func NewPolicy(loginPath string, basePaths map[domain.Role]string, routes ...Route) (*Policy, error) {
	p := &Policy{
		loginPath: normalize(loginPath),
		basePaths: make(map[domain.Role]string, len(basePaths)),
		routes:    make(map[string]Route, len(routes)),
	}
	for role, base := range basePaths {
		p.basePaths[role] = normalize(base)
	}

	for _, r := range routes {
		key := normalize(r.Path)
		if _, dup := p.routes[key]; dup {
			return nil, fmt.Errorf("guard: route %s declared twice", key)
		}
		for _, role := range r.Roles {
			if _, ok := p.basePaths[role]; !ok {
				return nil, fmt.Errorf("guard: role %q on %s has no base path", role, key)
			}
		}
		r.Path = key
		p.routes[key] = r
	}
	return p, nil
}

// DefaultPolicy declares the application's page routes.
func DefaultPolicy() *Policy {
	user := []domain.Role{domain.RoleUser}
	admin := []domain.Role{domain.RoleAdmin}

	p, err := NewPolicy("/auth",
		map[domain.Role]string{domain.RoleUser: "/user", domain.RoleAdmin: "/admin"},
		Route{Path: "/auth"},
		Route{Path: "/auth/signup"},
		Route{Path: "/user", Roles: user},
		Route{Path: "/user/booking", Roles: user},
		Route{Path: "/user/my-bookings", Roles: user},
		Route{Path: "/user/profile", Roles: user},
		Route{Path: "/admin", Roles: admin},
		Route{Path: "/admin/dashboard", Roles: admin},
		Route{Path: "/admin/flights", Roles: admin},
		Route{Path: "/admin/bookings", Roles: admin},
		Route{Path: "/admin/users", Roles: admin},
	)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Policy) LoginPath() string {
	return p.loginPath
}

func (p *Policy) BasePath(role domain.Role) string {
	if base, ok := p.basePaths[role]; ok {
		return base
	}
	return p.loginPath
}

// Check decides whether the session may navigate to target.
func (p *Policy) Check(s *domain.Session, target string) Decision {
	route, declared := p.routes[normalize(target)]

	if declared && route.Public() {
		return Decision{Allowed: true}
	}
	if s == nil {
		return Decision{Redirect: p.loginPath, Err: domain.ErrUnauthenticated}
	}
	if !declared || !route.Allows(s.Role) {
		return Decision{Redirect: p.BasePath(s.Role), Err: domain.ErrUnauthorizedRoute}
	}
	return Decision{Allowed: true}
}

// Routes lists the declarations, for clients that build navigation from them.
func (p *Policy) Routes() []Route {
	out := make([]Route, 0, len(p.routes))
	for _, r := range p.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
