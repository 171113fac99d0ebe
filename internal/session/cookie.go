package session

import (
	"net/http"
	"time"
)

const (
	CookieName = "__Host-session"
	// InsecureCookieName is used when Secure is off; browsers reject __Host- cookies over plain HTTP.
	InsecureCookieName = "session"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
}

func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	o.HttpOnly = true
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

func (o CookieOptions) Name() string {
	if o.Secure {
		return CookieName
	}
	return InsecureCookieName
}

// SetCookie issues the session cookie to the client.
func SetCookie(w http.ResponseWriter, sessionID string, expiresAt time.Time, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name(),
		Value:    sessionID,
		Path:     opts.Path,
		Expires:  expiresAt,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name(),
		Value:    "",
		Path:     opts.Path,
		MaxAge:   -1,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// CookieValue returns the session id carried by the request cookie, if any.
func CookieValue(r *http.Request, opts CookieOptions) string {
	c, err := r.Cookie(opts.Name())
	if err != nil {
		return ""
	}
	return c.Value
}
