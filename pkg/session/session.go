// Package session carries the signed session token in an HTTP-only cookie.
//
// Usage (handler):
//
//	opts := session.OptionsFor(config.IsProduction())
//	opts.Set(w, token)      // after login
//	opts.Clear(w)           // on logout
//	tok, err := opts.Token(r)
package session

import (
	"errors"
	"net/http"
	"time"
)

// CookieName is the cookie that holds the session token.
const CookieName = "token"

// ErrNoCookie is returned by Token when the request carries no session cookie.
var ErrNoCookie = errors.New("session: no cookie")

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions is the local-development policy: SameSite=Lax, not Secure.
func DefaultOptions() Options {
	return Options{
		CookieName: CookieName,
		TTL:        time.Hour,
		HTTPOnly:   true,
		Secure:     false,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// OptionsFor returns the cookie policy for the deployment. Production
// clients are served cross-site, which browsers only allow with
// SameSite=None on a Secure cookie.
func OptionsFor(production bool) Options {
	opts := DefaultOptions()
	if production {
		opts.Secure = true
		opts.SameSite = http.SameSiteNoneMode
	}
	return opts
}

// Set writes the session cookie carrying token.
func (o Options) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, o.cookie(token, int(o.TTL.Seconds())))
}

// Clear expires the session cookie. Attributes must match Set or browsers
// keep the original cookie.
func (o Options) Clear(w http.ResponseWriter) {
	c := o.cookie("", -1)
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

// Token returns the raw session token from r.
func (o Options) Token(r *http.Request) (string, error) {
	c, err := r.Cookie(o.CookieName)
	if err != nil || c.Value == "" {
		return "", ErrNoCookie
	}
	return c.Value, nil
}

func (o Options) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     o.CookieName,
		Value:    value,
		Path:     o.Path,
		MaxAge:   maxAge,
		HttpOnly: o.HTTPOnly,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	}
}
