package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ClientIDCookieName = "client_id"
	CSRFCookieName     = "csrf_token"

	clientIDMaxAge = 365 * 24 * 60 * 60
)

// CookieConfig holds cookie configuration settings
type CookieConfig struct {
	Domain   string // empty means current host only
	Secure   bool
	SameSite string // "strict", "lax" or "none"
}

// SetClientIDCookie stores the browser's client id in an httpOnly cookie
func SetClientIDCookie(w http.ResponseWriter, clientID string, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     ClientIDCookieName,
		Value:    clientID,
		Path:     "/",
		Domain:   config.Domain,
		Expires:  time.Now().Add(clientIDMaxAge * time.Second),
		MaxAge:   clientIDMaxAge,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	})
}

// ClientIDFromRequest returns the client id cookie when it holds a valid uuid
func ClientIDFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(ClientIDCookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", false
	}
	return cookie.Value, true
}

// SetCSRFTokenCookie sets the CSRF token in a cookie readable by JavaScript,
// which echoes it back in the X-CSRF-Token header
func SetCSRFTokenCookie(w http.ResponseWriter, csrfToken string, maxAge int, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    csrfToken,
		Path:     "/",
		Domain:   config.Domain,
		Expires:  time.Now().Add(time.Duration(maxAge) * time.Second),
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	})
}

// ClearCSRFTokenCookie clears the CSRF token cookie
func ClearCSRFTokenCookie(w http.ResponseWriter, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   -1,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	})
}

func parseSameSite(sameSite string) http.SameSite {
	switch strings.ToLower(sameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
