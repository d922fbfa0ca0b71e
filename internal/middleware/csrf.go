package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	// CSRFFormField is the hidden input name used by plain HTML forms.
	CSRFFormField = "_csrf"
)

// CSRF issues a CSRF cookie and verifies modifying requests carry the token,
// either in the X-CSRF-Token header (htmx) or the _csrf form field.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Tie token to session: use per-session token from session data
		s := GetSession(r)
		token := s.CSRFToken
		if token == "" { // initialize if missing
			token = newCSRFToken()
			s.CSRFToken = token
			s.MarkDirty()
		}

		// Ensure client has cookie with the same token (double submit cookie)
		if c, err := r.Cookie(csrfCookieName); err != nil || c.Value != token {
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: false,
				Secure:   sessionSecure,
				SameSite: http.SameSiteLaxMode,
				Expires:  time.Now().Add(24 * time.Hour),
			})
		}

		if !isSafeMethod(r.Method) {
			submitted := r.Header.Get(csrfHeaderName)
			if submitted == "" {
				submitted = r.PostFormValue(CSRFFormField)
			}
			if !tokensMatch(submitted, token) {
				writeError(w, r, http.StatusForbidden, "Ugyldig sikkerhedsnøgle. Genindlæs siden og prøv igen.")
				return
			}
			if c, err := r.Cookie(csrfCookieName); err != nil || !tokensMatch(c.Value, token) {
				writeError(w, r, http.StatusForbidden, "Ugyldig sikkerhedsnøgle. Genindlæs siden og prøv igen.")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// CSRFToken returns the token templates should embed in forms.
func CSRFToken(r *http.Request) string {
	return GetSession(r).CSRFToken
}

func tokensMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func newCSRFToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
