package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	sessionCookieName = "MURER_WEB_SESSION"
	sessionTTL        = 30 * 24 * time.Hour
)

type SessionData struct {
	ID        string        `json:"id"`
	CSRFToken string        `json:"csrf,omitempty"`
	LastQuote *QuoteReceipt `json:"quote,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	// dirty marks the session for rewriting; unexported so it is never serialized
	dirty bool
}

// QuoteReceipt remembers the last quote request so the thank-you page can
// show its reference after the redirect.
type QuoteReceipt struct {
	ID         string    `json:"id"`
	Service    string    `json:"service,omitempty"`
	ReceivedAt time.Time `json:"at"`
}

var (
	sessionCodec  = newSessionCodec(securecookie.GenerateRandomKey(32))
	sessionSecure bool
)

func newSessionCodec(hashKey []byte) *securecookie.SecureCookie {
	codec := securecookie.New(hashKey, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(sessionTTL / time.Second))
	return codec
}

// ConfigureSessions sets the cookie signing key and the Secure flag. An empty
// key keeps the per-process random key; it returns true in that case so the
// caller can warn.
func ConfigureSessions(signingKey string, secure bool) (ephemeral bool) {
	sessionSecure = secure
	if strings.TrimSpace(signingKey) == "" {
		return true
	}
	sessionCodec = newSessionCodec([]byte(signingKey))
	return false
}

// Session loads the signed session cookie, or starts a new session, and
// stores it in the request context. The cookie is (re)written only for new or
// modified sessions, right before the response header goes out.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd, fromCookie := readSessionCookie(r)
		if !fromCookie || sd.ID == "" {
			sd = newSession()
		}
		persist := func(w http.ResponseWriter) {
			if sd.dirty {
				writeSessionCookie(w, sd)
			}
		}
		rw := NewResponseRecorder(w)
		rw.SetBeforeWrite(persist)
		next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), ctxKeySession, sd)))
		// nothing written (e.g. HEAD or an empty 200)
		if !rw.Written() {
			persist(w)
		}
	})
}

func newSession() *SessionData {
	now := time.Now().UTC()
	return &SessionData{
		ID:        randID(),
		CSRFToken: newCSRFToken(),
		CreatedAt: now,
		UpdatedAt: now,
		dirty:     true,
	}
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// RememberQuote stores the receipt of a submitted quote request.
func (s *SessionData) RememberQuote(q QuoteReceipt) {
	s.LastQuote = &q
	s.MarkDirty()
}

// readSessionCookie decodes the session cookie. A missing, expired or
// tampered cookie yields an empty session.
func readSessionCookie(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := sessionCodec.Decode(sessionCookieName, c.Value, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func writeSessionCookie(w http.ResponseWriter, sd *SessionData) {
	value, err := sessionCodec.Encode(sessionCookieName, sd)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   sessionSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
