package web

import (
	"net/http"

	"github.com/google/uuid"
)

// sessionID reads the session cookie. The token is opaque and unvalidated:
// any client-supplied value is accepted as-is.
func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(s.session.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// ensureSession issues a fresh random token when the browser has none yet.
// Issuance happens on the home page only, matching the reference behavior;
// API routes require the cookie to already exist.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id := s.sessionID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.session.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.session.CookieMaxAge.Std().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
