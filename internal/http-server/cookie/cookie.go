// Package cookie carries the session token. The token only ever travels in
// this HTTP-only cookie, never in a header or query parameter.
package cookie

import (
	"net/http"
	"time"
)

type Jar struct {
	Name   string
	Secure bool
}

func (j Jar) Token(r *http.Request) string {
	c, err := r.Cookie(j.Name)
	if err != nil {
		return ""
	}
	return c.Value
}

// Set issues the cookie for the session's lifetime.
func (j Jar) Set(w http.ResponseWriter, token string, lifetime time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     j.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   j.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (j Jar) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     j.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
