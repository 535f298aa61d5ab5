package server

import (
	"net/http"

	"github.com/google/uuid"
)

const clientIDCookie = "llmstream-client"

// clientID returns a stable identifier for the browser, issuing a cookie on
// first contact.
func clientID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := cookieID(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     clientIDCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// cookieID returns the client identifier carried by r, if any.
func cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(clientIDCookie)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
