package handlers

import (
	"net/http"

	"edupay-backend/internal/services"
)

// resolveSession returns the academic year a request operates on: the
// explicit ?session= override when present, otherwise the active session
// from settings.
func resolveSession(r *http.Request, sessions *services.SessionService) string {
	if s := r.URL.Query().Get("session"); s != "" {
		return s
	}
	return sessions.ActiveSession(r.Context())
}
