package server

import (
	"net/http"
)

// listProfiles handles GET /profile
func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profiles.List())
}
