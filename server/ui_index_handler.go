package server

import (
	"net/http"

	"github.com/Sajjadhussain197/umsfront/session"
)

// IndexHandler renders the home page, or sends a signed-in user to their home
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claim := session.ClaimFromContext(r.Context()); claim != nil {
			if home, ok := s.gate.HomeFor(claim.Role); ok {
				redirectSuccess(w, r, home)
				return
			}
		}
		s.renderPage(w, r, "home", "Welcome", "index.html", nil)
	}
}
