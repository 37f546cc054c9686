package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/cinepass/internal/devserver/models"
)

type profileData struct {
	User *models.Profile `json:"user"`
}

func (s *Server) handleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.profiles.Get(r.Context(), UserID(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, "", profileData{User: p})
	}
}

func (s *Server) handlePutProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p models.Profile
		if err := decodeBody(w, r, &p); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.profiles.Update(r.Context(), UserID(r.Context()), p); err != nil {
			writeServiceError(w, err)
			return
		}
		writeMessage(w, "Profile updated")
	}
}

func (s *Server) handlePutKYC() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var k models.KYC
		if err := decodeBody(w, r, &k); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.profiles.SaveKYC(r.Context(), UserID(r.Context()), k); err != nil {
			writeServiceError(w, err)
			return
		}
		writeMessage(w, "KYC details saved")
	}
}

func (s *Server) handlePutPermissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var perms map[string]bool
		if err := decodeBody(w, r, &perms); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.profiles.SavePermissions(r.Context(), UserID(r.Context()), perms); err != nil {
			writeServiceError(w, err)
			return
		}
		writeMessage(w, "Permissions saved")
	}
}
