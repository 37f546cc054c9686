package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/cinepass/internal/devserver/models"
	"github.com/dmitrijs2005/cinepass/internal/devserver/service"
)

type identifierRequest struct {
	Identifier string `json:"identifier"`
	OTP        string `json:"otp"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokensData struct {
	Tokens *service.TokenPair `json:"tokens"`
	User   *models.User       `json:"user,omitempty"`
}

func (s *Server) handleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req identifierRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.auth.RequestOTP(r.Context(), req.Identifier); err != nil {
			writeServiceError(w, err)
			return
		}
		writeMessage(w, "OTP sent successfully")
	}
}

func (s *Server) handleVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req identifierRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		u, pair, err := s.auth.VerifyOTP(r.Context(), req.Identifier, req.OTP)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, "Login successful", tokensData{Tokens: pair, User: u})
	}
}

func (s *Server) handleIdentifierOTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req identifierRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.auth.RequestIdentifierOTP(r.Context(), req.Identifier); err != nil {
			writeServiceError(w, err)
			return
		}
		writeMessage(w, "OTP sent successfully")
	}
}

func (s *Server) handleVerifyIdentifier() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req identifierRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.auth.VerifyIdentifier(r.Context(), req.Identifier, req.OTP); err != nil {
			writeServiceError(w, err)
			return
		}
		writeMessage(w, "Identifier verified")
	}
}

func (s *Server) handleRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		pair, err := s.auth.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, "Token refreshed", tokensData{Tokens: pair})
	}
}

func (s *Server) handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout(r.Context(), UserID(r.Context())); err != nil {
			writeServiceError(w, err)
			return
		}
		writeMessage(w, "Logged out")
	}
}
