package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleMovies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))

		movies, p := s.catalog.Movies(page, limit, q.Get("search"))
		writeJSON(w, http.StatusOK, response{Code: http.StatusOK, Data: movies, Pagination: &p})
	}
}

func (s *Server) handleMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.catalog.Movie(chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, "", m)
	}
}

func (s *Server) handleContests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, "", s.catalog.Contests())
	}
}
