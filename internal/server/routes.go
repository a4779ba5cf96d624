package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/elidoras/datacore/internal/search"
)

const (
	defaultK = 8
	maxK     = 50
)

type searchRequest struct {
	Q string `json:"q"`
	K int    `json:"k"`
}

type searchResponse struct {
	Results []search.Hit `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleSearch serves POST /search. A missing k defaults to 8 and any value
// outside [1,50] is clamped into range.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	k := req.K
	switch {
	case k == 0:
		k = defaultK
	case k < 1:
		k = 1
	case k > maxK:
		k = maxK
	}

	hits, err := s.searcher.Search(r.Context(), req.Q, k)
	if err != nil {
		log.Printf("server: search failed: %v", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "search backend unavailable"})
		return
	}
	if hits == nil {
		hits = []search.Hit{}
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: hits})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: write response: %v", err)
	}
}
