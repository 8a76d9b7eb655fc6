package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/JonMunkholm/storemap/internal/core"
	"github.com/go-chi/chi/v5"
)

// handleLookup returns the entry for one postal code.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.LookupPostalCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleSearch returns postal codes with a store matching ?q=.
// No match is not an error: the empty result carries the notification.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.SearchStores(r.Context(), r.URL.Query().Get("q"))
	if err != nil && !errors.Is(err, core.ErrNoStoresFound) {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// IndexResponse describes the current index.
type IndexResponse struct {
	UploadID    string                   `json:"uploadId,omitempty"`
	FileName    string                   `json:"fileName,omitempty"`
	UploadedAt  *time.Time               `json:"uploadedAt,omitempty"`
	Summary     core.ParseSummary        `json:"summary"`
	PostalCodes []string                 `json:"postalCodes"`
	Stores      int                      `json:"stores"`
	Uploads     core.UploadLimiterStatus `json:"uploads"`
}

// handleIndex returns the summary of the current snapshot.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.service.Snapshot()
	resp := IndexResponse{
		UploadID:    snap.UploadID,
		FileName:    snap.FileName,
		Summary:     snap.Summary,
		PostalCodes: snap.Index.PostalCodes(),
		Stores:      snap.Index.StoreCount(),
		Uploads:     s.service.UploadLimiterStatus(),
	}
	if !snap.UploadedAt.IsZero() {
		resp.UploadedAt = &snap.UploadedAt
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleHistory returns recent upload attempts, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", defaultHistoryPage)
	if limit > s.cfg.History.Limit {
		limit = s.cfg.History.Limit
	}

	records, err := s.service.History(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []core.UploadRecord{}
	}
	writeJSON(w, r, http.StatusOK, records)
}
