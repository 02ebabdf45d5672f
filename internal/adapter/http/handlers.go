package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/reservoirwatch/dam-levels/internal/domain"
)

// dateParamLayout is the wire format for dates in query parameters and
// filter listings.
const dateParamLayout = "2006-01-02"

type readingsResponse struct {
	Source    string           `json:"source"`
	FetchID   string           `json:"fetch_id"`
	FetchedAt time.Time        `json:"fetched_at"`
	Count     int              `json:"count"`
	Readings  []domain.Reading `json:"readings"`
}

type filtersResponse struct {
	Dates []string `json:"dates"`
	Dams  []string `json:"dams"`
}

type dashboardResponse struct {
	FetchID   string      `json:"fetch_id"`
	FetchedAt time.Time   `json:"fetched_at"`
	View      domain.View `json:"view"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleReadings serves the full enriched table.
func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, readingsResponse{
		Source:    snapshot.Source,
		FetchID:   snapshot.FetchID,
		FetchedAt: snapshot.FetchedAt,
		Count:     len(snapshot.Readings),
		Readings:  snapshot.Readings,
	})
}

// handleFilters serves the selectable dates and dam names, the values a
// client offers in its pickers.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}

	dates := domain.Dates(snapshot.Readings)
	formatted := make([]string, len(dates))
	for i, d := range dates {
		formatted[i] = d.Format(dateParamLayout)
	}

	writeJSON(w, http.StatusOK, filtersResponse{
		Dates: formatted,
		Dams:  domain.DamNames(snapshot.Readings),
	})
}

// handleDashboard serves the day subset, dam series, and summary for the
// selected date and dam. Omitting the date selects the latest one
// present; omitting the dam selects all.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}

	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", raw),
			})
			return
		}
		if !hasDate(snapshot.Readings, parsed) {
			writeJSON(w, http.StatusNotFound, errorResponse{
				Error: fmt.Sprintf("no readings dated %s", raw),
			})
			return
		}
		date = parsed
	}

	view := domain.BuildView(snapshot.Readings, date, r.URL.Query().Get("dam"))
	writeJSON(w, http.StatusOK, dashboardResponse{
		FetchID:   snapshot.FetchID,
		FetchedAt: snapshot.FetchedAt,
		View:      view,
	})
}

// currentSnapshot fetches the snapshot or answers 503 when no data can be
// served at all: nothing cached and the upstream fetch failed.
func (s *Server) currentSnapshot(w http.ResponseWriter, r *http.Request) (domain.Snapshot, bool) {
	snapshot, err := s.feed.Snapshot(r.Context())
	if err != nil {
		s.logger.Warn("snapshot unavailable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "data unavailable: " + err.Error(),
		})
		return domain.Snapshot{}, false
	}
	return snapshot, true
}

func hasDate(readings []domain.Reading, date time.Time) bool {
	for _, d := range domain.Dates(readings) {
		if d.Equal(date) {
			return true
		}
	}
	return false
}
