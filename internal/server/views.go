package server

import (
	"net/http"

	"github.com/lazypower/keepsharp/internal/analytics"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.engine.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.engine.Alerts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	days, ok := queryInt(r, "days", analytics.DefaultHistoryDays)
	if !ok {
		badRequest(w, "days must be an integer")
		return
	}
	var opts []analytics.HistoryOption
	if queryBool(r, "archived") {
		opts = append(opts, analytics.IncludeArchived())
	}

	hist, err := s.engine.History(r.Context(), days, opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.engine.Categories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.engine.Settings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleUpdateSettings merges the body over the stored settings, so a
// client may send only the fields it changes.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.engine.Settings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !decodeJSON(w, r, &settings) {
		return
	}

	saved, err := s.engine.UpdateSettings(r.Context(), settings)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
