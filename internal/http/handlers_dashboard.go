package http

import (
	"net/http"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.DashboardStats(r.Context(), time.Now())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Dashboard stats failed", log.FieldError, err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	period := core.ParsePeriod(r.URL.Query().Get("period"))

	report, err := s.store.Report(r.Context(), period, time.Now())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Report failed",
			log.FieldError, err, "period", period)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
