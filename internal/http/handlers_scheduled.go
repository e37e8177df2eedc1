package http

import (
	"net/http"

	"finanzas/internal/core"
	"finanzas/internal/log"
)

func (s *Server) handleListScheduledExpenses(w http.ResponseWriter, r *http.Request) {
	scheduled, err := s.store.ListScheduledExpenses(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List scheduled expenses failed", log.FieldError, err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, scheduled)
}

func (s *Server) handleSaveScheduledExpense(w http.ResponseWriter, r *http.Request) {
	var e core.ScheduledExpense
	if err := decodeJSON(r, &e); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	e.Description = sanitizeInput(e.Description)
	e.Notes = sanitizeInput(e.Notes)

	id, err := s.store.SaveScheduledExpense(r.Context(), e)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Save scheduled expense failed",
			log.FieldError, err, "description", e.Description)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statusResult{Success: true, ID: id})
}

func (s *Server) handleDeleteScheduledExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.store.DeleteScheduledExpense(r.Context(), req.ID); err != nil {
		s.logger.ErrorContext(r.Context(), "Delete scheduled expense failed",
			log.FieldError, err, log.FieldID, req.ID)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statusResult{Success: true, ID: req.ID})
}
