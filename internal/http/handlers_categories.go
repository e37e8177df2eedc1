package http

import (
	"net/http"

	"finanzas/internal/core"
	"finanzas/internal/log"
)

// handleListCategories returns every category ordered by name. With
// ?totals=1 each row also carries its total expense amount.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("totals") == "1" {
		totals, err := s.store.ListCategoryTotals(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "List category totals failed", log.FieldError, err)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, totals)
		return
	}

	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List categories failed", log.FieldError, err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleSaveCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := decodeJSON(r, &c); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	c.Name = sanitizeInput(c.Name)

	id, err := s.store.SaveCategory(r.Context(), c)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Save category failed",
			log.FieldError, err, "name", c.Name)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statusResult{Success: true, ID: id})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.store.DeleteCategory(r.Context(), req.ID); err != nil {
		s.logger.ErrorContext(r.Context(), "Delete category failed",
			log.FieldError, err, log.FieldID, req.ID)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statusResult{Success: true, ID: req.ID})
}
