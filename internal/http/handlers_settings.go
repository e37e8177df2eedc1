package http

import (
	"net/http"

	"finanzas/internal/core"
	"finanzas/internal/log"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Get settings failed", log.FieldError, err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	req.Key = sanitizeInput(req.Key)
	if req.Key == "" {
		respondError(w, core.NewError(core.KindValidation, core.ErrEmptyName))
		return
	}

	if err := s.store.SaveSetting(r.Context(), req.Key, req.Value); err != nil {
		s.logger.ErrorContext(r.Context(), "Save setting failed",
			log.FieldError, err, "key", req.Key)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statusResult{Success: true})
}
