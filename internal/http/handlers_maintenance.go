package http

import (
	"net/http"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/log"
)

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	info, err := s.store.Backup(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Backup failed", log.FieldError, err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		core.BackupInfo
	}{Success: true, BackupInfo: info})
}

func (s *Server) handleResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ResetTransactions(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Reset failed", log.FieldError, err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statusResult{Success: true})
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Period string `json:"period"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	period := core.ParsePeriod(req.Period)
	path, err := s.store.ExportReportToFile(r.Context(), period, time.Now())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Export report failed",
			log.FieldError, err, "period", period)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success  bool   `json:"success"`
		Filename string `json:"filename"`
	}{Success: true, Filename: path})
}

func (s *Server) handleExportDatabase(w http.ResponseWriter, r *http.Request) {
	path, err := s.store.ExportAllToFile(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Export database failed", log.FieldError, err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success  bool   `json:"success"`
		Filename string `json:"filename"`
	}{Success: true, Filename: path})
}

func (s *Server) handleImportDatabase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data core.Snapshot   `json:"data"`
		Mode core.ImportMode `json:"mode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if req.Mode == "" {
		req.Mode = core.ImportReplace
	}

	stats, err := s.store.ImportAll(r.Context(), req.Data, req.Mode)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Import database failed",
			log.FieldError, err, "mode", req.Mode)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success bool             `json:"success"`
		Stats   core.ImportStats `json:"stats"`
	}{Success: true, Stats: stats})
}
