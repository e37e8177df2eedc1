package http

import (
	"net/http"
	"strconv"

	"finanzas/internal/core"
	"finanzas/internal/events"
	"finanzas/internal/log"
	"finanzas/internal/storage"
)

// transactionFilterFromQuery builds a store filter from query params.
// Unparseable values are rejected rather than silently dropped.
func transactionFilterFromQuery(r *http.Request) (storage.TransactionFilter, error) {
	var filter storage.TransactionFilter
	q := r.URL.Query()

	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, core.NewError(core.KindValidation, err)
		}
		filter.CategoryID = &id
	}
	if v := q.Get("type"); v != "" {
		t := core.EntryType(v)
		if !t.Valid() {
			return filter, core.NewError(core.KindValidation, core.ErrInvalidType)
		}
		filter.Type = t
	}
	for param, dst := range map[string]**core.Date{
		"date":       &filter.Date,
		"start_date": &filter.StartDate,
		"end_date":   &filter.EndDate,
	} {
		v := q.Get(param)
		if v == "" {
			continue
		}
		d, err := core.ParseDate(v)
		if err != nil {
			return filter, core.NewError(core.KindValidation, err)
		}
		*dst = &d
	}
	return filter, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilterFromQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}

	transactions, err := s.store.ListTransactions(r.Context(), filter)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List transactions failed", log.FieldError, err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleSaveTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	t.Description = sanitizeInput(t.Description)
	t.Notes = sanitizeInput(t.Notes)

	id, err := s.store.SaveTransaction(r.Context(), t)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Save transaction failed",
			log.FieldError, err, "description", t.Description)
		respondError(w, err)
		return
	}

	s.publishTransactionEvent(r, events.ActionSaved, id)
	respondJSON(w, http.StatusOK, statusResult{Success: true, ID: id})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), req.ID); err != nil {
		s.logger.ErrorContext(r.Context(), "Delete transaction failed",
			log.FieldError, err, log.FieldID, req.ID)
		respondError(w, err)
		return
	}

	s.publishTransactionEvent(r, events.ActionDeleted, req.ID)
	respondJSON(w, http.StatusOK, statusResult{Success: true, ID: req.ID})
}

// publishTransactionEvent emits a change event. Failures are logged; the
// mutation already committed and the response stays successful.
func (s *Server) publishTransactionEvent(r *http.Request, action string, id int64) {
	event := events.NewTransactionEvent(action, id)
	if err := s.publisher.PublishTransactionEvent(r.Context(), event); err != nil {
		s.logger.WarnContext(r.Context(), "Publish transaction event failed",
			log.FieldError, err, "action", action, log.FieldID, id)
	}
}
