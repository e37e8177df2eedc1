// Package dispatch maps named commands with JSON payloads onto store
// operations. It backs the CLI binary and mirrors the HTTP API surface.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/log"
	"finanzas/internal/storage"
)

// Result is the uniform outcome shape for every command.
type Result struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Kind    core.ErrorKind `json:"kind,omitempty"`
}

// Dispatcher routes commands to the store.
type Dispatcher struct {
	store  *storage.Store
	logger *log.Logger
	now    func() time.Time
}

func New(store *storage.Store, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		logger: logger.WithComponent(log.ComponentDispatcher),
		now:    time.Now,
	}
}

// Dispatch runs one command. Unknown commands and store faults come back
// as a failed Result; nothing panics out of here.
func (d *Dispatcher) Dispatch(ctx context.Context, command string, payload []byte) Result {
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	d.logger.InfoContext(ctx, "Dispatching command", log.FieldCommand, command)

	data, err := d.run(ctx, command, payload)
	if err != nil {
		d.logger.ErrorContext(ctx, "Command failed",
			log.FieldCommand, command, log.FieldError, err)
		return Result{Success: false, Error: err.Error(), Kind: core.KindOf(err)}
	}
	return Result{Success: true, Data: data}
}

func (d *Dispatcher) run(ctx context.Context, command string, payload []byte) (any, error) {
	switch command {
	case "init_database":
		// Open already ran the migrations; report where the data lives.
		if err := d.store.Ping(ctx); err != nil {
			return nil, err
		}
		return map[string]string{"path": d.store.Path()}, nil

	case "get_categories":
		var req struct {
			Totals bool `json:"totals"`
		}
		if err := parsePayload(payload, &req); err != nil {
			return nil, err
		}
		if req.Totals {
			return d.store.ListCategoryTotals(ctx)
		}
		return d.store.ListCategories(ctx)

	case "save_category":
		var c core.Category
		if err := parsePayload(payload, &c); err != nil {
			return nil, err
		}
		id, err := d.store.SaveCategory(ctx, c)
		if err != nil {
			return nil, err
		}
		return map[string]int64{"id": id}, nil

	case "get_transactions":
		filter, err := parseTransactionFilter(payload)
		if err != nil {
			return nil, err
		}
		return d.store.ListTransactions(ctx, filter)

	case "save_transaction":
		var t core.Transaction
		if err := parsePayload(payload, &t); err != nil {
			return nil, err
		}
		id, err := d.store.SaveTransaction(ctx, t)
		if err != nil {
			return nil, err
		}
		return map[string]int64{"id": id}, nil

	case "delete_transaction":
		id, err := parseID(payload)
		if err != nil {
			return nil, err
		}
		if err := d.store.DeleteTransaction(ctx, id); err != nil {
			return nil, err
		}
		return map[string]int64{"id": id}, nil

	case "get_dashboard_stats":
		return d.store.DashboardStats(ctx, d.now())

	case "get_report":
		period, err := parsePeriod(payload)
		if err != nil {
			return nil, err
		}
		return d.store.Report(ctx, period, d.now())

	case "backup_database":
		return d.store.Backup(ctx)

	case "reset_database":
		if err := d.store.ResetTransactions(ctx); err != nil {
			return nil, err
		}
		return nil, nil

	case "export_report":
		period, err := parsePeriod(payload)
		if err != nil {
			return nil, err
		}
		path, err := d.store.ExportReportToFile(ctx, period, d.now())
		if err != nil {
			return nil, err
		}
		return map[string]string{"filename": path}, nil

	case "export_database":
		path, err := d.store.ExportAllToFile(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]string{"filename": path}, nil

	case "import_database":
		var req struct {
			Data core.Snapshot   `json:"data"`
			Mode core.ImportMode `json:"mode"`
		}
		if err := parsePayload(payload, &req); err != nil {
			return nil, err
		}
		if req.Mode == "" {
			req.Mode = core.ImportReplace
		}
		return d.store.ImportAll(ctx, req.Data, req.Mode)

	case "get_scheduled_expenses":
		return d.store.ListScheduledExpenses(ctx)

	case "save_scheduled_expense":
		var e core.ScheduledExpense
		if err := parsePayload(payload, &e); err != nil {
			return nil, err
		}
		id, err := d.store.SaveScheduledExpense(ctx, e)
		if err != nil {
			return nil, err
		}
		return map[string]int64{"id": id}, nil

	case "delete_scheduled_expense":
		id, err := parseID(payload)
		if err != nil {
			return nil, err
		}
		if err := d.store.DeleteScheduledExpense(ctx, id); err != nil {
			return nil, err
		}
		return map[string]int64{"id": id}, nil

	case "get_settings":
		return d.store.GetSettings(ctx)

	case "save_setting":
		var req struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}
		if err := parsePayload(payload, &req); err != nil {
			return nil, err
		}
		if req.Key == "" {
			return nil, core.NewError(core.KindValidation, core.ErrEmptyName)
		}
		if err := d.store.SaveSetting(ctx, req.Key, req.Value); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, core.NewError(core.KindNotFound, fmt.Errorf("unknown command %q", command))
	}
}

func parsePayload(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return core.NewError(core.KindValidation, fmt.Errorf("invalid payload: %w", err))
	}
	return nil
}

func parseID(payload []byte) (int64, error) {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := parsePayload(payload, &req); err != nil {
		return 0, err
	}
	return req.ID, nil
}

func parsePeriod(payload []byte) (core.Period, error) {
	var req struct {
		Period string `json:"period"`
	}
	if err := parsePayload(payload, &req); err != nil {
		return "", err
	}
	return core.ParsePeriod(req.Period), nil
}

func parseTransactionFilter(payload []byte) (storage.TransactionFilter, error) {
	var req struct {
		CategoryID *int64     `json:"category_id"`
		Type       string     `json:"type"`
		Date       *core.Date `json:"date"`
		StartDate  *core.Date `json:"start_date"`
		EndDate    *core.Date `json:"end_date"`
	}
	var filter storage.TransactionFilter
	if err := parsePayload(payload, &req); err != nil {
		return filter, err
	}
	if req.Type != "" {
		t := core.EntryType(req.Type)
		if !t.Valid() {
			return filter, core.NewError(core.KindValidation, core.ErrInvalidType)
		}
		filter.Type = t
	}
	filter.CategoryID = req.CategoryID
	filter.Date = req.Date
	filter.StartDate = req.StartDate
	filter.EndDate = req.EndDate
	return filter, nil
}
