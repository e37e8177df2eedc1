package storage

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"finanzas/internal/core"
)

func TestBackup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustSaveTransaction(t, store, core.Transaction{
		Description: "mov", Amount: 10, Type: core.Expense, Date: core.NewDate(2025, 1, 1),
	})

	info, err := store.Backup(ctx)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if info.Categories != 8 || info.Transactions != 1 {
		t.Fatalf("counts: %+v", info)
	}
	if !strings.Contains(info.Filename, "finances_backup_") {
		t.Fatalf("filename: %s", info.Filename)
	}

	stat, err := os.Stat(info.Filename)
	if err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
	if stat.Size() == 0 {
		t.Fatalf("backup file empty")
	}

	// The copy must itself be an openable database with the same rows.
	copyStore, err := Open(info.Filename)
	if err != nil {
		t.Fatalf("open backup copy: %v", err)
	}
	defer copyStore.Close()
	if n := countRows(t, copyStore, "transactions"); n != 1 {
		t.Fatalf("backup copy rows: got %d", n)
	}
}

func TestResetTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustSaveTransaction(t, store, core.Transaction{
		Description: "uno", Amount: 1, Type: core.Expense, Date: core.NewDate(2025, 1, 1),
	})
	mustSaveTransaction(t, store, core.Transaction{
		Description: "dos", Amount: 2, Type: core.Income, Date: core.NewDate(2025, 1, 2),
	})

	if err := store.ResetTransactions(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if n := countRows(t, store, "transactions"); n != 0 {
		t.Fatalf("transactions remain: %d", n)
	}
	// Categories and settings survive a reset.
	if n := countRows(t, store, "categories"); n != 8 {
		t.Fatalf("categories touched: %d", n)
	}

	// The id sequence restarts.
	id := mustSaveTransaction(t, store, core.Transaction{
		Description: "nuevo", Amount: 3, Type: core.Expense, Date: core.NewDate(2025, 1, 3),
	})
	if id != 1 {
		t.Fatalf("sequence not reset: got id %d", id)
	}
}

func seedSnapshot(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	catID, err := store.SaveCategory(ctx, core.Category{Name: "Streaming", Type: core.Expense})
	if err != nil {
		t.Fatalf("save category: %v", err)
	}
	mustSaveTransaction(t, store, core.Transaction{
		Description: "Suscripción", Amount: 9.99, Type: core.Expense,
		CategoryID: &catID, Date: core.NewDate(2025, 1, 5),
	})
	mustSaveTransaction(t, store, core.Transaction{
		Description: "Salario", Amount: 2500, Type: core.Income, Date: core.NewDate(2025, 1, 25),
	})
	if _, err := store.SaveScheduledExpense(ctx, core.ScheduledExpense{
		Description: "Renta", Amount: 800, Frequency: "mensual", NextPayment: core.NewDate(2025, 2, 1),
	}); err != nil {
		t.Fatalf("save scheduled: %v", err)
	}
}

func TestExportImportReplaceRoundTrip(t *testing.T) {
	source := newTestStore(t)
	ctx := context.Background()
	seedSnapshot(t, source)

	snapshot, err := source.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if snapshot.Version != "1.0" {
		t.Fatalf("version: %s", snapshot.Version)
	}
	if len(snapshot.Categories) != 9 || len(snapshot.Transactions) != 2 || len(snapshot.ScheduledExpenses) != 1 {
		t.Fatalf("snapshot sizes: %d/%d/%d",
			len(snapshot.Categories), len(snapshot.Transactions), len(snapshot.ScheduledExpenses))
	}

	target := newTestStore(t)
	stats, err := target.ImportAll(ctx, snapshot, core.ImportReplace)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if stats.Categories != 9 || stats.Transactions != 2 || stats.ScheduledExpenses != 1 {
		t.Fatalf("import stats: %+v", stats)
	}

	// A re-export of the target reproduces the imported records.
	back, err := target.ExportAll(ctx)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if len(back.Categories) != len(snapshot.Categories) ||
		len(back.Transactions) != len(snapshot.Transactions) ||
		len(back.ScheduledExpenses) != len(snapshot.ScheduledExpenses) {
		t.Fatalf("re-export sizes differ: %d/%d/%d",
			len(back.Categories), len(back.Transactions), len(back.ScheduledExpenses))
	}
	for i, tx := range back.Transactions {
		want := snapshot.Transactions[i]
		if tx.Description != want.Description || tx.Amount != want.Amount || tx.Date.String() != want.Date.String() {
			t.Fatalf("transaction %d differs: got %+v, want %+v", i, tx, want)
		}
	}
}

func TestImportMergeIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSnapshot(t, store)

	snapshot, err := store.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	beforeTx := countRows(t, store, "transactions")
	beforeCat := countRows(t, store, "categories")

	// Merging a store's own export back in must insert nothing.
	stats, err := store.ImportAll(ctx, snapshot, core.ImportMerge)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if stats.Categories != 0 || stats.Transactions != 0 || stats.ScheduledExpenses != 0 {
		t.Fatalf("merge inserted records: %+v", stats)
	}
	if countRows(t, store, "transactions") != beforeTx || countRows(t, store, "categories") != beforeCat {
		t.Fatalf("row counts changed on idempotent merge")
	}

	// Merging again still changes nothing.
	stats, err = store.ImportAll(ctx, snapshot, core.ImportMerge)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if stats.Categories+stats.Transactions+stats.ScheduledExpenses != 0 {
		t.Fatalf("second merge inserted records: %+v", stats)
	}
}

func TestImportMergeAddsOnlyNewRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustSaveTransaction(t, store, core.Transaction{
		Description: "Existente", Amount: 10, Type: core.Expense, Date: core.NewDate(2025, 1, 1),
	})

	snapshot := core.Snapshot{
		Transactions: []core.Transaction{
			// Same identity (description, amount, date): skipped.
			{Description: "Existente", Amount: 10, Type: core.Expense, Date: core.NewDate(2025, 1, 1)},
			// Same description, different amount: new record.
			{Description: "Existente", Amount: 20, Type: core.Expense, Date: core.NewDate(2025, 1, 1)},
		},
		Categories: []core.Category{
			// Seeded name with a different type still counts as existing.
			{Name: "Alimentación", Type: core.Income},
			{Name: "Nueva categoría", Type: core.Expense},
		},
	}

	stats, err := store.ImportAll(ctx, snapshot, core.ImportMerge)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if stats.Transactions != 1 {
		t.Fatalf("transactions imported: got %d, want 1", stats.Transactions)
	}
	if stats.Categories != 1 {
		t.Fatalf("categories imported: got %d, want 1", stats.Categories)
	}
	if n := countRows(t, store, "transactions"); n != 2 {
		t.Fatalf("transaction rows: got %d, want 2", n)
	}
}

func TestImportReplaceClearsExistingData(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSnapshot(t, store)

	snapshot := core.Snapshot{
		Categories: []core.Category{{Name: "Única", Type: core.Expense}},
		Transactions: []core.Transaction{
			{Description: "Única tx", Amount: 5, Type: core.Expense, Date: core.NewDate(2025, 3, 3)},
		},
	}

	stats, err := store.ImportAll(ctx, snapshot, core.ImportReplace)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if stats.Categories != 1 || stats.Transactions != 1 {
		t.Fatalf("stats: %+v", stats)
	}
	if n := countRows(t, store, "categories"); n != 1 {
		t.Fatalf("categories after replace: %d", n)
	}
	if n := countRows(t, store, "transactions"); n != 1 {
		t.Fatalf("transactions after replace: %d", n)
	}
	if n := countRows(t, store, "scheduled_expenses"); n != 0 {
		t.Fatalf("scheduled after replace: %d", n)
	}
	// Settings are not part of the snapshot and survive.
	if n := countRows(t, store, "settings"); n == 0 {
		t.Fatalf("settings were cleared")
	}
}

func TestImportInvalidMode(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ImportAll(context.Background(), core.Snapshot{}, "upsert")
	if core.KindOf(err) != core.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExportAllToFile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSnapshot(t, store)

	path, err := store.ExportAllToFile(ctx)
	if err != nil {
		t.Fatalf("export to file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var snapshot core.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(snapshot.Transactions) != 2 {
		t.Fatalf("export content: %d transactions", len(snapshot.Transactions))
	}
}

func TestExportReportToFile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustSaveTransaction(t, store, core.Transaction{
		Description: "Salario", Amount: 1000, Type: core.Income, Date: core.NewDate(2025, 5, 5),
	})

	now := time.Date(2025, 5, 20, 0, 0, 0, 0, time.Local)
	path, err := store.ExportReportToFile(ctx, core.PeriodMonth, now)
	if err != nil {
		t.Fatalf("export report: %v", err)
	}
	if !strings.Contains(path, "financial_report_month_") {
		t.Fatalf("path: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report core.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if report.TotalIncome != 1000 || report.Period != core.PeriodMonth {
		t.Fatalf("report content: %+v", report)
	}
}
