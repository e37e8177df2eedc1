package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finanzas/internal/core"
)

const snapshotVersion = "1.0"

const timestampLayout = "20060102_150405"

// Backup copies the database file to a timestamped sibling under
// backups/ and reports what it contains.
func (s *Store) Backup(ctx context.Context) (core.BackupInfo, error) {
	var info core.BackupInfo

	backupDir := filepath.Join(filepath.Dir(s.path), "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return info, core.NewError(core.KindIO, fmt.Errorf("create backup directory: %w", err))
	}

	name := fmt.Sprintf("finances_backup_%s.db", time.Now().Format(timestampLayout))
	backupPath := filepath.Join(backupDir, name)

	src, err := os.Open(s.path)
	if err != nil {
		return info, core.NewError(core.KindIO, fmt.Errorf("open database file: %w", err))
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return info, core.NewError(core.KindIO, fmt.Errorf("create backup file: %w", err))
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(backupPath)
		return info, core.NewError(core.KindIO, fmt.Errorf("copy database file: %w", err))
	}

	info.Filename = backupPath
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&info.Categories); err != nil {
		return info, fmt.Errorf("count categories: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&info.Transactions); err != nil {
		return info, fmt.Errorf("count transactions: %w", err)
	}

	slog.InfoContext(ctx, "Backup created",
		"path", backupPath,
		"categories", info.Categories,
		"transactions", info.Transactions)
	return info, nil
}

// ResetTransactions deletes every transaction and resets its id
// sequence. Categories, scheduled expenses and settings are preserved.
func (s *Store) ResetTransactions(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'transactions'`); err != nil {
		return fmt.Errorf("reset transaction sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}

	slog.InfoContext(ctx, "Transactions reset")
	return nil
}

// ExportAll serializes the full store content to a snapshot document.
func (s *Store) ExportAll(ctx context.Context) (core.Snapshot, error) {
	snapshot := core.Snapshot{
		ExportDate: time.Now().Format(time.RFC3339),
		Version:    snapshotVersion,
	}

	categories, err := s.ListCategories(ctx)
	if err != nil {
		return snapshot, err
	}
	snapshot.Categories = categories

	transactions, err := s.ListTransactions(ctx, TransactionFilter{})
	if err != nil {
		return snapshot, err
	}
	snapshot.Transactions = transactions

	scheduled, err := s.ListScheduledExpenses(ctx)
	if err != nil {
		return snapshot, err
	}
	snapshot.ScheduledExpenses = scheduled

	return snapshot, nil
}

// exportsDir returns the sibling exports/ directory, creating it if
// needed.
func (s *Store) exportsDir() (string, error) {
	dir := filepath.Join(filepath.Dir(s.path), "exports")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", core.NewError(core.KindIO, fmt.Errorf("create exports directory: %w", err))
	}
	return dir, nil
}

func writeExportFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return core.NewError(core.KindIO, fmt.Errorf("write export file: %w", err))
	}
	return nil
}

// ExportAllToFile writes the full snapshot to a timestamped JSON file
// under exports/ and returns its path.
func (s *Store) ExportAllToFile(ctx context.Context) (string, error) {
	snapshot, err := s.ExportAll(ctx)
	if err != nil {
		return "", err
	}

	dir, err := s.exportsDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("finances_export_%s.json", time.Now().Format(timestampLayout)))
	if err := writeExportFile(path, snapshot); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Database exported", "path", path)
	return path, nil
}

// ExportReportToFile writes a period report to a timestamped JSON file
// under exports/ and returns its path.
func (s *Store) ExportReportToFile(ctx context.Context, period core.Period, now time.Time) (string, error) {
	report, err := s.Report(ctx, period, now)
	if err != nil {
		return "", err
	}

	dir, err := s.exportsDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("financial_report_%s_%s.json", period, time.Now().Format(timestampLayout)))
	if err := writeExportFile(path, report); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Report exported", "path", path, "period", period)
	return path, nil
}

// ImportAll loads a snapshot document into the store inside one SQL
// transaction.
//
// replace clears the three tables and their id sequences, then inserts
// every record verbatim; all records count as imported. merge inserts
// only records with no identity match (category: name+type, transaction:
// description+amount+date, scheduled expense: description+amount) and
// counts only the new inserts.
func (s *Store) ImportAll(ctx context.Context, snapshot core.Snapshot, mode core.ImportMode) (core.ImportStats, error) {
	var stats core.ImportStats

	if !mode.Valid() {
		return stats, core.NewError(core.KindValidation, fmt.Errorf("invalid import mode %q", mode))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if mode == core.ImportReplace {
		for _, table := range []string{"transactions", "categories", "scheduled_expenses"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return stats, fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM sqlite_sequence WHERE name IN ('categories', 'transactions', 'scheduled_expenses')`); err != nil {
			return stats, fmt.Errorf("reset sequences: %w", err)
		}
	}

	for _, c := range snapshot.Categories {
		if mode == core.ImportMerge {
			exists, err := categoryExists(ctx, tx, c.Name, c.Type)
			if err != nil {
				return stats, err
			}
			if exists {
				continue
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (name, type, color, icon)
			VALUES (?, ?, ?, ?)`,
			c.Name, c.Type, c.Color, c.Icon)
		if err != nil {
			// A merge candidate whose name collides with a different
			// type still trips UNIQUE(name); treat it as existing.
			if mode == core.ImportMerge && isUniqueViolation(err) {
				continue
			}
			return stats, fmt.Errorf("import category %q: %w", c.Name, err)
		}
		stats.Categories++
	}

	for _, t := range snapshot.Transactions {
		if mode == core.ImportMerge {
			exists, err := transactionExists(ctx, tx, t.Description, t.Amount, t.Date.String())
			if err != nil {
				return stats, err
			}
			if exists {
				continue
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (description, amount, type, category_id, date, notes)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.Description, t.Amount, t.Type, nullableInt64(t.CategoryID),
			t.Date.String(), t.Notes)
		if err != nil {
			return stats, fmt.Errorf("import transaction %q: %w", t.Description, err)
		}
		stats.Transactions++
	}

	for _, e := range snapshot.ScheduledExpenses {
		if mode == core.ImportMerge {
			exists, err := scheduledExpenseExists(ctx, tx, e.Description, e.Amount)
			if err != nil {
				return stats, err
			}
			if exists {
				continue
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO scheduled_expenses (description, amount, frequency, next_payment, notes)
			VALUES (?, ?, ?, ?, ?)`,
			e.Description, e.Amount, e.Frequency, e.NextPayment.String(), e.Notes)
		if err != nil {
			return stats, fmt.Errorf("import scheduled expense %q: %w", e.Description, err)
		}
		stats.ScheduledExpenses++
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Database imported",
		"mode", mode,
		"categories", stats.Categories,
		"transactions", stats.Transactions,
		"scheduled_expenses", stats.ScheduledExpenses)
	return stats, nil
}
