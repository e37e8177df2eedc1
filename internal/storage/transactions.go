package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"finanzas/internal/core"
)

// TransactionFilter narrows ListTransactions. All fields are optional
// and AND-combined.
type TransactionFilter struct {
	CategoryID *int64
	Type       core.EntryType
	Date       *core.Date
	StartDate  *core.Date
	EndDate    *core.Date
}

const transactionColumns = `
	t.id, t.description, t.amount, t.type, t.category_id, t.date, t.notes,
	c.name AS category_name, c.color AS category_color, c.icon AS category_icon`

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		t          core.Transaction
		categoryID sql.NullInt64
		date       string
		name       sql.NullString
		color      sql.NullString
		icon       sql.NullString
	)
	if err := rows.Scan(&t.ID, &t.Description, &t.Amount, &t.Type, &categoryID,
		&date, &t.Notes, &name, &color, &icon); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	parsed, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	t.Date = parsed
	t.CategoryID = int64Ptr(categoryID)
	t.CategoryName = stringPtr(name)
	t.CategoryColor = stringPtr(color)
	t.CategoryIcon = stringPtr(icon)
	return t, nil
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return transactions, nil
}

// ListTransactions returns transactions joined with their category,
// newest first. Category fields are nil when category_id does not
// resolve.
func (s *Store) ListTransactions(ctx context.Context, filter TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id`

	var (
		where []string
		args  []any
	)
	if filter.CategoryID != nil {
		where = append(where, "t.category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.Type != "" {
		where = append(where, "t.type = ?")
		args = append(args, filter.Type)
	}
	if filter.Date != nil {
		where = append(where, "t.date = ?")
		args = append(args, filter.Date.String())
	}
	if filter.StartDate != nil {
		where = append(where, "t.date >= ?")
		args = append(args, filter.StartDate.String())
	}
	if filter.EndDate != nil {
		where = append(where, "t.date <= ?")
		args = append(args, filter.EndDate.String())
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.date DESC, t.created_at DESC"

	return s.queryTransactions(ctx, query, args...)
}

// recentTransactions returns the latest n transactions for the dashboard.
func (s *Store) recentTransactions(ctx context.Context, n int) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT ?`
	return s.queryTransactions(ctx, query, n)
}

// SaveTransaction inserts when no id is given, otherwise updates the
// matching row.
func (s *Store) SaveTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	if t.ID > 0 {
		res, err := s.db.ExecContext(ctx, `
			UPDATE transactions
			SET description = ?, amount = ?, type = ?, category_id = ?, date = ?, notes = ?
			WHERE id = ?`,
			t.Description, t.Amount, t.Type, nullableInt64(t.CategoryID),
			t.Date.String(), t.Notes, t.ID)
		if err != nil {
			return 0, fmt.Errorf("update transaction: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("update transaction rows affected: %w", err)
		}
		if affected == 0 {
			return 0, core.NewError(core.KindNotFound, core.ErrNotFound)
		}
		return t.ID, nil
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (description, amount, type, category_id, date, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.Description, t.Amount, t.Type, nullableInt64(t.CategoryID),
		t.Date.String(), t.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"description", t.Description,
		"amount", t.Amount,
		"type", t.Type,
		"date", t.Date.String())
	return id, nil
}

// DeleteTransaction removes a transaction by id. A missing row is a
// distinct, non-fatal not-found outcome.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return core.NewError(core.KindNotFound, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// transactionExists is the merge-import identity lookup:
// (description, amount, date).
func transactionExists(ctx context.Context, tx *sql.Tx, description string, amount float64, date string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `
		SELECT 1 FROM transactions
		WHERE description = ? AND amount = ? AND date = ?`,
		description, amount, date).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check transaction identity: %w", err)
	}
	return true, nil
}
