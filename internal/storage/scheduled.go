package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"finanzas/internal/core"
)

// ListScheduledExpenses returns all scheduled expenses ordered by
// next_payment ascending.
func (s *Store) ListScheduledExpenses(ctx context.Context) ([]core.ScheduledExpense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount, frequency, next_payment, notes
		FROM scheduled_expenses
		ORDER BY next_payment`)
	if err != nil {
		return nil, fmt.Errorf("list scheduled expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.ScheduledExpense{}
	for rows.Next() {
		var (
			e           core.ScheduledExpense
			nextPayment string
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Frequency, &nextPayment, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan scheduled expense: %w", err)
		}
		parsed, err := core.ParseDate(nextPayment)
		if err != nil {
			return nil, fmt.Errorf("parse next payment date %q: %w", nextPayment, err)
		}
		e.NextPayment = parsed
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scheduled expenses: %w", err)
	}
	return expenses, nil
}

// SaveScheduledExpense inserts when no id is given, otherwise updates
// the matching row.
func (s *Store) SaveScheduledExpense(ctx context.Context, e core.ScheduledExpense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	if e.ID > 0 {
		res, err := s.db.ExecContext(ctx, `
			UPDATE scheduled_expenses
			SET description = ?, amount = ?, frequency = ?, next_payment = ?, notes = ?
			WHERE id = ?`,
			e.Description, e.Amount, e.Frequency, e.NextPayment.String(), e.Notes, e.ID)
		if err != nil {
			return 0, fmt.Errorf("update scheduled expense: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("update scheduled expense rows affected: %w", err)
		}
		if affected == 0 {
			return 0, core.NewError(core.KindNotFound, core.ErrNotFound)
		}
		return e.ID, nil
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scheduled_expenses (description, amount, frequency, next_payment, notes)
		VALUES (?, ?, ?, ?, ?)`,
		e.Description, e.Amount, e.Frequency, e.NextPayment.String(), e.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert scheduled expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("scheduled expense last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Scheduled expense saved",
		"id", id,
		"description", e.Description,
		"next_payment", e.NextPayment.String())
	return id, nil
}

// DeleteScheduledExpense removes a scheduled expense by id.
func (s *Store) DeleteScheduledExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scheduled_expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scheduled expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scheduled expense rows affected: %w", err)
	}
	if affected == 0 {
		return core.NewError(core.KindNotFound, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Scheduled expense deleted", "id", id)
	return nil
}

// scheduledExpenseExists is the merge-import identity lookup:
// (description, amount).
func scheduledExpenseExists(ctx context.Context, tx *sql.Tx, description string, amount float64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `
		SELECT 1 FROM scheduled_expenses
		WHERE description = ? AND amount = ?`,
		description, amount).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check scheduled expense identity: %w", err)
	}
	return true, nil
}
