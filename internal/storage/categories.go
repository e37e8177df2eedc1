package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"finanzas/internal/core"
)

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, color, icon, COALESCE(created_at, '')
		FROM categories
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// ListCategoryTotals is the total-spend variant: each category carries
// its lifetime summed expense amount, zero when none.
func (s *Store) ListCategoryTotals(ctx context.Context) ([]core.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.type, c.color, c.icon,
		       COALESCE(SUM(CASE WHEN t.type = 'expense' THEN t.amount ELSE 0 END), 0) AS total_amount
		FROM categories c
		LEFT JOIN transactions t ON c.id = t.category_id
		GROUP BY c.id, c.name, c.type, c.color, c.icon
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list category totals: %w", err)
	}
	defer rows.Close()

	totals := []core.CategoryTotal{}
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Type, &ct.Color, &ct.Icon, &ct.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return totals, nil
}

// SaveCategory inserts when no id is given, otherwise updates the
// matching row. A UNIQUE(name) rejection surfaces as a duplicate-name
// constraint error and leaves the table unchanged.
func (s *Store) SaveCategory(ctx context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if c.Color == "" {
		c.Color = "#007bff"
	}
	if c.Icon == "" {
		c.Icon = "fas fa-tag"
	}

	if c.ID > 0 {
		res, err := s.db.ExecContext(ctx, `
			UPDATE categories SET name = ?, type = ?, color = ?, icon = ?
			WHERE id = ?`,
			c.Name, c.Type, c.Color, c.Icon, c.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, core.NewError(core.KindConstraint, core.ErrDuplicateName)
			}
			return 0, fmt.Errorf("update category: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("update category rows affected: %w", err)
		}
		if affected == 0 {
			return 0, core.NewError(core.KindNotFound, core.ErrNotFound)
		}
		return c.ID, nil
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, type, color, icon)
		VALUES (?, ?, ?, ?)`,
		c.Name, c.Type, c.Color, c.Icon)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.NewError(core.KindConstraint, core.ErrDuplicateName)
		}
		return 0, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Category saved", "id", id, "name", c.Name, "type", c.Type)
	return id, nil
}

// DeleteCategory removes a category by id. Transactions referencing it
// keep their category_id; readers tolerate the dangling reference via
// the outer join.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category rows affected: %w", err)
	}
	if affected == 0 {
		return core.NewError(core.KindNotFound, core.ErrNotFound)
	}
	return nil
}

// categoryExists is the merge-import identity lookup: (name, type).
func categoryExists(ctx context.Context, tx *sql.Tx, name string, typ core.EntryType) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM categories WHERE name = ? AND type = ?`, name, typ).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check category identity: %w", err)
	}
	return true, nil
}
