package storage

import (
	"context"
	"fmt"
	"time"

	"finanzas/internal/core"
)

// DashboardStats computes the current-month aggregates (1st of the
// month through now, local time), the all-time balance, the
// current-month per-category expense totals and the trailing 7-day
// cash-flow series.
func (s *Store) DashboardStats(ctx context.Context, now time.Time) (core.DashboardStats, error) {
	var stats core.DashboardStats

	monthStart := core.NewDate(now.Year(), int(now.Month()), 1).String()
	today := core.DateOf(now).String()

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0),
			COUNT(*)
		FROM transactions
		WHERE date >= ? AND date <= ?`,
		monthStart, today).Scan(&stats.TotalIncome, &stats.TotalExpense, &stats.TotalTransactions)
	if err != nil {
		return stats, fmt.Errorf("month stats: %w", err)
	}

	var allTimeIncome, allTimeExpense float64
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
		FROM transactions`).Scan(&allTimeIncome, &allTimeExpense)
	if err != nil {
		return stats, fmt.Errorf("all-time stats: %w", err)
	}
	stats.TotalBalance = allTimeIncome - allTimeExpense

	byCategory, err := s.expenseByCategory(ctx, monthStart, today)
	if err != nil {
		return stats, err
	}
	stats.ExpenseByCategory = byCategory

	cashflow, err := s.cashflowSeries(ctx, now)
	if err != nil {
		return stats, err
	}
	stats.CashflowData = cashflow

	recent, err := s.recentTransactions(ctx, 5)
	if err != nil {
		return stats, err
	}
	stats.RecentTransactions = recent

	return stats, nil
}

// expenseByCategory sums current-month expenses per category, keeping
// only nonzero totals, largest first.
func (s *Store) expenseByCategory(ctx context.Context, start, end string) ([]core.CategorySpend, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, COALESCE(SUM(t.amount), 0) AS total
		FROM categories c
		LEFT JOIN transactions t ON c.id = t.category_id
			AND t.type = 'expense'
			AND t.date >= ? AND t.date <= ?
		GROUP BY c.id, c.name
		HAVING total > 0
		ORDER BY total DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("expense by category: %w", err)
	}
	defer rows.Close()

	spends := []core.CategorySpend{}
	for rows.Next() {
		var cs core.CategorySpend
		if err := rows.Scan(&cs.CategoryName, &cs.Total); err != nil {
			return nil, fmt.Errorf("scan category spend: %w", err)
		}
		spends = append(spends, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category spends: %w", err)
	}
	return spends, nil
}

// cashflowSeries builds the 7-point daily series ending today, oldest
// first. Days without transactions contribute zero points.
func (s *Store) cashflowSeries(ctx context.Context, now time.Time) ([]core.CashflowPoint, error) {
	days := core.CashflowDays(now)
	start := days[0].String()
	end := days[len(days)-1].String()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date,
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE date >= ? AND date <= ?
		GROUP BY date`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("cashflow series: %w", err)
	}
	defer rows.Close()

	type daySums struct{ income, expense float64 }
	sums := map[string]daySums{}
	for rows.Next() {
		var (
			date string
			d    daySums
		)
		if err := rows.Scan(&date, &d.income, &d.expense); err != nil {
			return nil, fmt.Errorf("scan cashflow day: %w", err)
		}
		sums[date] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cashflow days: %w", err)
	}

	series := make([]core.CashflowPoint, 0, len(days))
	for _, day := range days {
		d := sums[day.String()]
		series = append(series, core.CashflowPoint{
			Date:    day.Format("01/02"),
			Income:  d.income,
			Expense: d.expense,
		})
	}
	return series, nil
}

// Report sums income and expenses over [start of period, now].
func (s *Store) Report(ctx context.Context, period core.Period, now time.Time) (core.Report, error) {
	start := period.Start(now).String()
	end := core.DateOf(now).String()

	report := core.Report{
		Period:    period,
		StartDate: start,
		EndDate:   end,
	}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE date >= ? AND date <= ?`,
		start, end).Scan(&report.TotalIncome, &report.TotalExpense)
	if err != nil {
		return report, fmt.Errorf("report %s: %w", period, err)
	}
	report.Balance = report.TotalIncome - report.TotalExpense
	return report, nil
}
