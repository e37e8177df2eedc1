package storage

import (
	"context"
	"testing"
	"time"

	"finanzas/internal/core"
)

func TestDashboardStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	catID, _ := store.SaveCategory(ctx, core.Category{Name: "Comida fuera", Type: core.Expense})

	// Current month.
	mustSaveTransaction(t, store, core.Transaction{
		Description: "Salario", Amount: 2000, Type: core.Income, Date: core.NewDate(2025, 6, 1),
	})
	mustSaveTransaction(t, store, core.Transaction{
		Description: "Tacos", Amount: 150, Type: core.Expense,
		CategoryID: &catID, Date: core.NewDate(2025, 6, 10),
	})
	// Previous month: excluded from month stats, included in balance.
	mustSaveTransaction(t, store, core.Transaction{
		Description: "Bono", Amount: 500, Type: core.Income, Date: core.NewDate(2025, 5, 20),
	})
	// Future within the month: excluded because the window ends today.
	mustSaveTransaction(t, store, core.Transaction{
		Description: "Programado", Amount: 99, Type: core.Expense, Date: core.NewDate(2025, 6, 28),
	})

	stats, err := store.DashboardStats(ctx, now)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if stats.TotalIncome != 2000 {
		t.Fatalf("month income: got %v", stats.TotalIncome)
	}
	if stats.TotalExpense != 150 {
		t.Fatalf("month expense: got %v", stats.TotalExpense)
	}
	if stats.TotalTransactions != 2 {
		t.Fatalf("month count: got %d", stats.TotalTransactions)
	}
	// Balance spans all time: 2000 + 500 - 150 - 99.
	if stats.TotalBalance != 2251 {
		t.Fatalf("balance: got %v, want 2251", stats.TotalBalance)
	}

	if len(stats.ExpenseByCategory) != 1 {
		t.Fatalf("expense by category: got %d entries", len(stats.ExpenseByCategory))
	}
	if stats.ExpenseByCategory[0].CategoryName != "Comida fuera" || stats.ExpenseByCategory[0].Total != 150 {
		t.Fatalf("category spend: %+v", stats.ExpenseByCategory[0])
	}
}

func TestDashboardBalanceIdentity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)

	amounts := []struct {
		amount float64
		typ    core.EntryType
	}{
		{100.25, core.Income},
		{50.75, core.Expense},
		{1234.50, core.Income},
		{0, core.Expense}, // zero amounts are allowed
	}
	var wantBalance float64
	for i, a := range amounts {
		mustSaveTransaction(t, store, core.Transaction{
			Description: "mov", Amount: a.amount, Type: a.typ,
			Date: core.NewDate(2024, 1, 1+i),
		})
		if a.typ == core.Income {
			wantBalance += a.amount
		} else {
			wantBalance -= a.amount
		}
	}

	stats, err := store.DashboardStats(ctx, now)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalBalance != wantBalance {
		t.Fatalf("balance: got %v, want %v", stats.TotalBalance, wantBalance)
	}
}

func TestDashboardCashflowSeries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.Local)

	// One movement three days ago, one today, one outside the window.
	mustSaveTransaction(t, store, core.Transaction{
		Description: "Dentro", Amount: 40, Type: core.Expense, Date: core.NewDate(2025, 6, 12),
	})
	mustSaveTransaction(t, store, core.Transaction{
		Description: "Hoy", Amount: 300, Type: core.Income, Date: core.NewDate(2025, 6, 15),
	})
	mustSaveTransaction(t, store, core.Transaction{
		Description: "Fuera", Amount: 999, Type: core.Expense, Date: core.NewDate(2025, 6, 8),
	})

	stats, err := store.DashboardStats(ctx, now)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	series := stats.CashflowData
	if len(series) != 7 {
		t.Fatalf("expected 7 points, got %d", len(series))
	}
	if series[0].Date != "06/09" {
		t.Fatalf("first point: got %s, want 06/09", series[0].Date)
	}
	if series[6].Date != "06/15" {
		t.Fatalf("last point: got %s, want 06/15", series[6].Date)
	}
	if series[6].Income != 300 {
		t.Fatalf("today income: got %v", series[6].Income)
	}
	if series[3].Expense != 40 {
		t.Fatalf("06/12 expense: got %v", series[3].Expense)
	}
	// Days without movements stay as zero points.
	if series[1].Income != 0 || series[1].Expense != 0 {
		t.Fatalf("empty day not zero: %+v", series[1])
	}
}

func TestDashboardRecentTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)

	for day := 1; day <= 7; day++ {
		mustSaveTransaction(t, store, core.Transaction{
			Description: "mov", Amount: float64(day), Type: core.Expense,
			Date: core.NewDate(2025, 6, day),
		})
	}

	stats, err := store.DashboardStats(ctx, now)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(stats.RecentTransactions) != 5 {
		t.Fatalf("expected 5 recent transactions, got %d", len(stats.RecentTransactions))
	}
	if stats.RecentTransactions[0].Amount != 7 {
		t.Fatalf("expected newest first, got %+v", stats.RecentTransactions[0])
	}
}

func TestReport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustSaveTransaction(t, store, core.Transaction{
		Description: "Salario", Amount: 1000, Type: core.Income, Date: core.NewDate(2025, 4, 5),
	})
	mustSaveTransaction(t, store, core.Transaction{
		Description: "Renta", Amount: 600, Type: core.Expense, Date: core.NewDate(2025, 5, 1),
	})
	mustSaveTransaction(t, store, core.Transaction{
		Description: "Enero", Amount: 50, Type: core.Expense, Date: core.NewDate(2025, 1, 10),
	})

	now := time.Date(2025, 5, 20, 0, 0, 0, 0, time.Local)

	cases := []struct {
		period      core.Period
		wantStart   string
		wantIncome  float64
		wantExpense float64
	}{
		{core.PeriodMonth, "2025-05-01", 0, 600},
		{core.PeriodQuarter, "2025-04-01", 1000, 600},
		{core.PeriodYear, "2025-01-01", 1000, 650},
	}
	for _, tc := range cases {
		report, err := store.Report(ctx, tc.period, now)
		if err != nil {
			t.Fatalf("report %s: %v", tc.period, err)
		}
		if report.StartDate != tc.wantStart {
			t.Fatalf("%s start: got %s, want %s", tc.period, report.StartDate, tc.wantStart)
		}
		if report.EndDate != "2025-05-20" {
			t.Fatalf("%s end: got %s", tc.period, report.EndDate)
		}
		if report.TotalIncome != tc.wantIncome || report.TotalExpense != tc.wantExpense {
			t.Fatalf("%s sums: got %v/%v, want %v/%v",
				tc.period, report.TotalIncome, report.TotalExpense, tc.wantIncome, tc.wantExpense)
		}
		if report.Balance != tc.wantIncome-tc.wantExpense {
			t.Fatalf("%s balance: got %v", tc.period, report.Balance)
		}
	}
}

func TestReportOnFirstOfMonth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustSaveTransaction(t, store, core.Transaction{
		Description: "Hoy mismo", Amount: 75, Type: core.Expense, Date: core.NewDate(2025, 6, 1),
	})

	// On the 1st the month window is the single day [today, today].
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	report, err := store.Report(ctx, core.PeriodMonth, now)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.StartDate != "2025-06-01" || report.EndDate != "2025-06-01" {
		t.Fatalf("window: %s..%s", report.StartDate, report.EndDate)
	}
	if report.TotalExpense != 75 {
		t.Fatalf("expense: got %v", report.TotalExpense)
	}
}
