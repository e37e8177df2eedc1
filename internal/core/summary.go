package core

// DashboardStats carries the current-month and all-time aggregates plus
// the recent-trend series shown on the dashboard.
type DashboardStats struct {
	TotalIncome       float64 `json:"total_income"`
	TotalExpense      float64 `json:"total_expense"`
	TotalTransactions int     `json:"total_transactions"`
	TotalBalance      float64 `json:"total_balance"`

	ExpenseByCategory  []CategorySpend `json:"expense_by_category"`
	CashflowData       []CashflowPoint `json:"cashflow_data"`
	RecentTransactions []Transaction   `json:"recent_transactions"`
}

// CategorySpend is one current-month expense total per category.
type CategorySpend struct {
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
}

// CashflowPoint is one day of the trailing 7-day series. The label uses
// the short MM/DD form the frontend charts expect.
type CashflowPoint struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Report summarizes income and expenses over a period ending today.
type Report struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
	Period       Period  `json:"period"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
}

// Snapshot is the full-store export/import document.
type Snapshot struct {
	ExportDate        string             `json:"export_date,omitempty"`
	Version           string             `json:"version,omitempty"`
	Categories        []Category         `json:"categories"`
	Transactions      []Transaction      `json:"transactions"`
	ScheduledExpenses []ScheduledExpense `json:"scheduled_expenses"`
}

const (
	ImportReplace ImportMode = "replace"
	ImportMerge   ImportMode = "merge"
)

// ImportMode selects full overwrite vs additive de-duplicated insert.
type ImportMode string

func (m ImportMode) Valid() bool {
	return m == ImportReplace || m == ImportMerge
}

// ImportStats counts the records written by an import. In merge mode
// only newly inserted records count.
type ImportStats struct {
	Categories        int `json:"categories"`
	Transactions      int `json:"transactions"`
	ScheduledExpenses int `json:"scheduled_expenses"`
}

// BackupInfo reports where a backup landed and what it contains.
type BackupInfo struct {
	Filename     string `json:"filename"`
	Categories   int    `json:"categories"`
	Transactions int    `json:"transactions"`
}
