package api

// Period describes the date range a summary was computed for
type Period struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD, empty means unbounded
	EndDate   string `json:"end_date"`
}

// SummaryTotals holds the derived totals for a period
type SummaryTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
	Ratio   float64 `json:"ratio"` // expense/income in percent, clamped to [0,100]
}

// CategoryTotal is the per-category rollup for one kind of transaction
type CategoryTotal struct {
	CategoryID string  `json:"category_id"` // empty for uncategorized
	Name       string  `json:"name,omitempty"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
}

// MonthTotal is the per-calendar-month rollup
type MonthTotal struct {
	Month   string  `json:"month"` // YYYY-MM
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// AnalyticsSummary is computed on demand from the transaction set.
// It is never persisted.
type AnalyticsSummary struct {
	Period             Period          `json:"period"`
	Totals             SummaryTotals   `json:"totals"`
	ExpensesByCategory []CategoryTotal `json:"expenses_by_category"`
	IncomeByCategory   []CategoryTotal `json:"income_by_category"`
	ByMonth            []MonthTotal    `json:"by_month"`
}
