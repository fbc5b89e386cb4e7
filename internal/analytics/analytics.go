// Package analytics computes derived figures from transaction records.
// All functions are pure: same input, same output, no I/O.
package analytics

import (
	"math"
	"sort"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
)

// Totals holds the basic derived figures for a set of records
type Totals struct {
	Income  float64
	Expense float64
	Balance float64 // Income - Expense
}

// CategoryTotal is the rollup for one category
type CategoryTotal struct {
	CategoryID string // empty for uncategorized records
	Total      float64
	Count      int
}

// MonthTotal is the rollup for one calendar month
type MonthTotal struct {
	Month   string // YYYY-MM
	Income  float64
	Expense float64
}

// resolve returns the effective type and magnitude of a record.
// Legacy records carry no explicit type and a signed amount; for those
// the sign decides the type and the magnitude is the absolute value.
func resolve(t models.Transaction) (models.TransactionType, float64) {
	if t.Type.Valid() {
		return t.Type, t.Amount
	}
	if t.Amount < 0 {
		return models.TypeExpense, -t.Amount
	}
	return models.TypeIncome, t.Amount
}

// ComputeTotals sums income and expense over records and derives the balance
func ComputeTotals(records []models.Transaction) Totals {
	var totals Totals
	for _, r := range records {
		kind, amount := resolve(r)
		if kind == models.TypeIncome {
			totals.Income += amount
		} else {
			totals.Expense += amount
		}
	}
	totals.Balance = totals.Income - totals.Expense
	return totals
}

// Ratio returns expense as a percentage of income, clamped to [0,100].
// Zero income yields 0 to avoid division by zero.
func Ratio(income, expense float64) float64 {
	if income == 0 {
		return 0
	}
	ratio := expense / income * 100
	return math.Min(math.Max(ratio, 0), 100)
}

// ByCategory groups records of the given kind by category and sums
// amounts and counts. The result is ordered by descending total, ties
// broken by category id ascending so the output is deterministic.
func ByCategory(records []models.Transaction, kind models.TransactionType) []CategoryTotal {
	byID := make(map[string]*CategoryTotal)
	for _, r := range records {
		recordKind, amount := resolve(r)
		if recordKind != kind {
			continue
		}

		id := ""
		if r.CategoryID != nil {
			id = *r.CategoryID
		}

		entry, ok := byID[id]
		if !ok {
			entry = &CategoryTotal{CategoryID: id}
			byID[id] = entry
		}
		entry.Total += amount
		entry.Count++
	}

	result := make([]CategoryTotal, 0, len(byID))
	for _, entry := range byID {
		result = append(result, *entry)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].CategoryID < result[j].CategoryID
	})

	return result
}

// ByMonth groups records by the calendar month of their date and sums
// income and expense separately. Months without activity are omitted;
// the result is ordered by month ascending.
func ByMonth(records []models.Transaction) []MonthTotal {
	byMonth := make(map[string]*MonthTotal)
	for _, r := range records {
		month := r.Date.Format("2006-01")
		entry, ok := byMonth[month]
		if !ok {
			entry = &MonthTotal{Month: month}
			byMonth[month] = entry
		}

		kind, amount := resolve(r)
		if kind == models.TypeIncome {
			entry.Income += amount
		} else {
			entry.Expense += amount
		}
	}

	result := make([]MonthTotal, 0, len(byMonth))
	for _, entry := range byMonth {
		result = append(result, *entry)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Month < result[j].Month
	})

	return result
}
