package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
)

const epsilon = 1e-9

func strPtr(s string) *string { return &s }

func tx(text string, amount float64, kind models.TransactionType, categoryID *string, date time.Time) models.Transaction {
	return models.Transaction{
		Text:       text,
		Amount:     amount,
		Type:       kind,
		CategoryID: categoryID,
		Date:       date,
	}
}

func TestComputeTotals(t *testing.T) {
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []models.Transaction{
		tx("Salary", 1000, models.TypeIncome, nil, date),
		tx("Rent", 400, models.TypeExpense, nil, date),
		tx("Groceries", 150.25, models.TypeExpense, nil, date),
	}

	totals := ComputeTotals(records)

	assert.InDelta(t, 1000, totals.Income, epsilon)
	assert.InDelta(t, 550.25, totals.Expense, epsilon)
	assert.InDelta(t, totals.Income-totals.Expense, totals.Balance, epsilon)
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.Zero(t, totals.Income)
	assert.Zero(t, totals.Expense)
	assert.Zero(t, totals.Balance)
}

func TestComputeTotals_LegacyInference(t *testing.T) {
	// Records without an explicit type carry meaning in the sign
	date := time.Now()
	records := []models.Transaction{
		tx("old income", 50, "", nil, date),
		tx("old expense", -50, "", nil, date),
	}

	totals := ComputeTotals(records)

	assert.InDelta(t, 50, totals.Income, epsilon)
	assert.InDelta(t, 50, totals.Expense, epsilon)
	assert.InDelta(t, 0, totals.Balance, epsilon)
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name    string
		income  float64
		expense float64
		want    float64
	}{
		{name: "zero income yields zero", income: 0, expense: 500, want: 0},
		{name: "clamped at 100", income: 100, expense: 150, want: 100},
		{name: "quarter", income: 200, expense: 50, want: 25},
		{name: "exact 100", income: 80, expense: 80, want: 100},
		{name: "no expense", income: 300, expense: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.income, tt.expense), epsilon)
		})
	}
}

func TestByCategory_OrderingAndTies(t *testing.T) {
	date := time.Now()
	records := []models.Transaction{
		tx("b1", 30, models.TypeExpense, strPtr("B"), date),
		tx("c1", 10, models.TypeExpense, strPtr("C"), date),
		tx("a1", 20, models.TypeExpense, strPtr("A"), date),
		tx("a2", 10, models.TypeExpense, strPtr("A"), date),
		tx("salary", 1000, models.TypeIncome, strPtr("S"), date),
	}

	result := ByCategory(records, models.TypeExpense)

	// A and B both total 30; the tie resolves by category id ascending
	require.Len(t, result, 3)
	assert.Equal(t, "A", result[0].CategoryID)
	assert.Equal(t, 2, result[0].Count)
	assert.Equal(t, "B", result[1].CategoryID)
	assert.Equal(t, "C", result[2].CategoryID)
}

func TestByCategory_Uncategorized(t *testing.T) {
	date := time.Now()
	records := []models.Transaction{
		tx("cash", 15, models.TypeExpense, nil, date),
		tx("card", 5, models.TypeExpense, nil, date),
	}

	result := ByCategory(records, models.TypeExpense)

	require.Len(t, result, 1)
	assert.Equal(t, "", result[0].CategoryID)
	assert.InDelta(t, 20, result[0].Total, epsilon)
	assert.Equal(t, 2, result[0].Count)
}

func TestByCategory_FiltersKind(t *testing.T) {
	date := time.Now()
	records := []models.Transaction{
		tx("salary", 1000, models.TypeIncome, strPtr("S"), date),
	}

	assert.Empty(t, ByCategory(records, models.TypeExpense))
	assert.Len(t, ByCategory(records, models.TypeIncome), 1)
}

func TestByMonth(t *testing.T) {
	records := []models.Transaction{
		tx("salary jan", 1000, models.TypeIncome, nil, time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)),
		tx("rent jan", 400, models.TypeExpense, nil, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		tx("salary mar", 1000, models.TypeIncome, nil, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)),
	}

	result := ByMonth(records)

	// February has no activity and is omitted
	require.Len(t, result, 2)
	assert.Equal(t, "2025-01", result[0].Month)
	assert.InDelta(t, 1000, result[0].Income, epsilon)
	assert.InDelta(t, 400, result[0].Expense, epsilon)
	assert.Equal(t, "2025-03", result[1].Month)
	assert.InDelta(t, 1000, result[1].Income, epsilon)
	assert.Zero(t, result[1].Expense)
}

func TestEndToEndScenarioTotals(t *testing.T) {
	date := time.Now()
	records := []models.Transaction{
		tx("Salary", 1000, models.TypeIncome, nil, date),
		tx("Rent", 400, models.TypeExpense, nil, date),
	}

	totals := ComputeTotals(records)

	assert.InDelta(t, 1000, totals.Income, epsilon)
	assert.InDelta(t, 400, totals.Expense, epsilon)
	assert.InDelta(t, 600, totals.Balance, epsilon)
	assert.InDelta(t, 40, Ratio(totals.Income, totals.Expense), epsilon)
}
