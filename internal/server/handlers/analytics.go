package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/analytics"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/server/storage"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

// AnalyticsHandler computes summaries on demand, nothing is cached
type AnalyticsHandler struct {
	logger             *slog.Logger
	transactionStorage storage.TransactionStorage
	categoryStorage    storage.CategoryStorage
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(logger *slog.Logger, transactionStorage storage.TransactionStorage, categoryStorage storage.CategoryStorage) *AnalyticsHandler {
	return &AnalyticsHandler{
		logger:             logger,
		transactionStorage: transactionStorage,
		categoryStorage:    categoryStorage,
	}
}

// Summary handles GET /api/analytics/summary/
// Optional ?start_date= and ?end_date= (YYYY-MM-DD) bound the period;
// the end date is inclusive.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendDetail(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	var filter storage.TransactionFilter
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	if startDate != "" {
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			sendFieldErrors(h.logger, w, map[string][]string{
				"start_date": {"Date has wrong format. Use one of these formats instead: YYYY-MM-DD."},
			})
			return
		}
		filter.Start = start
	}
	if endDate != "" {
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			sendFieldErrors(h.logger, w, map[string][]string{
				"end_date": {"Date has wrong format. Use one of these formats instead: YYYY-MM-DD."},
			})
			return
		}
		// Push the bound to the end of the day so the date is inclusive
		filter.End = end.Add(24*time.Hour - time.Nanosecond)
	}

	transactions, err := h.transactionStorage.ListTransactions(ctx, userID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list transactions", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	names := h.categoryNames(ctx, userID)

	totals := analytics.ComputeTotals(transactions)

	summary := api.AnalyticsSummary{
		Period: api.Period{
			StartDate: startDate,
			EndDate:   endDate,
		},
		Totals: api.SummaryTotals{
			Income:  totals.Income,
			Expense: totals.Expense,
			Balance: totals.Balance,
			Ratio:   analytics.Ratio(totals.Income, totals.Expense),
		},
		ExpensesByCategory: toAPICategoryTotals(analytics.ByCategory(transactions, models.TypeExpense), names),
		IncomeByCategory:   toAPICategoryTotals(analytics.ByCategory(transactions, models.TypeIncome), names),
		ByMonth:            toAPIMonthTotals(analytics.ByMonth(transactions)),
	}

	sendJSON(h.logger, w, summary, http.StatusOK)
}

// categoryNames maps category ids to display names for the rollups.
// A lookup failure only drops the names, not the summary.
func (h *AnalyticsHandler) categoryNames(ctx context.Context, userID string) map[string]string {
	categories, err := h.categoryStorage.ListCategories(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to list categories for summary", slog.Any("error", err))
		return nil
	}

	names := make(map[string]string, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
	}
	return names
}

func toAPICategoryTotals(totals []analytics.CategoryTotal, names map[string]string) []api.CategoryTotal {
	result := make([]api.CategoryTotal, 0, len(totals))
	for _, t := range totals {
		result = append(result, api.CategoryTotal{
			CategoryID: t.CategoryID,
			Name:       names[t.CategoryID],
			Total:      t.Total,
			Count:      t.Count,
		})
	}
	return result
}

func toAPIMonthTotals(totals []analytics.MonthTotal) []api.MonthTotal {
	result := make([]api.MonthTotal, 0, len(totals))
	for _, t := range totals {
		result = append(result, api.MonthTotal{
			Month:   t.Month,
			Income:  t.Income,
			Expense: t.Expense,
		})
	}
	return result
}
