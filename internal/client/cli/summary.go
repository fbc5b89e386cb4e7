package cli

import (
	"context"
	"flag"
	"fmt"
	"time"
)

func (c *Cli) runSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	start := fs.String("start", "", "Start date as YYYY-MM-DD")
	end := fs.String("end", "", "End date as YYYY-MM-DD (inclusive)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, date := range []string{*start, *end} {
		if date == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}
	}

	summary, err := c.client.Summary(ctx, *start, *end)
	if err != nil {
		return describeError(err)
	}

	c.io.Println("=== Summary ===")
	if summary.Period.StartDate != "" || summary.Period.EndDate != "" {
		c.io.Printf("Period: %s .. %s\n", orOpen(summary.Period.StartDate), orOpen(summary.Period.EndDate))
	}
	c.io.Println()
	c.io.Printf("Income:  %s\n", amountString(summary.Totals.Income))
	c.io.Printf("Expense: %s\n", amountString(summary.Totals.Expense))
	c.io.Printf("Balance: %s\n", amountString(summary.Totals.Balance))
	c.io.Printf("Spent:   %.1f%% of income\n", summary.Totals.Ratio)

	if len(summary.ExpensesByCategory) > 0 {
		c.io.Println()
		c.io.Println("Expenses by category:")
		for _, entry := range summary.ExpensesByCategory {
			c.io.Printf("  %-20s %10s  (%d)\n", categoryLabel(entry.Name), amountString(entry.Total), entry.Count)
		}
	}

	if len(summary.IncomeByCategory) > 0 {
		c.io.Println()
		c.io.Println("Income by category:")
		for _, entry := range summary.IncomeByCategory {
			c.io.Printf("  %-20s %10s  (%d)\n", categoryLabel(entry.Name), amountString(entry.Total), entry.Count)
		}
	}

	if len(summary.ByMonth) > 0 {
		c.io.Println()
		c.io.Println("By month:")
		for _, month := range summary.ByMonth {
			c.io.Printf("  %s  income %10s  expense %10s\n", month.Month, amountString(month.Income), amountString(month.Expense))
		}
	}

	return nil
}

func orOpen(date string) string {
	if date == "" {
		return "open"
	}
	return date
}

func categoryLabel(name string) string {
	if name == "" {
		return "(uncategorized)"
	}
	return name
}
