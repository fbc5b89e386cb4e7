package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/validation"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

// transactionFlags parses the shared add/update flag set
func transactionFlags(name string, args []string) (api.TransactionRequest, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	text := fs.String("text", "", "Description of the transaction")
	amount := fs.Float64("amount", 0, "Amount (non-negative)")
	txType := fs.String("type", "", "Transaction type: income or expense")
	category := fs.String("category", "", "Category id (optional)")
	date := fs.String("date", "", "Date as YYYY-MM-DD (default: today)")

	if err := fs.Parse(args); err != nil {
		return api.TransactionRequest{}, nil, err
	}

	// Reject locally what the server would reject anyway
	if fields := validation.ValidateTransaction(*text, *amount, *txType); fields != nil {
		return api.TransactionRequest{}, nil, fieldErrorsMessage(fields)
	}

	req := api.TransactionRequest{
		Text:   *text,
		Amount: *amount,
		Type:   *txType,
	}
	if *category != "" {
		req.CategoryID = category
	}
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return api.TransactionRequest{}, nil, fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
		}
		req.Date = &parsed
	}

	return req, fs.Args(), nil
}

func fieldErrorsMessage(fields map[string][]string) error {
	err := &api.Error{Kind: api.ErrorKindField, Fields: fields}
	return errors.New(err.Error())
}

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	req, rest, err := transactionFlags("add", args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	tx, err := c.client.CreateTransaction(ctx, req)
	if err != nil {
		return describeError(err)
	}

	c.io.Printf("Recorded %s of %s (id %s)\n", tx.Type, amountString(tx.Amount), tx.ID)
	return nil
}

func (c *Cli) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	category := fs.String("category", "", "Only transactions in this category id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	transactions, err := c.client.ListTransactions(ctx, *category)
	if err != nil {
		return describeError(err)
	}

	if len(transactions) == 0 {
		c.io.Println("No transactions found.")
		return nil
	}

	c.io.Printf("Found %d transaction(s):\n\n", len(transactions))
	for _, tx := range transactions {
		c.printTransaction(tx, false)
	}

	return nil
}

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: fintrack get <id>")
	}

	tx, err := c.client.GetTransaction(ctx, args[0])
	if err != nil {
		return describeError(err)
	}

	c.printTransaction(*tx, true)
	return nil
}

func (c *Cli) runUpdate(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: fintrack update <id> [flags]")
	}

	req, rest, err := transactionFlags("update", args[1:])
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	tx, err := c.client.UpdateTransaction(ctx, args[0], req)
	if err != nil {
		return describeError(err)
	}

	c.io.Printf("Updated transaction %s\n", tx.ID)
	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: fintrack delete <id>")
	}

	if err := c.client.DeleteTransaction(ctx, args[0]); err != nil {
		return describeError(err)
	}

	c.io.Println("Deleted.")
	return nil
}

func (c *Cli) printTransaction(tx api.Transaction, full bool) {
	sign := "-"
	if tx.Type == "income" {
		sign = "+"
	}

	c.io.Printf("%s  %s%s  %s\n", tx.Date.Format("2006-01-02"), sign, amountString(tx.Amount), tx.Text)
	if full {
		c.io.Printf("  ID:       %s\n", tx.ID)
		c.io.Printf("  Type:     %s\n", tx.Type)
		if tx.CategoryID != nil {
			c.io.Printf("  Category: %s\n", *tx.CategoryID)
		}
		c.io.Printf("  Created:  %s\n", tx.CreatedAt.Format(time.RFC3339))
	} else {
		c.io.Printf("  id %s\n", tx.ID)
	}
}
