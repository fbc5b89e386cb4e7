// Package janitor runs periodic database housekeeping: expired refresh
// tokens and transactions left behind by manual database edits.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/server/storage"
)

// sweepTimeout bounds a single housekeeping run
const sweepTimeout = time.Minute

// Janitor schedules the cleanup sweeps
type Janitor struct {
	logger       *slog.Logger
	tokens       storage.TokenStorage
	transactions storage.TransactionStorage
	cron         *cron.Cron
}

// New creates a janitor; Start must be called to begin sweeping
func New(logger *slog.Logger, tokens storage.TokenStorage, transactions storage.TransactionStorage) *Janitor {
	return &Janitor{
		logger:       logger,
		tokens:       tokens,
		transactions: transactions,
		cron:         cron.New(),
	}
}

// Start registers the sweep on the given cron schedule (e.g. "@hourly")
// and runs one sweep immediately so a long-stopped server catches up.
func (j *Janitor) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return err
	}

	j.cron.Start()
	go j.sweep()

	j.logger.Info("janitor started", "schedule", schedule)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.logger.Info("janitor stopped")
}

func (j *Janitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	j.Sweep(ctx)
}

// Sweep runs one housekeeping pass. Failures are logged, not fatal;
// the next scheduled run will retry.
func (j *Janitor) Sweep(ctx context.Context) {
	expired, err := j.tokens.DeleteExpiredTokens(ctx)
	if err != nil {
		j.logger.Error("failed to delete expired tokens", "error", err)
	}

	orphans, err := j.transactions.DeleteOrphanTransactions(ctx)
	if err != nil {
		j.logger.Error("failed to delete orphan transactions", "error", err)
	}

	if expired > 0 || orphans > 0 {
		j.logger.Info("cleanup sweep finished",
			"expired_tokens", expired,
			"orphan_transactions", orphans)
	}
}
