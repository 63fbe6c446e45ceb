package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/dues"
)

// expenseCmd holds the flags for the 'expense' subcommand.
type expenseCmd struct {
	date        string
	month       string
	head        string
	description string
	amount      string
	mode        string
}

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record an expense paid by the society" }
func (*expenseCmd) Usage() string {
	return `duesctl expense -head <head> -amount <amount> [-date <date>] [-month <label>] [-desc <text>] [-mode <mode>]

  Appends an expense to the store. Expenses never enter a unit balance.
`
}

func (c *expenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.head, "head", "", "expense head, for instance Electricity")
	f.StringVar(&c.amount, "amount", "", "amount paid")
	f.StringVar(&c.date, "date", "", "date of the expense (default today)")
	f.StringVar(&c.month, "month", "", "month label (default the month of the date)")
	f.StringVar(&c.description, "desc", "", "description or vendor")
	f.StringVar(&c.mode, "mode", "", "payment mode")
}

func (c *expenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var on dues.Date
	if c.date != "" {
		var err error
		if on, err = dues.ParseDate(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	cfg, log, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	defer log.Sync()

	if status := requireAdmin(cfg.LocalSession()); status != subcommands.ExitSuccess {
		return status
	}

	src, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	store, ok := src.(dues.ExpenseAppender)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: the %s store is read-only\n", cfg.Store.Kind)
		return subcommands.ExitFailure
	}

	rec, err := dues.RecordExpense(ctx, store, dues.ExpenseRecord{
		PaidAt:      on,
		Month:       c.month,
		Head:        c.head,
		Description: c.description,
		Amount:      c.amount,
		Mode:        c.mode,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording expense: %v\n", err)
		if errors.Is(err, dues.ErrStoreUnavailable) {
			return subcommands.ExitFailure
		}
		return subcommands.ExitUsageError
	}
	log.Debug("expense recorded", zap.String("id", rec.ID), zap.String("head", rec.Head))
	fmt.Printf("Recorded expense of %s for %s on %s\n", dues.M(rec.Value(), cfg.Currency()), rec.Head, rec.PaidAt)
	return subcommands.ExitSuccess
}
