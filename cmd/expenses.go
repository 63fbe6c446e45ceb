package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/dues"
	"github.com/etnz/dues/renderer"
)

// expensesCmd holds the flags for the 'expenses' subcommand.
type expensesCmd struct {
	from string
	to   string
}

func (*expensesCmd) Name() string     { return "expenses" }
func (*expensesCmd) Synopsis() string { return "summarize the expenses by head" }
func (*expensesCmd) Usage() string {
	return `duesctl expenses [-from <date>] [-to <date>]

  Sums the expenses paid in the period by expense head.
`
}

func (c *expensesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "first day of the period (default unbounded)")
	f.StringVar(&c.to, "to", "", "last day of the period (default unbounded)")
}

func (c *expensesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var from, to dues.Date
	var err error
	if c.from != "" {
		if from, err = dues.ParseDate(c.from); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -from: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.to != "" {
		if to, err = dues.ParseDate(c.to); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -to: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	cfg, log, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	defer log.Sync()

	src, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	es, ok := src.(dues.ExpenseSource)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: the %s store has no expenses\n", cfg.Store.Kind)
		return subcommands.ExitFailure
	}
	expenses, err := es.Expenses(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading expenses: %v\n", dues.Unavailable("read expenses", err))
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderExpenses(renderer.NewExpenses(dues.SummarizeExpenses(expenses, from, to), cfg.Currency())))
	return subcommands.ExitSuccess
}
