package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/dues"
	"github.com/etnz/dues/adapter"
	"github.com/etnz/dues/internal/ids"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	owners      string
	collections string
	expenses    string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import the CSV exports of the society spreadsheet" }
func (*importCmd) Usage() string {
	return `duesctl import [-owners <csv>] [-collections <csv>] [-expenses <csv>]

  Copies the CSV exports into the configured store (journal or postgres).
  The owners file replaces the roster. Collections and expenses are appended
  as they are, amounts included: a cell that reads as zero stays zero.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owners, "owners", "", "CSV export of the owners sheet")
	f.StringVar(&c.collections, "collections", "", "CSV export of the collections sheet")
	f.StringVar(&c.expenses, "expenses", "", "CSV export of the expenses sheet")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.owners == "" && c.collections == "" && c.expenses == "" {
		fmt.Fprintln(os.Stderr, "Error: nothing to import, use -owners, -collections or -expenses")
		return subcommands.ExitUsageError
	}

	cfg, log, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	defer log.Sync()

	if status := requireAdmin(cfg.LocalSession()); status != subcommands.ExitSuccess {
		return status
	}

	owners := adapter.Owners.Override(cfg.Store.CSV.Columns)
	collections := adapter.Collections.Override(cfg.Store.CSV.Columns)
	expenses := adapter.Expenses.Override(cfg.Store.CSV.Columns)
	in := adapter.CSVSource{
		OwnersPath:        c.owners,
		CollectionsPath:   c.collections,
		ExpensesPath:      c.expenses,
		OwnersSchema:      &owners,
		CollectionsSchema: &collections,
		ExpensesSchema:    &expenses,
	}

	src, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	store, ok := src.(interface {
		dues.Store
		dues.RosterImporter
	})
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: cannot import into the %s store\n", cfg.Store.Kind)
		return subcommands.ExitFailure
	}

	if c.owners != "" {
		units, err := in.Roster(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading owners: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := store.ImportRoster(ctx, units); err != nil {
			fmt.Fprintf(os.Stderr, "Error importing roster: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Imported %d units\n", len(units))
	}

	if c.collections != "" {
		payments, err := in.Payments(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading collections: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, p := range payments {
			if p.ID == "" {
				p.ID = ids.New()
			}
			if !p.Value().IsPositive() {
				log.Warn("imported payment without a positive amount", zap.String("unit", p.Unit), zap.Any("amount", p.Amount))
			}
			if err := store.AppendPayment(ctx, p); err != nil {
				fmt.Fprintf(os.Stderr, "Error importing payment: %v\n", dues.Unavailable("append payment", err))
				return subcommands.ExitFailure
			}
		}
		fmt.Printf("Imported %d payments\n", len(payments))
	}

	if c.expenses != "" {
		list, err := in.Expenses(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading expenses: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, e := range list {
			if e.ID == "" {
				e.ID = ids.New()
			}
			if err := store.AppendExpense(ctx, e); err != nil {
				fmt.Fprintf(os.Stderr, "Error importing expense: %v\n", dues.Unavailable("append expense", err))
				return subcommands.ExitFailure
			}
		}
		fmt.Printf("Imported %d expenses\n", len(list))
	}
	return subcommands.ExitSuccess
}
