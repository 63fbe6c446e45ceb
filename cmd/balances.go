package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/dues"
	"github.com/etnz/dues/renderer"
)

// balancesCmd holds the flags for the 'balances' subcommand.
type balancesCmd struct {
	asOf string
	json bool
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display the outstanding balance of every unit" }
func (*balancesCmd) Usage() string {
	return `duesctl balances [-as-of <date>] [-json]

  Displays the balance of every unit of the roster, the payments that match no
  unit, and the totals. Balances are recomputed from the store on every run.

  The command fails when the store cannot be read: a report is never shown
  with zero balances in place of the missing data.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asOf, "as-of", "", "Date of the report (default today). See the user manual for supported date formats.")
	f.BoolVar(&c.json, "json", false, "print the report as JSON")
}

func (c *balancesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	defer log.Sync()

	p, err := policy(cfg, c.asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in billing policy: %v\n", err)
		return subcommands.ExitUsageError
	}

	src, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	report, err := dues.BuildReport(ctx, src, p)
	logOrphans(log, report)

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		printMarkdown(renderer.RenderBalances(renderer.NewBalances(report, cfg.Currency(), err)))
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// logOrphans warns about every payment that matches no unit.
func logOrphans(log *zap.Logger, r dues.Reconciliation) {
	for _, p := range r.Orphans {
		log.Warn("unmatched payment",
			zap.String("unit", p.Unit),
			zap.String("date", p.PaidAt.String()),
			zap.String("amount", p.Value().String()),
		)
	}
}
