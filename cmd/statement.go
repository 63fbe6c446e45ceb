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

// statementCmd holds the flags for the 'statement' subcommand.
type statementCmd struct {
	asOf string
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "display the balance and the payments of one unit" }
func (*statementCmd) Usage() string {
	return `duesctl statement [-as-of <date>] <unit>

  Displays the balance of a single unit and every payment matched to it.
  The unit is matched like payments are: "a101", "A 101" and "A-101" are the
  same unit.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asOf, "as-of", "", "Date of the statement (default today)")
}

func (c *statementCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: statement requires exactly one unit")
		return subcommands.ExitUsageError
	}
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

	snap, err := dues.Snapshot(ctx, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading store: %v\n", err)
		return subcommands.ExitFailure
	}
	units, err := snap.Roster(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading roster: %v\n", dues.Unavailable("read roster", err))
		return subcommands.ExitFailure
	}
	unit, found := dues.FindUnit(units, f.Arg(0))
	if !found {
		fmt.Fprintf(os.Stderr, "Error: unit %q is not in the roster\n", f.Arg(0))
		return subcommands.ExitFailure
	}
	payments, err := snap.Payments(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading payments: %v\n", dues.Unavailable("read payments", err))
		return subcommands.ExitFailure
	}

	st := dues.NewStatement(unit, payments, p)
	printMarkdown(renderer.RenderStatement(renderer.NewStatement(st, p, cfg.Currency())))
	return subcommands.ExitSuccess
}
