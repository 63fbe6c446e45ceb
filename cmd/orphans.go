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

type orphansCmd struct{}

func (*orphansCmd) Name() string     { return "orphans" }
func (*orphansCmd) Synopsis() string { return "list the payments that match no unit" }
func (*orphansCmd) Usage() string {
	return `duesctl orphans

  Lists the payments whose unit is empty or matches no unit of the roster,
  usually a typo in the collections sheet. They count in no balance.
`
}

func (c *orphansCmd) SetFlags(f *flag.FlagSet) {}

func (c *orphansCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	defer log.Sync()

	p, err := policy(cfg, "")
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
	printMarkdown(renderer.RenderOrphans(renderer.NewBalances(report, cfg.Currency(), err)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
