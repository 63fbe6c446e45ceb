package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/etnz/dues"
)

// formatJournalCmd holds the flags for the 'format-journal' subcommand.
type formatJournalCmd struct {
	output string
}

func (*formatJournalCmd) Name() string     { return "format-journal" }
func (*formatJournalCmd) Synopsis() string { return "formats the journal file into a canonical form" }
func (*formatJournalCmd) Usage() string {
	return `duesctl format-journal [-o <file>]

  Rewrites the journal file with its records in a canonical form. Records are
  neither reordered nor removed.
`
}

func (c *formatJournalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file, - for stdout (default the journal itself)")
}

func (c *formatJournalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	path := cfg.Store.Journal

	journal, err := dues.OpenFileStore(path).Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding journal: %v\n", err)
		return subcommands.ExitFailure
	}

	var b bytes.Buffer
	if err := dues.EncodeJournal(&b, journal); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding journal: %v\n", err)
		return subcommands.ExitFailure
	}

	switch c.output {
	case "-":
		os.Stdout.Write(b.Bytes())
		return subcommands.ExitSuccess
	case "":
		c.output = path
	}

	// replace the file atomically
	tmp, err := os.CreateTemp(filepath.Dir(c.output), ".journal-*.jsonl")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating temporary file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer os.Remove(tmp.Name())
	tmp.Chmod(0644)
	if _, err := tmp.Write(b.Bytes()); err != nil {
		tmp.Close()
		fmt.Fprintf(os.Stderr, "Error writing journal: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := tmp.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing journal: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.Rename(tmp.Name(), c.output); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing journal: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Journal file '%s' has been formatted.\n", c.output)
	return subcommands.ExitSuccess
}
