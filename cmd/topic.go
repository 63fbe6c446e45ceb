package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/dues/docs"
)

// topicCmd holds the flags for the 'topic' subcommand.
type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show the user manual" }
func (*topicCmd) Usage() string {
	return `duesctl topic [-list] [<topic>...]

  Shows the user manual: its index without argument, the given topics
  otherwise, "*" for all of them.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "list the topics with their synopsis")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		index, err := docs.Index()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading doc index: %v\n", err)
			return subcommands.ExitFailure
		}
		var b strings.Builder
		b.WriteString("| Topic | |\n|:---|:---|\n")
		for _, t := range index {
			fmt.Fprintf(&b, "| %s | %s |\n", t.Name, t.Synopsis)
		}
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
