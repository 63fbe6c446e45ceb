// Command duesctl keeps the maintenance dues of a residential society.
//
// Run "duesctl topic" for the user manual.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/etnz/dues/cmd"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits when invoked by the shell to complete a command line
	cmd.Completion(commander).Complete("duesctl")

	flag.Parse()

	if name := flag.Arg(0); name != "" && !cmd.Has(commander, name) {
		if ok, code := cmd.RunExtension(name, flag.Args()[1:]); ok {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}
