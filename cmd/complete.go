package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/dues/docs"
)

// flagPredictors predicts the values of flags known by name. Other flags accept anything.
var flagPredictors = map[string]complete.Predictor{
	"config":      predict.Files("*.yaml"),
	"journal":     predict.Files("*.jsonl"),
	"o":           predict.Files("*.jsonl"),
	"owners":      predict.Files("*.csv"),
	"collections": predict.Files("*.csv"),
	"expenses":    predict.Files("*.csv"),
	"store":       predict.Set{"journal", "csv", "sheets", "postgres"},
	"mode":        predict.Set{"cash", "UPI", "bank", "cheque"},
	"json":        predict.Nothing,
	"v":           predict.Nothing,
}

func predictFlag(name string) complete.Predictor {
	if p, ok := flagPredictors[name]; ok {
		return p
	}
	return predict.Something
}

// Completion returns the shell completion of every command registered in c.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	c.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = predictFlag(f.Name)
	})
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = predictFlag(f.Name)
		})
		if cmd.Name() == "topic" {
			if topics, err := docs.GetAllTopics(); err == nil {
				sub.Args = predict.Set(topics)
			}
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

// Has reports whether a command called name is registered in c.
func Has(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}
