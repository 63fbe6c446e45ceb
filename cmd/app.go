// Package cmd implements the CLI application to keep the maintenance dues of a
// residential society.
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
	"github.com/etnz/dues/config"
	"github.com/etnz/dues/internal/logger"
	"github.com/etnz/dues/pgstore"
	"github.com/etnz/dues/sheets"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&balancesCmd{}, "reports")
	c.Register(&statementCmd{}, "reports")
	c.Register(&orphansCmd{}, "reports")
	c.Register(&expensesCmd{}, "reports")

	c.Register(&payCmd{}, "recording")
	c.Register(&expenseCmd{}, "recording")
	c.Register(&importCmd{}, "recording")
	c.Register(&formatJournalCmd{}, "recording")

	c.Register(&serveCmd{}, "server")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file (default dues.yaml in . or $HOME/.config/dues)")
var journalFile = flag.String("journal", "", "Path to the journal file, overrides store.journal")
var storeKind = flag.String("store", "", "Store to read: journal, csv, sheets or postgres. Overrides store.kind")
var currency = flag.String("currency", "", "Display currency, overrides billing.currency")
var Verbose = flag.Bool("v", false, "verbose logging")

// loadConfig loads the configuration and applies the global flags on it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return cfg, err
	}
	if *journalFile != "" {
		cfg.Store.Journal = *journalFile
		if *storeKind == "" {
			cfg.Store.Kind = config.StoreJournal
		}
	}
	if *storeKind != "" {
		cfg.Store.Kind = *storeKind
	}
	if *currency != "" {
		cfg.Billing.Currency = *currency
	}
	if *Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// newLogger returns the logger of the configuration, a no-op logger if it cannot be built.
func newLogger(cfg config.Config) *zap.Logger {
	l, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return zap.NewNop()
	}
	return l
}

// setup loads the configuration and its logger.
func setup() (config.Config, *zap.Logger, bool) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return cfg, nil, false
	}
	return cfg, newLogger(cfg), true
}

// policy returns the billing policy of cfg, evaluated on asOf or today if empty.
func policy(cfg config.Config, asOf string) (dues.BillingPolicy, error) {
	p, err := cfg.Policy()
	if err != nil {
		return p, err
	}
	if asOf != "" {
		day, err := dues.ParseDate(asOf)
		if err != nil {
			return p, err
		}
		p.AsOf = day
	}
	return p.At(dues.Today()), nil
}

// noClose is the close function of stores that hold no resource.
func noClose() error { return nil }

// openStore opens the store configured in cfg. The returned function releases it.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (dues.Source, func() error, error) {
	switch cfg.Store.Kind {
	case config.StoreJournal, "":
		return dues.OpenFileStore(cfg.Store.Journal), noClose, nil

	case config.StoreCSV:
		owners := adapter.Owners.Override(cfg.Store.CSV.Columns)
		collections := adapter.Collections.Override(cfg.Store.CSV.Columns)
		expenses := adapter.Expenses.Override(cfg.Store.CSV.Columns)
		return adapter.CSVSource{
			OwnersPath:        cfg.Store.CSV.Owners,
			CollectionsPath:   cfg.Store.CSV.Collections,
			ExpensesPath:      cfg.Store.CSV.Expenses,
			OwnersSchema:      &owners,
			CollectionsSchema: &collections,
			ExpensesSchema:    &expenses,
		}, noClose, nil

	case config.StoreSheets:
		if cfg.Store.Sheets.URL == "" {
			return nil, nil, fmt.Errorf("store.sheets.url is not set")
		}
		c := sheets.New(cfg.Store.Sheets.URL, cfg.Store.Sheets.Timeout, log)
		if cfg.Store.Sheets.Path != "" {
			c.Path = cfg.Store.Sheets.Path
		}
		return c, noClose, nil

	case config.StorePostgres:
		if cfg.Store.Postgres.DSN == "" {
			return nil, nil, fmt.Errorf("store.postgres.dsn is not set")
		}
		s, err := pgstore.Open(cfg.Store.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}
