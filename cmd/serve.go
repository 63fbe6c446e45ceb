package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"

	"github.com/etnz/dues/server"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ledger over HTTP" }
func (*serveCmd) Usage() string {
	return `duesctl serve [-addr <addr>]

  Serves the balances as JSON, and accepts payments and expenses from callers
  holding the admin token (session.token) as a bearer token.
  Prometheus metrics are served on /metrics.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, overrides server.addr")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	defer log.Sync()

	p, err := cfg.Policy()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in billing policy: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.addr == "" {
		c.addr = cfg.Server.Addr
	}
	if cfg.Session.Token == "" {
		log.Warn("session.token is not set, recording over HTTP is disabled")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if !*Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(server.Options{
		Store:      src,
		Policy:     p,
		AdminToken: cfg.Session.Token,
		Logger:     log,
	})
	if err := srv.Run(ctx, c.addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error serving: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
