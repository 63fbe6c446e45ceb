package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/dues"
)

// payCmd holds the flags for the 'pay' subcommand.
type payCmd struct {
	unit    string
	amount  string
	date    string
	months  string
	mode    string
	billRef string
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "record a payment received from a unit" }
func (*payCmd) Usage() string {
	return `duesctl pay -unit <unit> -amount <amount> [-date <date>] [-months <label>] [-mode <mode>] [-bill <ref>]

  Appends a payment to the store. The amount is read like a spreadsheet cell,
  "₹4,200" and "4200" are the same, and must be positive.

  Recording requires an admin session: session.role admin and a session.token.
`
}

func (c *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.unit, "unit", "", "unit paying, for instance A-101")
	f.StringVar(&c.amount, "amount", "", "amount received")
	f.StringVar(&c.date, "date", "", "date of the payment (default today)")
	f.StringVar(&c.months, "months", "", "free label of the months covered, for instance \"Jan-Feb 25\"")
	f.StringVar(&c.mode, "mode", "", "payment mode: cash, UPI, bank transfer, cheque")
	f.StringVar(&c.billRef, "bill", "", "bill or receipt reference")
}

func (c *payCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var on dues.Date
	if c.date != "" {
		var err error
		if on, err = dues.ParseDate(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	cfg, log, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	defer log.Sync()

	if status := requireAdmin(cfg.LocalSession()); status != subcommands.ExitSuccess {
		return status
	}

	src, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	store, ok := src.(dues.PaymentAppender)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: the %s store is read-only\n", cfg.Store.Kind)
		return subcommands.ExitFailure
	}

	rec, err := dues.RecordPayment(ctx, store, dues.PaymentRecord{
		Unit:    c.unit,
		PaidAt:  on,
		Amount:  c.amount,
		Mode:    c.mode,
		Months:  c.months,
		BillRef: c.billRef,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording payment: %v\n", err)
		if errors.Is(err, dues.ErrStoreUnavailable) {
			return subcommands.ExitFailure
		}
		return subcommands.ExitUsageError
	}
	log.Debug("payment recorded", zap.String("id", rec.ID), zap.String("unit", rec.Unit))
	fmt.Printf("Recorded payment of %s from %s on %s\n", dues.M(rec.Value(), cfg.Currency()), rec.Unit, rec.PaidAt)
	return subcommands.ExitSuccess
}

// requireAdmin checks that the local session can record.
func requireAdmin(s dues.Session, err error) subcommands.ExitStatus {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in session: %v\n", err)
		return subcommands.ExitUsageError
	}
	if !s.CanRecord() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", dues.ErrNotAdmin)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
