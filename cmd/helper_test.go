package cmd

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
)

const adminConfig = `billing:
  monthly_charge: "2100"
  accrual_start: "2025-01"
  currency: INR
session:
  role: admin
  token: s3cret
log:
  level: error
`

const viewerConfig = `billing:
  monthly_charge: "2100"
  accrual_start: "2025-01"
log:
  level: error
`

// mehtaJournal is the journal of the reference scenario.
const mehtaJournal = `{"command":"roster","date":"2025-01-01","units":[{"unit":"A-101","owner":"Mehta","openingBalance":500}]}
{"command":"payment","date":"2025-03-07","unit":"a101","amount":"₹4,200"}
{"command":"payment","date":"2025-04-02","unit":"A-101","amount":2100}
`

// writeFile writes content in a file of dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// workspace points the global flags to a new configuration and journal, and
// returns the journal path.
func workspace(t *testing.T, cfg, journal string) string {
	t.Helper()
	tmp := t.TempDir()
	cfgPath := writeFile(t, tmp, "dues.yaml", cfg)
	journalPath := filepath.Join(tmp, "dues.jsonl")
	if journal != "" {
		writeFile(t, tmp, "dues.jsonl", journal)
	}

	oldConfig, oldJournal, oldStore := configFile, journalFile, storeKind
	configFile, journalFile = &cfgPath, &journalPath
	empty := ""
	storeKind = &empty
	t.Cleanup(func() { configFile, journalFile, storeKind = oldConfig, oldJournal, oldStore })
	return journalPath
}

// run executes cmd with args and returns what it printed on stdout.
func run(t *testing.T, cmd subcommands.Command, args ...string) (string, subcommands.ExitStatus) {
	t.Helper()
	f := flag.NewFlagSet("test", flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("invalid args %q: %v", args, err)
	}

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	done := make(chan []byte)
	go func() {
		out, _ := io.ReadAll(r)
		done <- out
	}()

	status := cmd.Execute(context.Background(), f)

	w.Close()
	os.Stdout = oldStdout
	return string(<-done), status
}
