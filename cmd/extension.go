package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// Environment of an extension. Global flags are passed on to it.
const (
	EnvConfigFile = "DUES_CONFIG_FILE"
	EnvJournal    = "DUES_STORE_JOURNAL"
	EnvStoreKind  = "DUES_STORE_KIND"
	EnvCurrency   = "DUES_BILLING_CURRENCY"
	EnvVerbose    = "DUES_VERBOSE"
)

// RunExtension attempts to find and execute an external duesctl-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// Store and currency flags are passed with the names config.Load reads, so an
// extension written in Go can load the same configuration.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "duesctl-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		if *Verbose {
			log.Printf("External command %q not found in PATH: %v", name, err)
		}
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmd.Env = os.Environ()
	if *configFile != "" {
		cmd.Env = append(cmd.Env, EnvConfigFile+"="+*configFile)
	}
	if *journalFile != "" {
		cmd.Env = append(cmd.Env, EnvJournal+"="+*journalFile)
	}
	if *storeKind != "" {
		cmd.Env = append(cmd.Env, EnvStoreKind+"="+*storeKind)
	}
	if *currency != "" {
		cmd.Env = append(cmd.Env, EnvCurrency+"="+*currency)
	}
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
