package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lottoledger/application"
	"lottoledger/config"
	"lottoledger/domain/entities"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitFailure   = 1
	exitRetryable = 2
)

var rootCmd = &cobra.Command{
	Use:           "lottoledger",
	Short:         "Lottery ledger: registry, ticket sales, winner draw and prize settlement",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configureLogging(config.Get())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(lotteryCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(randomnessCmd)
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	var ledgerErr *entities.LedgerError
	if errors.As(err, &ledgerErr) {
		fmt.Fprintf(os.Stderr, "error %s (%s): %v\n", ledgerErr.Code, ledgerErr.Kind, err)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}

	cancel()
	if entities.IsRetryable(err) {
		os.Exit(exitRetryable)
	}
	os.Exit(exitFailure)
}

// configureLogging applies the configured level; production logs are JSON
func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// withLedger wires the ledger for the duration of fn
func withLedger(cmd *cobra.Command, fn func(ctx context.Context, ledger *application.Ledger) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, config.Get())
	if err != nil {
		return err
	}
	defer a.close()

	return fn(ctx, a.ledger)
}

// printJSON writes v to the command output
func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
