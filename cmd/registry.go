package cmd

import (
	"context"

	"lottoledger/application"

	"github.com/spf13/cobra"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Initialize and inspect the lottery registry",
}

var registryInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the registry; fails if it already exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			registry, err := ledger.InitRegistry(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, registry)
		})
	},
}

var registryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the next lottery id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			registry, err := ledger.GetRegistry(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, registry)
		})
	},
}

func init() {
	registryCmd.AddCommand(registryInitCmd, registryShowCmd)
}
