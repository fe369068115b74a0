package cmd

import (
	"context"

	"lottoledger/application"

	"github.com/spf13/cobra"
)

var (
	accountBalance      uint64
	accountHistoryLimit int
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Administer funding accounts",
}

var accountOpenCmd = &cobra.Command{
	Use:   "open IDENTITY",
	Short: "Open an account with an initial balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, err := parseIdentity(args[0])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			account, err := ledger.OpenAccount(ctx, identity, accountBalance)
			if err != nil {
				return err
			}
			return printJSON(cmd, account)
		})
	},
}

var accountDepositCmd = &cobra.Command{
	Use:   "deposit IDENTITY AMOUNT",
	Short: "Credit an existing account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, err := parseIdentity(args[0])
		if err != nil {
			return err
		}
		amount, err := parseUint64("amount", args[1])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			account, err := ledger.Deposit(ctx, identity, amount)
			if err != nil {
				return err
			}
			return printJSON(cmd, account)
		})
	},
}

var accountShowCmd = &cobra.Command{
	Use:   "show IDENTITY",
	Short: "Show an account and its recent balance changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, err := parseIdentity(args[0])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			view, err := ledger.GetAccount(ctx, identity, accountHistoryLimit)
			if err != nil {
				return err
			}
			return printJSON(cmd, view)
		})
	},
}

func init() {
	accountOpenCmd.Flags().Uint64Var(&accountBalance, "balance", 0, "initial balance")
	accountShowCmd.Flags().IntVar(&accountHistoryLimit, "history", 20, "number of balance changes to show")

	accountCmd.AddCommand(accountOpenCmd, accountDepositCmd, accountShowCmd)
}
