package cmd

import (
	"context"

	"lottoledger/application"

	"github.com/spf13/cobra"
)

var (
	lotteryAuthority string
	lotteryPrice     uint64
	lotteryBuyer     string
	lotteryPayment   uint64
	lotteryCaller    string
	lotteryClaimant  string
	lotteryAfter     uint64
	lotteryLimit     int
)

var lotteryCmd = &cobra.Command{
	Use:   "lottery",
	Short: "Create lotteries, sell tickets, draw and settle",
}

var lotteryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new lottery",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		authority, err := parseIdentity(lotteryAuthority)
		if err != nil {
			return err
		}
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			lottery, err := ledger.CreateLottery(ctx, authority, lotteryPrice)
			if err != nil {
				return err
			}
			return printJSON(cmd, lottery)
		})
	},
}

var lotteryBuyCmd = &cobra.Command{
	Use:   "buy LOTTERY_ID",
	Short: "Buy the next ticket of a lottery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lotteryID, err := parseUint64("lottery id", args[0])
		if err != nil {
			return err
		}
		buyer, err := parseIdentity(lotteryBuyer)
		if err != nil {
			return err
		}
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			ticket, err := ledger.BuyTicket(ctx, lotteryID, buyer, lotteryPayment)
			if err != nil {
				return err
			}
			return printJSON(cmd, ticket)
		})
	},
}

var lotteryDrawCmd = &cobra.Command{
	Use:   "draw LOTTERY_ID",
	Short: "Draw the winning ticket; authority only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lotteryID, err := parseUint64("lottery id", args[0])
		if err != nil {
			return err
		}
		caller, err := parseIdentity(lotteryCaller)
		if err != nil {
			return err
		}
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			lottery, err := ledger.PickWinner(ctx, lotteryID, caller)
			if err != nil {
				return err
			}
			return printJSON(cmd, lottery)
		})
	},
}

var lotteryClaimCmd = &cobra.Command{
	Use:   "claim LOTTERY_ID TICKET_INDEX",
	Short: "Claim the prize with the winning ticket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lotteryID, err := parseUint64("lottery id", args[0])
		if err != nil {
			return err
		}
		ticketIndex, err := parseUint64("ticket index", args[1])
		if err != nil {
			return err
		}
		claimant, err := parseIdentity(lotteryClaimant)
		if err != nil {
			return err
		}
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			settlement, err := ledger.ClaimPrize(ctx, lotteryID, ticketIndex, claimant)
			if err != nil {
				return err
			}
			return printJSON(cmd, settlement)
		})
	},
}

var lotteryShowCmd = &cobra.Command{
	Use:   "show LOTTERY_ID",
	Short: "Show a lottery and its settlement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lotteryID, err := parseUint64("lottery id", args[0])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			view, err := ledger.GetLottery(ctx, lotteryID)
			if err != nil {
				return err
			}
			return printJSON(cmd, view)
		})
	},
}

var lotteryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lotteries in id order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		after := afterCursor(cmd)
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			lotteries, err := ledger.ListLotteries(ctx, after, lotteryLimit)
			if err != nil {
				return err
			}
			return printJSON(cmd, lotteries)
		})
	},
}

var lotteryTicketsCmd = &cobra.Command{
	Use:   "tickets LOTTERY_ID",
	Short: "List the tickets of a lottery in index order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lotteryID, err := parseUint64("lottery id", args[0])
		if err != nil {
			return err
		}
		after := afterCursor(cmd)
		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			tickets, err := ledger.ListTickets(ctx, lotteryID, after, lotteryLimit)
			if err != nil {
				return err
			}
			return printJSON(cmd, tickets)
		})
	},
}

// afterCursor returns the --after value when the flag was given
func afterCursor(cmd *cobra.Command) *uint64 {
	if !cmd.Flags().Changed("after") {
		return nil
	}
	after := lotteryAfter
	return &after
}

func init() {
	lotteryCreateCmd.Flags().StringVar(&lotteryAuthority, "authority", "", "identity allowed to draw the winner")
	lotteryCreateCmd.Flags().Uint64Var(&lotteryPrice, "price", 0, "ticket price")
	_ = lotteryCreateCmd.MarkFlagRequired("authority")
	_ = lotteryCreateCmd.MarkFlagRequired("price")

	lotteryBuyCmd.Flags().StringVar(&lotteryBuyer, "buyer", "", "buyer identity")
	lotteryBuyCmd.Flags().Uint64Var(&lotteryPayment, "payment", 0, "payment, must equal the ticket price")
	_ = lotteryBuyCmd.MarkFlagRequired("buyer")
	_ = lotteryBuyCmd.MarkFlagRequired("payment")

	lotteryDrawCmd.Flags().StringVar(&lotteryCaller, "caller", "", "caller identity")
	_ = lotteryDrawCmd.MarkFlagRequired("caller")

	lotteryClaimCmd.Flags().StringVar(&lotteryClaimant, "claimant", "", "claimant identity")
	_ = lotteryClaimCmd.MarkFlagRequired("claimant")

	for _, c := range []*cobra.Command{lotteryListCmd, lotteryTicketsCmd} {
		c.Flags().Uint64Var(&lotteryAfter, "after", 0, "only return entries after this id or index")
		c.Flags().IntVar(&lotteryLimit, "limit", 0, "page size (default 50, max 500)")
	}

	lotteryCmd.AddCommand(
		lotteryCreateCmd,
		lotteryBuyCmd,
		lotteryDrawCmd,
		lotteryClaimCmd,
		lotteryShowCmd,
		lotteryListCmd,
		lotteryTicketsCmd,
	)
}
