package cmd

import (
	"context"
	"fmt"

	"lottoledger/application"
	"lottoledger/domain/entities"
	"lottoledger/infrastructure/randomness"

	"github.com/spf13/cobra"
)

var randomnessPublicKey string

var randomnessCmd = &cobra.Command{
	Use:   "randomness",
	Short: "Manage and check the verifiable draw randomness",
}

var randomnessKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a BLS key pair for RANDOMNESS_BLS_PRIVATE_KEY",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		private, public := randomness.GenerateKeyPair()

		privateHex, err := randomness.EncodeKey(private)
		if err != nil {
			return err
		}
		publicHex, err := randomness.EncodeKey(public)
		if err != nil {
			return err
		}

		return printJSON(cmd, map[string]string{
			"private_key": privateHex,
			"public_key":  publicHex,
		})
	},
}

var randomnessVerifyCmd = &cobra.Command{
	Use:   "verify LOTTERY_ID",
	Short: "Check the recorded draw of a lottery against a BLS public key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lotteryID, err := parseUint64("lottery id", args[0])
		if err != nil {
			return err
		}
		public, err := randomness.ParsePublicKey(randomnessPublicKey)
		if err != nil {
			return err
		}

		return withLedger(cmd, func(ctx context.Context, ledger *application.Ledger) error {
			view, err := ledger.GetLottery(ctx, lotteryID)
			if err != nil {
				return err
			}
			lottery := view.Lottery
			if lottery.IsOpen() || lottery.DrawSeed == nil {
				return entities.ErrLotteryNotDrawn
			}
			if lottery.DrawSource == nil || *lottery.DrawSource != randomness.BLSSourceName {
				return fmt.Errorf("lottery %d was not drawn with the bls source", lotteryID)
			}

			seed := entities.Seed{Value: *lottery.DrawSeed, Proof: lottery.DrawProof, Source: *lottery.DrawSource}
			if err := randomness.VerifySeed(public, lotteryID, seed); err != nil {
				return err
			}

			winner, err := entities.SelectWinnerIndex(seed.Value, lottery.TicketCount)
			if err != nil {
				return err
			}
			if lottery.WinnerTicketIndex == nil || *lottery.WinnerTicketIndex != winner {
				return fmt.Errorf("recorded winner does not follow from the verified seed")
			}

			return printJSON(cmd, map[string]any{
				"lottery_id":          lotteryID,
				"seed":                seed.Value,
				"winner_ticket_index": winner,
				"verified":            true,
			})
		})
	},
}

func init() {
	randomnessVerifyCmd.Flags().StringVar(&randomnessPublicKey, "public-key", "", "hex encoded BLS public key")
	_ = randomnessVerifyCmd.MarkFlagRequired("public-key")

	randomnessCmd.AddCommand(randomnessKeygenCmd, randomnessVerifyCmd)
}
