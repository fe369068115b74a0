package testutil

import (
	"time"

	"lottoledger/domain/entities"
)

// CreateTestLottery creates an open lottery with default values
func CreateTestLottery(id uint64, authority entities.Identity) *entities.Lottery {
	return &entities.Lottery{
		ID:          id,
		Authority:   authority,
		TicketPrice: 100,
		State:       entities.LotteryStateOpen,
		CreatedAt:   time.Now(),
	}
}

// CreateTestLotteryWithPrice creates an open lottery with a specific ticket price
func CreateTestLotteryWithPrice(id uint64, authority entities.Identity, price uint64) *entities.Lottery {
	lottery := CreateTestLottery(id, authority)
	lottery.TicketPrice = price
	return lottery
}

// CreateTestTicket creates an unclaimed ticket
func CreateTestTicket(lotteryID, index uint64, buyer entities.Identity) *entities.Ticket {
	return &entities.Ticket{
		LotteryID:   lotteryID,
		TicketIndex: index,
		Buyer:       buyer,
	}
}

// CreateTestBalanceHistory creates a balance history entry for a ticket purchase
func CreateTestBalanceHistory(identity entities.Identity, before, after uint64, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		Identity:        identity,
		BalanceBefore:   before,
		BalanceAfter:    after,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}
