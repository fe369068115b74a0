package entities

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial       TransactionType = "initial"
	TransactionTypeDeposit       TransactionType = "deposit"
	TransactionTypeLotteryTicket TransactionType = "lottery_ticket"
	TransactionTypeLotteryPrize  TransactionType = "lottery_prize"
)

// IsLotteryRelated returns true for ticket purchases and prize payouts
func (t TransactionType) IsLotteryRelated() bool {
	return t == TransactionTypeLotteryTicket || t == TransactionTypeLotteryPrize
}

// IsFunding returns true for balance changes made by an operator
func (t TransactionType) IsFunding() bool {
	return t == TransactionTypeInitial || t == TransactionTypeDeposit
}
