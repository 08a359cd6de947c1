package entities

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the engine
const (
	// Reward transactions
	TransactionTypeInitial        TransactionType = "initial"
	TransactionTypeDailyClaim     TransactionType = "daily_claim"
	TransactionTypeActivityReward TransactionType = "activity_reward"
	TransactionTypeVoiceReward    TransactionType = "voice_reward"
	TransactionTypeAdminGrant     TransactionType = "admin_grant"

	// Bet transactions
	TransactionTypeBetStake  TransactionType = "bet_stake"
	TransactionTypeBetPayout TransactionType = "bet_payout"
	TransactionTypeBetRefund TransactionType = "bet_refund"

	// Lottery transactions
	TransactionTypeLottoTicket TransactionType = "lotto_ticket"
	TransactionTypeLottoWin    TransactionType = "lotto_win"
)

// IsRewardType returns true if the transaction mints new points
func (tt TransactionType) IsRewardType() bool {
	return tt == TransactionTypeDailyClaim ||
		tt == TransactionTypeActivityReward ||
		tt == TransactionTypeVoiceReward ||
		tt == TransactionTypeAdminGrant
}

// IsGamblingRelated returns true if the transaction moves points through a bet or the lottery
func (tt TransactionType) IsGamblingRelated() bool {
	return tt == TransactionTypeBetStake ||
		tt == TransactionTypeBetPayout ||
		tt == TransactionTypeBetRefund ||
		tt == TransactionTypeLottoTicket ||
		tt == TransactionTypeLottoWin
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}

// BalanceChange describes a committed credit or debit
type BalanceChange struct {
	DiscordID       int64           `json:"discord_id"`
	BalanceBefore   int64           `json:"balance_before"`
	BalanceAfter    int64           `json:"balance_after"`
	ChangeAmount    int64           `json:"change_amount"`
	TransactionType TransactionType `json:"transaction_type"`
	RelatedID       string          `json:"related_id,omitempty"`
}
