// Package state holds per-conversation dialog state for the bot.
package state

// Step identifies where a conversation is inside the calculator flow.
type Step string

const (
	// StepMain is the resting state; the user sees the main menu.
	StepMain Step = "main"
	// StepAwaitingTransactionType waits for the buy/sell choice.
	StepAwaitingTransactionType Step = "awaiting_transaction_type"
	// StepAwaitingWeight waits for the gold weight in grams.
	StepAwaitingWeight Step = "awaiting_weight"
	// StepAwaitingWage waits for the wage percentage (buy only).
	StepAwaitingWage Step = "awaiting_wage"
)

// TransactionType distinguishes the two calculator flows.
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// Pending is the partially accumulated input of an in-progress transaction.
// Fields are filled strictly in flow order: transaction type, then weight,
// then (for buys) wage percent. A zero TransactionType means unset; Weight
// is only meaningful once positive.
type Pending struct {
	TransactionType TransactionType
	Weight          float64
	WagePercent     float64
}

// Conversation is the stored state for one chat.
type Conversation struct {
	Step    Step
	Pending Pending
}

// NewConversation returns the default resting state for an unseen chat.
func NewConversation() Conversation {
	return Conversation{Step: StepMain}
}
