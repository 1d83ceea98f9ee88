package database

import (
	"errors"
	"fmt"
	"math"
)

// MaxAmount is the largest amount a transaction can move. Balances are signed
// so an amount must fit in an int64.
const MaxAmount uint64 = math.MaxInt64

// ErrAmountTooLarge is returned when a transaction moves more than MaxAmount.
var ErrAmountTooLarge = errors.New("amount too large")

// Tx is the transactional information between two parties. A Tx is a value
// and is never changed once constructed.
type Tx struct {
	From   Sender    `json:"from"`   // Account sending the value, or the system mint for rewards.
	To     AccountID `json:"to"`     // Account receiving the value.
	Amount uint64    `json:"amount"` // Value moved by this transaction.
}

// NewTx constructs a transaction between two accounts.
func NewTx(from AccountID, to AccountID, amount uint64) Tx {
	return Tx{
		From:   SenderAccount(from),
		To:     to,
		Amount: amount,
	}
}

// NewRewardTx constructs a transaction minted by the system to reward the
// specified account for mining a block.
func NewRewardTx(to AccountID, amount uint64) Tx {
	return Tx{
		From:   SystemMint,
		To:     to,
		Amount: amount,
	}
}

// IsReward reports whether the transaction was minted by the system.
func (tx Tx) IsReward() bool {
	return tx.From.IsSystem()
}

// Validate checks the transaction can be recorded on the chain.
func (tx Tx) Validate() error {
	if tx.Amount > MaxAmount {
		return fmt.Errorf("amount %d, max %d: %w", tx.Amount, MaxAmount, ErrAmountTooLarge)
	}

	if from, ok := tx.From.Account(); ok {
		if err := from.Validate(); err != nil {
			return fmt.Errorf("from: %w", err)
		}
	}

	if err := tx.To.Validate(); err != nil {
		return fmt.Errorf("to: %w", err)
	}

	return nil
}

// Effect returns the change this transaction makes to the balance of the
// specified account. A transaction an account sends to itself nets zero.
// Amounts above MaxAmount count as MaxAmount.
func (tx Tx) Effect(accountID AccountID) int64 {
	amount := int64(min(tx.Amount, MaxAmount))

	var effect int64

	if tx.From.Is(accountID) {
		effect -= amount
	}

	if tx.To == accountID {
		effect += amount
	}

	return effect
}

// AddBalance adds the change to the balance. The result stops at the int64
// limits instead of wrapping around.
func AddBalance(balance int64, change int64) int64 {
	sum := balance + change

	switch {
	case change > 0 && sum < balance:
		return math.MaxInt64
	case change < 0 && sum > balance:
		return math.MinInt64
	}

	return sum
}

// Involves reports whether the account sends or receives in this transaction.
func (tx Tx) Involves(accountID AccountID) bool {
	return tx.From.Is(accountID) || tx.To == accountID
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.From, tx.To, tx.Amount)
}
