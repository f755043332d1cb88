package entities

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInsufficientBankroll = errors.New("insufficient bankroll")
	ErrNonPositiveAmount    = errors.New("amount must be positive")
)

// Bankroll represents a player's balance. Debits and credits made during a
// round are kept as pending transactions until the bankroll is committed.
type Bankroll struct {
	PlayerID    string    // Player the balance belongs to
	Balance     int64     // Current balance in dollars
	LastUpdated time.Time // When the bankroll was last stored

	pending []*Transaction
}

// NewBankroll creates a bankroll with an opening balance
func NewBankroll(playerID string, balance int64) *Bankroll {
	return &Bankroll{
		PlayerID: playerID,
		Balance:  balance,
	}
}

// TransactionType represents the type of bankroll transaction
type TransactionType string

const (
	TransactionTypeWager         TransactionType = "WAGER"
	TransactionTypeSideBet       TransactionType = "SIDE_BET"
	TransactionTypeDoubleDown    TransactionType = "DOUBLE_DOWN"
	TransactionTypeSplit         TransactionType = "SPLIT"
	TransactionTypePayout        TransactionType = "PAYOUT"
	TransactionTypeSideBetPayout TransactionType = "SIDE_BET_PAYOUT"
	TransactionTypeDeposit       TransactionType = "DEPOSIT"
)

// Transaction represents a single bankroll transaction
type Transaction struct {
	ID           string          // Unique identifier
	PlayerID     string          // Player associated with the transaction
	Amount       int64           // Amount (positive for credits, negative for debits)
	Type         TransactionType // Type of transaction
	ReferenceID  string          // Round the transaction belongs to
	Description  string          // Human-readable description
	Timestamp    time.Time       // When the transaction was committed
	BalanceAfter int64           // Balance after this transaction
}

// CanCover reports whether the balance can pay amount
func (b *Bankroll) CanCover(amount int64) bool {
	return b.Balance >= amount
}

// Debit removes amount from the balance. Nothing changes if the balance
// cannot cover it.
func (b *Bankroll) Debit(amount int64, txType TransactionType, referenceID, description string) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if !b.CanCover(amount) {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientBankroll, amount, b.Balance)
	}

	b.Balance -= amount
	b.record(-amount, txType, referenceID, description)
	return nil
}

// Credit adds amount to the balance
func (b *Bankroll) Credit(amount int64, txType TransactionType, referenceID, description string) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}

	b.Balance += amount
	b.record(amount, txType, referenceID, description)
	return nil
}

func (b *Bankroll) record(amount int64, txType TransactionType, referenceID, description string) {
	b.pending = append(b.pending, &Transaction{
		PlayerID:     b.PlayerID,
		Amount:       amount,
		Type:         txType,
		ReferenceID:  referenceID,
		Description:  description,
		BalanceAfter: b.Balance,
	})
}

// Pending returns the transactions recorded since the last commit
func (b *Bankroll) Pending() []*Transaction {
	out := make([]*Transaction, len(b.pending))
	copy(out, b.pending)
	return out
}

// ClearPending drops the pending transactions after they have been stored
func (b *Bankroll) ClearPending() {
	b.pending = nil
}
