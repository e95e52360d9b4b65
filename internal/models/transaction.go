package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeDeposit  = "deposit"
	TransactionTypeWithdraw = "withdraw"
	TransactionTypeTransfer = "transfer"
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidAmount          = errors.New("transaction amount must be positive")
)

// Transaction is an immutable ledger entry. AccountID is the account whose
// history the entry belongs to; a transfer writes one entry per side.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"accountId"`
	FromAccountID   *uuid.UUID      `gorm:"type:uuid;index" json:"fromAccount"`
	ToAccountID     *uuid.UUID      `gorm:"type:uuid;index" json:"toAccount"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	TransactionType string          `gorm:"type:varchar(10);not null" json:"type"`
	Description     string          `gorm:"type:text" json:"description"`
	CreatedAt       time.Time       `gorm:"not null;index" json:"createdAt"`

	Account     *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	FromAccount *Account `gorm:"foreignKey:FromAccountID" json:"fromAccountDetails,omitempty"`
	ToAccount   *Account `gorm:"foreignKey:ToAccountID" json:"toAccountDetails,omitempty"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	return t.Validate()
}

// BeforeUpdate rejects every update: ledger entries are append-only.
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	return errors.New("transactions are immutable")
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if !IsValidTransactionType(t.TransactionType) {
		return ErrInvalidTransactionType
	}

	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	switch t.TransactionType {
	case TransactionTypeDeposit:
		if t.ToAccountID == nil || t.FromAccountID != nil {
			return errors.New("deposit must credit exactly one account")
		}
	case TransactionTypeWithdraw:
		if t.FromAccountID == nil || t.ToAccountID != nil {
			return errors.New("withdrawal must debit exactly one account")
		}
	case TransactionTypeTransfer:
		if t.FromAccountID == nil || t.ToAccountID == nil {
			return errors.New("transfer requires both accounts")
		}
	}

	return nil
}

// IsOutgoing reports whether the entry reduced the balance of accountID.
func (t *Transaction) IsOutgoing(accountID uuid.UUID) bool {
	switch t.TransactionType {
	case TransactionTypeWithdraw:
		return true
	case TransactionTypeTransfer:
		return t.FromAccountID != nil && *t.FromAccountID == accountID
	default:
		return false
	}
}

func (t *Transaction) TableName() string {
	return "transactions"
}

func IsValidTransactionType(txType string) bool {
	switch txType {
	case TransactionTypeDeposit, TransactionTypeWithdraw, TransactionTypeTransfer:
		return true
	default:
		return false
	}
}

// NewDepositTransaction builds the ledger entry for money arriving from outside the bank.
func NewDepositTransaction(accountID uuid.UUID, amount decimal.Decimal, description string) Transaction {
	to := accountID
	return Transaction{
		AccountID:       accountID,
		ToAccountID:     &to,
		Amount:          amount,
		TransactionType: TransactionTypeDeposit,
		Description:     description,
	}
}

// NewWithdrawTransaction builds the ledger entry for money leaving the bank.
func NewWithdrawTransaction(accountID uuid.UUID, amount decimal.Decimal, description string) Transaction {
	from := accountID
	return Transaction{
		AccountID:       accountID,
		FromAccountID:   &from,
		Amount:          amount,
		TransactionType: TransactionTypeWithdraw,
		Description:     description,
	}
}

// NewTransferTransactions builds the debit-side and credit-side entries of a transfer.
func NewTransferTransactions(from, to *Account, amount decimal.Decimal) (Transaction, Transaction) {
	fromID, toID := from.ID, to.ID

	debit := Transaction{
		AccountID:       from.ID,
		FromAccountID:   &fromID,
		ToAccountID:     &toID,
		Amount:          amount,
		TransactionType: TransactionTypeTransfer,
		Description:     "Transfer to " + to.AccountNumber,
	}

	credit := Transaction{
		AccountID:       to.ID,
		FromAccountID:   &fromID,
		ToAccountID:     &toID,
		Amount:          amount,
		TransactionType: TransactionTypeTransfer,
		Description:     "Transfer from " + from.AccountNumber,
	}

	return debit, credit
}
