package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	AccountTypeSavings = "Savings"
	AccountTypeCurrent = "Current"

	AccountStatusActive = "active"
	AccountStatusFrozen = "frozen"

	AccountNumberPrefix = "KB"

	// AmountScale is the number of decimal places money is stored with.
	AmountScale = 2
)

var (
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrInvalidAccountStatus = errors.New("invalid account status")
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrInvalidBalance       = errors.New("balance cannot be negative")
	ErrAccountFrozen        = errors.New("account is frozen")
	ErrBelowMinimumBalance  = errors.New("balance would fall below the account minimum")
	ErrInvalidLedgerAmount  = errors.New("ledger amount must be positive with at most 2 decimal places")

	accountNumberRegex = regexp.MustCompile(`^KB[1-9][0-9]{7}$`)

	// minimumBalances is the floor each account type must hold at all times.
	minimumBalances = map[string]decimal.Decimal{
		AccountTypeSavings: decimal.NewFromInt(1000),
		AccountTypeCurrent: decimal.NewFromInt(5000),
	}

	accountNumberSpan = big.NewInt(90000000)
)

// Account represents a customer bank account
type Account struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountNumber string          `gorm:"type:varchar(10);uniqueIndex;not null" json:"accountNumber"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	AccountType   string          `gorm:"type:varchar(10);not null" json:"accountType"`
	Balance       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	Status        string          `gorm:"type:varchar(10);not null;default:'active';index" json:"status"`
	Version       int             `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate hook for Account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	if a.Status == "" {
		a.Status = AccountStatusActive
	}

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return a.Validate()
}

// Validate validates the account fields
func (a *Account) Validate() error {
	if a.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if !IsValidAccountNumber(a.AccountNumber) {
		return ErrInvalidAccountNumber
	}

	if !IsValidAccountType(a.AccountType) {
		return ErrInvalidAccountType
	}

	if !IsValidAccountStatus(a.Status) {
		return ErrInvalidAccountStatus
	}

	if a.Balance.IsNegative() {
		return ErrInvalidBalance
	}

	return nil
}

func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// MinimumBalance returns the floor for the account's type.
func (a *Account) MinimumBalance() decimal.Decimal {
	return MinimumBalanceFor(a.AccountType)
}

// CanWithdraw reports whether amount can leave the account without breaching its floor.
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.Balance.Sub(amount).GreaterThanOrEqual(a.MinimumBalance())
}

// Debit removes amount from the balance, refusing to cross the type minimum.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !a.IsActive() {
		return ErrAccountFrozen
	}

	if !amount.IsPositive() || !HasAmountScale(amount) {
		return ErrInvalidLedgerAmount
	}

	if !a.CanWithdraw(amount) {
		return ErrBelowMinimumBalance
	}

	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) error {
	if !a.IsActive() {
		return ErrAccountFrozen
	}

	if !amount.IsPositive() || !HasAmountScale(amount) {
		return ErrInvalidLedgerAmount
	}

	a.Balance = a.Balance.Add(amount)
	return nil
}

func (a *Account) TableName() string {
	return "accounts"
}

func IsValidAccountType(accountType string) bool {
	_, ok := minimumBalances[accountType]
	return ok
}

func IsValidAccountStatus(status string) bool {
	return status == AccountStatusActive || status == AccountStatusFrozen
}

func IsValidAccountNumber(accountNumber string) bool {
	return accountNumberRegex.MatchString(accountNumber)
}

// MinimumBalanceFor returns the floor for an account type, zero for unknown types.
func MinimumBalanceFor(accountType string) decimal.Decimal {
	if min, ok := minimumBalances[accountType]; ok {
		return min
	}
	return decimal.Zero
}

// HasAmountScale reports whether amount is representable in the stored precision.
func HasAmountScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(AmountScale))
}

// GenerateAccountNumber draws a candidate number: the prefix followed by 8 digits
// in the range 10000000-99999999. Uniqueness is checked by the repository.
func GenerateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, accountNumberSpan)
	if err != nil {
		return "", fmt.Errorf("failed to draw account number: %w", err)
	}

	return fmt.Sprintf("%s%d", AccountNumberPrefix, n.Int64()+10000000), nil
}
