package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	NotificationDeposit        = "deposit"
	NotificationWithdrawal     = "withdrawal"
	NotificationTransferDebit  = "transfer_debit"
	NotificationTransferCredit = "transfer_credit"

	BankName = "KodnestBank"
)

// CircuitBreakerState is the state of a breaker guarding an outbound dependency
type CircuitBreakerState int

func (s CircuitBreakerState) String() string {
	switch s {
	case 0:
		return "closed"
	case 1:
		return "open"
	case 2:
		return "half-open"
	default:
		return "unknown"
	}
}

// Notification is one outbound alert waiting in the dispatch queue
type Notification struct {
	ID            uuid.UUID
	Kind          string
	To            string
	Name          string
	AccountNumber string
	Counterparty  string
	Amount        decimal.Decimal
	Balance       decimal.Decimal
	EnqueuedAt    time.Time
}

// Subject returns the mail subject line for the notification kind.
func (n Notification) Subject() string {
	switch n.Kind {
	case NotificationDeposit:
		return "Deposit Alert - " + BankName
	case NotificationWithdrawal:
		return "Withdrawal Alert - " + BankName
	case NotificationTransferDebit:
		return "Transfer Alert - " + BankName
	case NotificationTransferCredit:
		return "Credit Alert - " + BankName
	default:
		return BankName
	}
}

// Body renders the plain-text message body.
func (n Notification) Body() string {
	var line string
	switch n.Kind {
	case NotificationDeposit:
		line = fmt.Sprintf("₹%s has been deposited to account %s.", n.Amount.StringFixed(2), n.AccountNumber)
	case NotificationWithdrawal:
		line = fmt.Sprintf("₹%s has been withdrawn from account %s.", n.Amount.StringFixed(2), n.AccountNumber)
	case NotificationTransferDebit:
		line = fmt.Sprintf("₹%s has been transferred from account %s to %s.", n.Amount.StringFixed(2), n.AccountNumber, n.Counterparty)
	case NotificationTransferCredit:
		line = fmt.Sprintf("₹%s has been credited to account %s from %s.", n.Amount.StringFixed(2), n.AccountNumber, n.Counterparty)
	}

	return fmt.Sprintf("Dear %s,\n\n%s\nAvailable balance: ₹%s\n\nThank you for banking with %s.\n",
		n.Name, line, n.Balance.StringFixed(2), BankName)
}
