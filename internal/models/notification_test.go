package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNotification_Subject(t *testing.T) {
	assert.Equal(t, "Deposit Alert - KodnestBank", Notification{Kind: NotificationDeposit}.Subject())
	assert.Equal(t, "Withdrawal Alert - KodnestBank", Notification{Kind: NotificationWithdrawal}.Subject())
	assert.Equal(t, "Transfer Alert - KodnestBank", Notification{Kind: NotificationTransferDebit}.Subject())
	assert.Equal(t, "Credit Alert - KodnestBank", Notification{Kind: NotificationTransferCredit}.Subject())
}

func TestNotification_Body(t *testing.T) {
	n := Notification{
		Kind:          NotificationTransferCredit,
		Name:          "Ravi",
		AccountNumber: "KB22222222",
		Counterparty:  "KB11111111",
		Amount:        decimal.NewFromInt(200),
		Balance:       decimal.NewFromInt(5200),
	}

	body := n.Body()
	assert.Contains(t, body, "Dear Ravi")
	assert.Contains(t, body, "₹200.00 has been credited to account KB22222222 from KB11111111.")
	assert.Contains(t, body, "Available balance: ₹5200.00")
}

func TestCircuitBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", CircuitBreakerState(0).String())
	assert.Equal(t, "open", CircuitBreakerState(1).String())
	assert.Equal(t, "half-open", CircuitBreakerState(2).String())
	assert.Equal(t, "unknown", CircuitBreakerState(9).String())
}
