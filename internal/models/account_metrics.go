package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryWindow is the number of most recent entries returned by a history read.
const HistoryWindow = 100

// TransactionHistory is one account's most recent ledger page. The totals are
// computed over Transactions only, not the account's lifetime.
type TransactionHistory struct {
	AccountID        uuid.UUID       `json:"accountId"`
	Transactions     []Transaction   `json:"transactions"`
	AccountBalance   decimal.Decimal `json:"accountBalance"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
}

// Summarize fills the windowed totals from the loaded page.
func (h *TransactionHistory) Summarize() {
	h.TotalDeposits = decimal.Zero
	h.TotalWithdrawals = decimal.Zero

	for i := range h.Transactions {
		txn := &h.Transactions[i]
		if txn.IsOutgoing(h.AccountID) {
			h.TotalWithdrawals = h.TotalWithdrawals.Add(txn.Amount)
		} else {
			h.TotalDeposits = h.TotalDeposits.Add(txn.Amount)
		}
	}
}

// Analytics holds the bank-wide aggregates shown on the admin dashboard
type Analytics struct {
	TotalUsers        int64           `json:"totalUsers"`
	TotalAccounts     int64           `json:"totalAccounts"`
	TotalBalance      decimal.Decimal `json:"totalBalance"`
	TotalTransactions int64           `json:"totalTransactions"`
}
