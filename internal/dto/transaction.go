package dto

import (
	"kodbank/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionHistoryResponse is the windowed history of one account
type TransactionHistoryResponse struct {
	Success          bool                 `json:"success"`
	Transactions     []models.Transaction `json:"transactions"`
	AccountBalance   decimal.Decimal      `json:"accountBalance"`
	TotalDeposits    decimal.Decimal      `json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal      `json:"totalWithdrawals"`
}

func NewTransactionHistoryResponse(history *models.TransactionHistory) TransactionHistoryResponse {
	transactions := history.Transactions
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return TransactionHistoryResponse{
		Success:          true,
		Transactions:     transactions,
		AccountBalance:   history.AccountBalance,
		TotalDeposits:    history.TotalDeposits,
		TotalWithdrawals: history.TotalWithdrawals,
	}
}
