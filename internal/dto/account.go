package dto

import (
	"time"

	"kodbank/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account Request DTOs

// CreateAccountRequest represents the request payload for opening an account
type CreateAccountRequest struct {
	AccountType    string           `json:"accountType" validate:"required,account_type"`
	InitialDeposit *decimal.Decimal `json:"initialDeposit"`
}

// AmountRequest is the payload of deposit and withdraw
type AmountRequest struct {
	AccountID string          `json:"accountId" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" validate:"positive_amount"`
}

// TransferRequest moves funds from one of the caller's accounts to any account by number
type TransferRequest struct {
	FromAccountID   string          `json:"fromAccountId" validate:"required,uuid"`
	ToAccountNumber string          `json:"toAccountNumber" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"positive_amount"`
}

// Account Response DTOs

// AccountResponse is the public view of an account
type AccountResponse struct {
	ID            uuid.UUID       `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func NewAccountResponse(account *models.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		AccountNumber: account.AccountNumber,
		AccountType:   account.AccountType,
		Balance:       account.Balance,
		Status:        account.Status,
		CreatedAt:     account.CreatedAt,
	}
}

func NewAccountResponses(accounts []models.Account) []AccountResponse {
	responses := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, NewAccountResponse(&accounts[i]))
	}
	return responses
}

// AccountEnvelope wraps a single account
type AccountEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Account AccountResponse `json:"account"`
}

// AccountListEnvelope wraps the caller's accounts
type AccountListEnvelope struct {
	Success  bool              `json:"success"`
	Accounts []AccountResponse `json:"accounts"`
}

// BalanceResponse is returned by deposit, withdraw and transfer
type BalanceResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	NewBalance decimal.Decimal `json:"newBalance"`
}
