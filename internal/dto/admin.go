package dto

import (
	"time"

	"kodbank/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountOwner is the slice of the owning user shown in admin listings
type AccountOwner struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// AdminAccountResponse is an account with its owner
type AdminAccountResponse struct {
	AccountResponse
	Owner *AccountOwner `json:"owner,omitempty"`
}

func NewAdminAccountResponses(accounts []models.Account) []AdminAccountResponse {
	responses := make([]AdminAccountResponse, 0, len(accounts))
	for i := range accounts {
		response := AdminAccountResponse{AccountResponse: NewAccountResponse(&accounts[i])}
		if owner := accounts[i].User; owner != nil {
			response.Owner = &AccountOwner{ID: owner.ID, Name: owner.Name, Email: owner.Email}
		}
		responses = append(responses, response)
	}
	return responses
}

// AdminTransactionResponse shows a ledger entry with its owning account and the
// account numbers of both sides
type AdminTransactionResponse struct {
	ID                uuid.UUID       `json:"id"`
	AccountID         uuid.UUID       `json:"accountId"`
	AccountNumber     string          `json:"accountNumber,omitempty"`
	AccountType       string          `json:"accountType,omitempty"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	FromAccountNumber string          `json:"fromAccountNumber,omitempty"`
	ToAccountNumber   string          `json:"toAccountNumber,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

func NewAdminTransactionResponses(transactions []models.Transaction) []AdminTransactionResponse {
	responses := make([]AdminTransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		response := AdminTransactionResponse{
			ID:          t.ID,
			AccountID:   t.AccountID,
			Type:        t.TransactionType,
			Amount:      t.Amount,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		}
		if t.Account != nil {
			response.AccountNumber = t.Account.AccountNumber
			response.AccountType = t.Account.AccountType
		}
		if t.FromAccount != nil {
			response.FromAccountNumber = t.FromAccount.AccountNumber
		}
		if t.ToAccount != nil {
			response.ToAccountNumber = t.ToAccount.AccountNumber
		}
		responses = append(responses, response)
	}
	return responses
}

func NewUserResponses(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, NewUserResponse(&users[i]))
	}
	return responses
}

type CustomerListEnvelope struct {
	Success   bool           `json:"success"`
	Customers []UserResponse `json:"customers"`
}

type AdminAccountListEnvelope struct {
	Success  bool                   `json:"success"`
	Accounts []AdminAccountResponse `json:"accounts"`
}

type AdminTransactionListEnvelope struct {
	Success      bool                       `json:"success"`
	Transactions []AdminTransactionResponse `json:"transactions"`
}

type AnalyticsEnvelope struct {
	Success   bool             `json:"success"`
	Analytics models.Analytics `json:"analytics"`
}

// AccountStatusEnvelope is returned by freeze and unfreeze
type AccountStatusEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Account AccountResponse `json:"account"`
}

// AuditTrailEnvelope is one page of an account's audit history
type AuditTrailEnvelope struct {
	Success bool               `json:"success"`
	Logs    []*models.AuditLog `json:"logs"`
	Total   int64              `json:"total"`
	Offset  int                `json:"offset"`
	Limit   int                `json:"limit"`
}
