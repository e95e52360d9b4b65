package repositories

import (
	"kodbank/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceChange is a signed amount applied to one account inside a ledger unit of work
type BalanceChange struct {
	AccountID uuid.UUID
	Delta     decimal.Decimal
}

// AccountRepositoryInterface defines the contract for account repository operations
type AccountRepositoryInterface interface {
	CreateWithTransaction(account *models.Account, transactions []models.Transaction) error
	GetByID(id uuid.UUID) (*models.Account, error)
	GetByIDForUser(id, userID uuid.UUID) (*models.Account, error)
	GetByAccountNumber(accountNumber string) (*models.Account, error)
	GetByUserID(userID uuid.UUID) ([]models.Account, error)
	ListWithOwners() ([]models.Account, error)
	CheckAccountNumberExists(accountNumber string) (bool, error)
	GenerateUniqueAccountNumber() (string, error)
	UpdateStatus(id uuid.UUID, status string) (*models.Account, error)
	ApplyBalanceChanges(changes []BalanceChange, transactions []models.Transaction) ([]models.Account, error)
	Count() (int64, error)
	TotalBalance() (decimal.Decimal, error)
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	GetRecentByAccountID(accountID uuid.UUID, limit int) ([]models.Transaction, error)
	GetRecentWithAccounts(limit int) ([]models.Transaction, error)
	Count() (int64, error)
}

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateFields(userID uuid.UUID, fields map[string]interface{}) error
	ListByRole(role string) ([]models.User, error)
	CountByRole(role string) (int64, error)
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	GetByResource(resource, resourceID string, offset, limit int) ([]*models.AuditLog, int64, error)
}
