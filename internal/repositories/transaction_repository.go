package repositories

import (
	"fmt"

	"kodbank/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// GetRecentByAccountID returns the newest entries of an account's history
func (r *transactionRepository) GetRecentByAccountID(accountID uuid.UUID, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	return transactions, nil
}

// GetRecentWithAccounts returns the newest entries bank-wide with the owning
// account's number and type and the account numbers of both sides loaded.
func (r *transactionRepository) GetRecentWithAccounts(limit int) ([]models.Transaction, error) {
	accountColumns := func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "account_number")
	}

	var transactions []models.Transaction
	if err := r.db.Preload("Account", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "account_number", "account_type")
	}).
		Preload("FromAccount", accountColumns).
		Preload("ToAccount", accountColumns).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
