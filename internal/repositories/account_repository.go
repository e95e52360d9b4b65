package repositories

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"kodbank/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxAccountNumberAttempts = 10

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNumberExists = errors.New("account number already exists")
	ErrConcurrentUpdate    = errors.New("account was modified concurrently")
	ErrNoBalanceChanges    = errors.New("no balance changes supplied")

	ErrAccountNumberUnavailable = errors.New("no free account number found")
)

// LedgerError identifies which account caused a ledger unit of work to be rejected.
type LedgerError struct {
	AccountID uuid.UUID
	Err       error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("account %s: %v", e.AccountID, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

type accountRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepositoryInterface {
	return &accountRepository{
		db: db,
	}
}

// CreateWithTransaction inserts the account and its opening ledger entries atomically.
// Entries without an account id are attached to the new account.
func (r *accountRepository) CreateWithTransaction(account *models.Account, transactions []models.Transaction) error {
	if account == nil {
		return errors.New("account cannot be nil")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAccountNumberExists
			}
			return fmt.Errorf("failed to create account: %w", err)
		}

		for i := range transactions {
			if transactions[i].AccountID == uuid.Nil {
				transactions[i].AccountID = account.ID
			}
		}

		if len(transactions) > 0 {
			if err := tx.Create(&transactions).Error; err != nil {
				return fmt.Errorf("failed to create opening transactions: %w", err)
			}
		}

		return nil
	})
}

func (r *accountRepository) GetByID(id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

// GetByIDForUser only returns the account when userID owns it.
func (r *accountRepository) GetByIDForUser(id, userID uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account for user: %w", err)
	}

	return &account, nil
}

func (r *accountRepository) GetByAccountNumber(accountNumber string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("account_number = ?", accountNumber).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by number: %w", err)
	}

	return &account, nil
}

func (r *accountRepository) GetByUserID(userID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get accounts for user: %w", err)
	}

	return accounts, nil
}

// ListWithOwners returns every account, newest first, with the owner's name and email.
func (r *accountRepository) ListWithOwners() ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email")
	}).
		Order("created_at DESC").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return accounts, nil
}

func (r *accountRepository) CheckAccountNumberExists(accountNumber string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Account{}).
		Where("account_number = ?", accountNumber).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check account number: %w", err)
	}

	return count > 0, nil
}

// GenerateUniqueAccountNumber draws numbers until one is not in use.
// The unique index remains the final arbiter for racing creators.
func (r *accountRepository) GenerateUniqueAccountNumber() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		accountNumber, err := models.GenerateAccountNumber()
		if err != nil {
			return "", err
		}

		exists, err := r.CheckAccountNumberExists(accountNumber)
		if err != nil {
			return "", err
		}

		if !exists {
			return accountNumber, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrAccountNumberUnavailable, maxAccountNumberAttempts)
}

func (r *accountRepository) UpdateStatus(id uuid.UUID, status string) (*models.Account, error) {
	if !models.IsValidAccountStatus(status) {
		return nil, models.ErrInvalidAccountStatus
	}

	var account models.Account
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("failed to lock account: %w", err)
		}

		if account.Status == status {
			return nil
		}

		if err := tx.Model(&account).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update account status: %w", err)
		}
		account.Status = status

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// ApplyBalanceChanges applies every change and inserts the ledger entries in one
// database transaction. Rows are locked in id order, each change goes through
// Account.Debit or Account.Credit under the lock, and the write is guarded by the row version.
// The returned accounts follow the order of changes.
func (r *accountRepository) ApplyBalanceChanges(changes []BalanceChange, transactions []models.Transaction) ([]models.Account, error) {
	if len(changes) == 0 {
		return nil, ErrNoBalanceChanges
	}

	order := make([]int, len(changes))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return changes[order[a]].AccountID.String() < changes[order[b]].AccountID.String()
	})

	updated := make([]models.Account, len(changes))

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, i := range order {
			change := changes[i]

			var account models.Account
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", change.AccountID).
				First(&account).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &LedgerError{AccountID: change.AccountID, Err: ErrAccountNotFound}
				}
				return fmt.Errorf("failed to lock account: %w", err)
			}

			var applyErr error
			if change.Delta.IsNegative() {
				applyErr = account.Debit(change.Delta.Neg())
			} else {
				applyErr = account.Credit(change.Delta)
			}
			if applyErr != nil {
				return &LedgerError{AccountID: account.ID, Err: applyErr}
			}

			result := tx.Model(&models.Account{}).
				Where("id = ? AND version = ?", account.ID, account.Version).
				Updates(map[string]interface{}{
					"balance": account.Balance,
					"version": account.Version + 1,
				})
			if result.Error != nil {
				return fmt.Errorf("failed to update balance: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return &LedgerError{AccountID: account.ID, Err: ErrConcurrentUpdate}
			}

			account.Version++
			updated[i] = account
		}

		if len(transactions) > 0 {
			if err := tx.Create(&transactions).Error; err != nil {
				return fmt.Errorf("failed to record transactions: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *accountRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Account{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	return count, nil
}

// TotalBalance sums the balance of every account, frozen ones included.
func (r *accountRepository) TotalBalance() (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	if err := r.db.Model(&models.Account{}).
		Select("COALESCE(SUM(balance), 0) as total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balances: %w", err)
	}

	return result.Total, nil
}
