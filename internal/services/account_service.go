package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kodbank/internal/models"
	"kodbank/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxCreateAttempts = 3

const (
	operationDeposit  = "deposit"
	operationWithdraw = "withdraw"
	operationTransfer = "transfer"
)

var (
	ErrInvalidAccountType       = errors.New("invalid account type")
	ErrInvalidInitialDeposit    = errors.New("initial deposit cannot be negative")
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrAccountNotFound          = errors.New("account not found")
	ErrAccountFrozen            = errors.New("account is frozen")
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrInitialDepositTooLow     = errors.New("initial deposit below minimum balance")
	ErrSourceAccountNotFound    = errors.New("source account not found")
	ErrSourceAccountFrozen      = errors.New("source account is frozen")
	ErrDestinationNotFound      = errors.New("destination account not found")
	ErrDestinationFrozen        = errors.New("destination account is frozen")
	ErrSameAccount              = errors.New("cannot transfer to same account")
	ErrConcurrentUpdate         = errors.New("account was modified concurrently")
	ErrAccountNumberUnavailable = errors.New("could not allocate an account number")
)

// MinimumBalanceError reports an amount that would leave an account below its
// type minimum. Opening marks the check made when the account is created.
type MinimumBalanceError struct {
	AccountType string
	Minimum     decimal.Decimal
	Opening     bool
}

func (e *MinimumBalanceError) Error() string {
	if e.Opening {
		return fmt.Sprintf("%s account requires minimum ₹%s", e.AccountType, e.Minimum.String())
	}
	return fmt.Sprintf("Insufficient balance. Minimum %s balance: ₹%s", e.AccountType, e.Minimum.String())
}

func (e *MinimumBalanceError) Is(target error) bool {
	if e.Opening {
		return target == ErrInitialDepositTooLow
	}
	return target == ErrInsufficientBalance
}

func newMinimumBalanceError(account *models.Account) *MinimumBalanceError {
	return &MinimumBalanceError{
		AccountType: account.AccountType,
		Minimum:     account.MinimumBalance(),
	}
}

type accountService struct {
	accountRepo  repositories.AccountRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	locker       *AccountLocker
	notifier     NotifierInterface
	auditService AuditServiceInterface
	auditLogger  AuditLoggerInterface
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
}

// NewAccountService creates a new account service. The locker must be shared
// with every other component that changes account rows.
func NewAccountService(
	accountRepo repositories.AccountRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	locker *AccountLocker,
	notifier NotifierInterface,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AccountServiceInterface {
	return &accountService{
		accountRepo:  accountRepo,
		userRepo:     userRepo,
		locker:       locker,
		notifier:     notifier,
		auditService: auditService,
		auditLogger:  auditLogger,
		metrics:      metrics,
		logger:       logger,
	}
}

// CreateAccount opens an account, recording the initial deposit in the same
// database transaction.
func (s *accountService) CreateAccount(ctx context.Context, userID uuid.UUID, accountType string, initialDeposit decimal.Decimal) (*models.Account, error) {
	if !models.IsValidAccountType(accountType) {
		return nil, ErrInvalidAccountType
	}

	if initialDeposit.IsNegative() {
		return nil, ErrInvalidInitialDeposit
	}

	if !models.HasAmountScale(initialDeposit) {
		return nil, ErrInvalidAmount
	}

	minimum := models.MinimumBalanceFor(accountType)
	if initialDeposit.LessThan(minimum) {
		return nil, &MinimumBalanceError{AccountType: accountType, Minimum: minimum, Opening: true}
	}

	var account *models.Account
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		accountNumber, err := s.accountRepo.GenerateUniqueAccountNumber()
		if err != nil {
			if errors.Is(err, repositories.ErrAccountNumberUnavailable) {
				return nil, ErrAccountNumberUnavailable
			}
			return nil, fmt.Errorf("failed to generate account number: %w", err)
		}

		candidate := &models.Account{
			ID:            uuid.New(),
			AccountNumber: accountNumber,
			UserID:        userID,
			AccountType:   accountType,
			Balance:       initialDeposit,
			Status:        models.AccountStatusActive,
		}

		var entries []models.Transaction
		if initialDeposit.IsPositive() {
			entries = append(entries, models.NewDepositTransaction(candidate.ID, initialDeposit, "Initial deposit"))
		}

		err = s.accountRepo.CreateWithTransaction(candidate, entries)
		if err == nil {
			account = candidate
			break
		}
		if !errors.Is(err, repositories.ErrAccountNumberExists) {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}

		s.logger.WarnContext(ctx, "account number collision, retrying",
			slog.String("account_number", accountNumber),
			slog.Int("attempt", attempt),
		)
	}

	if account == nil {
		return nil, ErrAccountNumberUnavailable
	}

	s.metrics.IncrementCounter(MetricAccountCreated, map[string]string{"account_type": accountType})
	s.auditService.Record(ctx, &userID, models.AuditActionAccountCreated, models.AuditResourceAccount, account.ID.String(),
		map[string]interface{}{
			"account_number":  account.AccountNumber,
			"account_type":    accountType,
			"initial_deposit": initialDeposit.String(),
		})

	s.logger.InfoContext(ctx, "account created",
		slog.String("account_id", account.ID.String()),
		slog.String("account_type", accountType),
	)

	return account, nil
}

func (s *accountService) GetUserAccounts(userID uuid.UUID) ([]models.Account, error) {
	accounts, err := s.accountRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) GetAccount(userID, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.accountRepo.GetByIDForUser(accountID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *accountService) Deposit(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (*models.Account, error) {
	return s.applySingle(ctx, operationDeposit, userID, accountID, amount)
}

func (s *accountService) Withdraw(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (*models.Account, error) {
	return s.applySingle(ctx, operationWithdraw, userID, accountID, amount)
}

// applySingle moves money into or out of one account while holding its lock.
func (s *accountService) applySingle(ctx context.Context, operation string, userID, accountID uuid.UUID, amount decimal.Decimal) (*models.Account, error) {
	if !amount.IsPositive() || !models.HasAmountScale(amount) {
		return nil, ErrInvalidAmount
	}

	start := time.Now()
	unlock := s.locker.Lock(accountID)
	defer unlock()

	account, err := s.GetAccount(userID, accountID)
	if err != nil {
		return nil, s.reject(ctx, operation, accountID, err)
	}

	if !account.IsActive() {
		return nil, s.reject(ctx, operation, accountID, ErrAccountFrozen)
	}

	var (
		delta       decimal.Decimal
		entry       models.Transaction
		notifyKind  string
		auditAction string
	)
	switch operation {
	case operationDeposit:
		delta = amount
		entry = models.NewDepositTransaction(account.ID, amount, "Deposit")
		notifyKind = models.NotificationDeposit
		auditAction = models.AuditActionDeposit
	default:
		if !account.CanWithdraw(amount) {
			return nil, s.reject(ctx, operation, accountID, newMinimumBalanceError(account))
		}
		delta = amount.Neg()
		entry = models.NewWithdrawTransaction(account.ID, amount, "Withdrawal")
		notifyKind = models.NotificationWithdrawal
		auditAction = models.AuditActionWithdraw
	}

	updated, err := s.accountRepo.ApplyBalanceChanges(
		[]repositories.BalanceChange{{AccountID: account.ID, Delta: delta}},
		[]models.Transaction{entry},
	)
	if err != nil {
		return nil, s.reject(ctx, operation, accountID, s.mapLedgerError(err, account, ErrAccountNotFound, ErrAccountFrozen))
	}
	result := &updated[0]

	s.recordSuccess(ctx, operation, start)
	s.auditLogger.LogLedgerOperation(ctx, operation, result.ID, amount.String(), result.Balance.String(), userID)
	s.auditService.Record(ctx, &userID, auditAction, models.AuditResourceAccount, result.ID.String(),
		map[string]interface{}{
			"amount":      amount.String(),
			"new_balance": result.Balance.String(),
		})

	s.notifyOwner(ctx, userID, models.Notification{
		Kind:          notifyKind,
		AccountNumber: result.AccountNumber,
		Amount:        amount,
		Balance:       result.Balance,
	})

	return result, nil
}

// Transfer moves amount from the caller's account to the account with the
// given number. Both balances change and both ledger entries are written in
// one database transaction.
func (s *accountService) Transfer(ctx context.Context, userID, fromAccountID uuid.UUID, toAccountNumber string, amount decimal.Decimal) (*models.Account, error) {
	if !amount.IsPositive() || !models.HasAmountScale(amount) {
		return nil, ErrInvalidAmount
	}

	start := time.Now()

	// The destination id is only known after the lookup, so resolve once to
	// learn both ids and again once both locks are held.
	from, to, err := s.resolveTransfer(userID, fromAccountID, toAccountNumber, amount)
	if err != nil {
		return nil, s.reject(ctx, operationTransfer, fromAccountID, err)
	}

	unlock := s.locker.Lock(from.ID, to.ID)
	defer unlock()

	from, to, err = s.resolveTransfer(userID, fromAccountID, toAccountNumber, amount)
	if err != nil {
		return nil, s.reject(ctx, operationTransfer, fromAccountID, err)
	}

	debit, credit := models.NewTransferTransactions(from, to, amount)
	updated, err := s.accountRepo.ApplyBalanceChanges(
		[]repositories.BalanceChange{
			{AccountID: from.ID, Delta: amount.Neg()},
			{AccountID: to.ID, Delta: amount},
		},
		[]models.Transaction{debit, credit},
	)
	if err != nil {
		var ledgerErr *repositories.LedgerError
		if errors.As(err, &ledgerErr) && ledgerErr.AccountID == to.ID {
			err = s.mapLedgerError(err, to, ErrDestinationNotFound, ErrDestinationFrozen)
		} else {
			err = s.mapLedgerError(err, from, ErrSourceAccountNotFound, ErrSourceAccountFrozen)
		}
		return nil, s.reject(ctx, operationTransfer, fromAccountID, err)
	}
	source, destination := &updated[0], &updated[1]

	s.recordSuccess(ctx, operationTransfer, start)
	s.metrics.RecordGauge(MetricTransferAmount, amount.InexactFloat64(), nil)
	s.auditLogger.LogLedgerOperation(ctx, operationTransfer, source.ID, amount.String(), source.Balance.String(), userID)
	s.auditService.Record(ctx, &userID, models.AuditActionTransfer, models.AuditResourceAccount, source.ID.String(),
		map[string]interface{}{
			"amount":              amount.String(),
			"to_account_number":   destination.AccountNumber,
			"new_balance":         source.Balance.String(),
			"destination_account": destination.ID.String(),
		})

	s.notifyOwner(ctx, userID, models.Notification{
		Kind:          models.NotificationTransferDebit,
		AccountNumber: source.AccountNumber,
		Counterparty:  destination.AccountNumber,
		Amount:        amount,
		Balance:       source.Balance,
	})
	s.notifyOwner(ctx, destination.UserID, models.Notification{
		Kind:          models.NotificationTransferCredit,
		AccountNumber: destination.AccountNumber,
		Counterparty:  source.AccountNumber,
		Amount:        amount,
		Balance:       destination.Balance,
	})

	return source, nil
}

// resolveTransfer loads both sides and applies the transfer checks in order.
func (s *accountService) resolveTransfer(userID, fromAccountID uuid.UUID, toAccountNumber string, amount decimal.Decimal) (*models.Account, *models.Account, error) {
	from, err := s.accountRepo.GetByIDForUser(fromAccountID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, nil, ErrSourceAccountNotFound
		}
		return nil, nil, fmt.Errorf("failed to get source account: %w", err)
	}

	if !from.IsActive() {
		return nil, nil, ErrSourceAccountFrozen
	}

	to, err := s.accountRepo.GetByAccountNumber(toAccountNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, nil, ErrDestinationNotFound
		}
		return nil, nil, fmt.Errorf("failed to get destination account: %w", err)
	}

	if !to.IsActive() {
		return nil, nil, ErrDestinationFrozen
	}

	if from.ID == to.ID {
		return nil, nil, ErrSameAccount
	}

	if !from.CanWithdraw(amount) {
		return nil, nil, newMinimumBalanceError(from)
	}

	return from, to, nil
}

// mapLedgerError translates a rejected unit of work into this package's errors.
func (s *accountService) mapLedgerError(err error, account *models.Account, notFound, frozen error) error {
	switch {
	case errors.Is(err, repositories.ErrAccountNotFound):
		return notFound
	case errors.Is(err, models.ErrAccountFrozen):
		return frozen
	case errors.Is(err, models.ErrBelowMinimumBalance):
		return newMinimumBalanceError(account)
	case errors.Is(err, repositories.ErrConcurrentUpdate):
		return ErrConcurrentUpdate
	case errors.Is(err, models.ErrInvalidLedgerAmount):
		return ErrInvalidAmount
	default:
		return fmt.Errorf("failed to apply balance change: %w", err)
	}
}

func (s *accountService) reject(ctx context.Context, operation string, accountID uuid.UUID, err error) error {
	reason := "error"
	switch {
	case errors.Is(err, ErrAccountFrozen), errors.Is(err, ErrSourceAccountFrozen), errors.Is(err, ErrDestinationFrozen):
		reason = "frozen"
	case errors.Is(err, ErrInsufficientBalance):
		reason = "insufficient_balance"
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrSourceAccountNotFound), errors.Is(err, ErrDestinationNotFound):
		reason = "not_found"
	case errors.Is(err, ErrSameAccount):
		reason = "same_account"
	case errors.Is(err, ErrConcurrentUpdate):
		reason = "conflict"
	}

	s.metrics.IncrementCounter(MetricLedgerFailed, map[string]string{
		"operation": operation,
		"reason":    reason,
	})
	s.auditLogger.LogLedgerRejected(ctx, operation, accountID, err.Error())

	return err
}

func (s *accountService) recordSuccess(ctx context.Context, operation string, start time.Time) {
	s.metrics.IncrementCounter(MetricLedgerSuccess, map[string]string{"operation": operation})
	s.metrics.RecordProcessingTime(MetricLedgerDuration+"."+operation, time.Since(start))
}

// notifyOwner queues an alert for the account owner. Failures are logged only.
func (s *accountService) notifyOwner(ctx context.Context, ownerID uuid.UUID, notification models.Notification) {
	owner, err := s.userRepo.GetByID(ownerID)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping notification, owner lookup failed",
			slog.String("user_id", ownerID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	notification.To = owner.Email
	notification.Name = owner.Name
	s.notifier.Enqueue(ctx, notification)
}
