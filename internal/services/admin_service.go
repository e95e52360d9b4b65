package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kodbank/internal/models"
	"kodbank/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// AdminTransactionWindow is the number of entries in the bank-wide listing
const AdminTransactionWindow = 200

type adminService struct {
	userRepo        repositories.UserRepositoryInterface
	accountRepo     repositories.AccountRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	locker          *AccountLocker
	auditService    AuditServiceInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

func NewAdminService(
	userRepo repositories.UserRepositoryInterface,
	accountRepo repositories.AccountRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	locker *AccountLocker,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AdminServiceInterface {
	return &adminService{
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		locker:          locker,
		auditService:    auditService,
		auditLogger:     auditLogger,
		metrics:         metrics,
		logger:          logger,
	}
}

func (s *adminService) ListCustomers(ctx context.Context) ([]models.User, error) {
	customers, err := s.userRepo.ListByRole(models.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *adminService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accountRepo.ListWithOwners()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *adminService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	transactions, err := s.transactionRepo.GetRecentWithAccounts(AdminTransactionWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (s *adminService) FreezeAccount(ctx context.Context, adminID, accountID uuid.UUID) (*models.Account, error) {
	return s.setStatus(ctx, adminID, accountID, models.AccountStatusFrozen, models.AuditActionAccountFrozen)
}

func (s *adminService) UnfreezeAccount(ctx context.Context, adminID, accountID uuid.UUID) (*models.Account, error) {
	return s.setStatus(ctx, adminID, accountID, models.AccountStatusActive, models.AuditActionAccountUnfrozen)
}

// setStatus holds the account lock so a status change never interleaves with
// a balance mutation on the same account. Setting the current status is a no-op.
func (s *adminService) setStatus(ctx context.Context, adminID, accountID uuid.UUID, status, action string) (*models.Account, error) {
	unlock := s.locker.Lock(accountID)
	defer unlock()

	before, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account, err := s.accountRepo.UpdateStatus(accountID, status)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to update account status: %w", err)
	}

	if before.Status != account.Status {
		s.metrics.IncrementCounter(MetricAccountStatusChanged, map[string]string{"status": status})
		s.auditLogger.LogAccountStatusChange(ctx, account.ID, before.Status, account.Status, adminID)
		s.auditService.Record(ctx, &adminID, action, models.AuditResourceAccount, account.ID.String(),
			map[string]interface{}{
				"old_status": before.Status,
				"new_status": account.Status,
			})
	}

	return account, nil
}

// GetAccountAuditTrail pages through the audit rows recorded for one account
func (s *adminService) GetAccountAuditTrail(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error) {
	if _, err := s.accountRepo.GetByID(accountID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, 0, ErrAccountNotFound
		}
		return nil, 0, fmt.Errorf("failed to get account: %w", err)
	}

	return s.auditService.GetResourceHistory(models.AuditResourceAccount, accountID.String(), offset, limit)
}

// GetAnalytics computes the dashboard aggregates concurrently
func (s *adminService) GetAnalytics(ctx context.Context) (*models.Analytics, error) {
	var (
		analytics    models.Analytics
		totalBalance decimal.Decimal
	)

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.userRepo.CountByRole(models.RoleCustomer)
		analytics.TotalUsers = count
		return err
	})
	g.Go(func() error {
		count, err := s.accountRepo.Count()
		analytics.TotalAccounts = count
		return err
	})
	g.Go(func() error {
		total, err := s.accountRepo.TotalBalance()
		totalBalance = total
		return err
	})
	g.Go(func() error {
		count, err := s.transactionRepo.Count()
		analytics.TotalTransactions = count
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute analytics: %w", err)
	}

	analytics.TotalBalance = totalBalance
	return &analytics, nil
}
