package services

import (
	"context"
	"fmt"
	"log/slog"

	"kodbank/internal/models"
	"kodbank/internal/repositories"

	"github.com/google/uuid"
)

type transactionService struct {
	accountService  AccountServiceInterface
	transactionRepo repositories.TransactionRepositoryInterface
	logger          *slog.Logger
}

func NewTransactionService(
	accountService AccountServiceInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &transactionService{
		accountService:  accountService,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// GetTransactionHistory returns the newest HistoryWindow entries of an account
// owned by userID. The totals cover the returned entries only.
func (s *transactionService) GetTransactionHistory(ctx context.Context, userID, accountID uuid.UUID) (*models.TransactionHistory, error) {
	account, err := s.accountService.GetAccount(userID, accountID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetRecentByAccountID(account.ID, models.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}

	history := &models.TransactionHistory{
		AccountID:      account.ID,
		Transactions:   transactions,
		AccountBalance: account.Balance,
	}
	history.Summarize()

	s.logger.DebugContext(ctx, "transaction history loaded",
		slog.String("account_id", account.ID.String()),
		slog.Int("count", len(transactions)),
	)

	return history, nil
}
