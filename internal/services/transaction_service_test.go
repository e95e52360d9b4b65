package services

import (
	"context"
	"testing"
	"time"

	"kodbank/internal/database"
	"kodbank/internal/models"
	"kodbank/internal/repositories"
	"kodbank/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	db              *database.DB
	accountService  *service_mocks.MockAccountServiceInterface
	transactionRepo repositories.TransactionRepositoryInterface
	service         TransactionServiceInterface
	account         *models.Account
	other           *models.Account
	userID          uuid.UUID
}

func (s *TransactionServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.db = database.SetupTestDB(s.T())
	s.accountService = service_mocks.NewMockAccountServiceInterface(s.ctrl)
	s.transactionRepo = repositories.NewTransactionRepository(s.db.DB)
	s.service = NewTransactionService(s.accountService, s.transactionRepo, newTestLogger())

	user := database.CreateTestUser(s.T(), s.db, "history@example.com")
	s.userID = user.ID
	s.account = database.CreateTestAccount(s.T(), s.db, user.ID, models.AccountTypeSavings, decimal.NewFromInt(4000))
	s.other = database.CreateTestAccount(s.T(), s.db, user.ID, models.AccountTypeSavings, decimal.NewFromInt(2000))
}

func (s *TransactionServiceSuite) TearDownTest() {
	s.ctrl.Finish()
	database.CleanupTestDB(s.T(), s.db)
}

func TestTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceSuite))
}

func (s *TransactionServiceSuite) record(txn models.Transaction, at time.Time) {
	txn.CreatedAt = at
	s.Require().NoError(s.db.Create(&txn).Error)
}

func (s *TransactionServiceSuite) TestGetTransactionHistory_Totals() {
	base := time.Now().Add(-time.Hour)
	s.record(models.NewDepositTransaction(s.account.ID, decimal.NewFromInt(1000), "Deposit"), base)
	s.record(models.NewWithdrawTransaction(s.account.ID, decimal.NewFromInt(300), "Withdrawal"), base.Add(time.Minute))

	outgoing, _ := models.NewTransferTransactions(s.account, s.other, decimal.NewFromInt(200))
	s.record(outgoing, base.Add(2*time.Minute))
	_, incoming := models.NewTransferTransactions(s.other, s.account, decimal.NewFromInt(50))
	s.record(incoming, base.Add(3*time.Minute))

	s.accountService.EXPECT().GetAccount(s.userID, s.account.ID).Return(s.account, nil)

	history, err := s.service.GetTransactionHistory(context.Background(), s.userID, s.account.ID)

	s.Require().NoError(err)
	s.Len(history.Transactions, 4)
	s.Equal("Transfer from "+s.other.AccountNumber, history.Transactions[0].Description)
	s.True(decimal.NewFromInt(1050).Equal(history.TotalDeposits))
	s.True(decimal.NewFromInt(500).Equal(history.TotalWithdrawals))
	s.True(decimal.NewFromInt(4000).Equal(history.AccountBalance))
}

func (s *TransactionServiceSuite) TestGetTransactionHistory_WindowedTotals() {
	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < models.HistoryWindow+5; i++ {
		s.record(models.NewDepositTransaction(s.account.ID, decimal.NewFromInt(1), "Deposit"), base.Add(time.Duration(i)*time.Second))
	}

	s.accountService.EXPECT().GetAccount(s.userID, s.account.ID).Return(s.account, nil)

	history, err := s.service.GetTransactionHistory(context.Background(), s.userID, s.account.ID)

	s.Require().NoError(err)
	s.Len(history.Transactions, models.HistoryWindow)
	s.True(decimal.NewFromInt(models.HistoryWindow).Equal(history.TotalDeposits))
	s.True(decimal.Zero.Equal(history.TotalWithdrawals))
}

func (s *TransactionServiceSuite) TestGetTransactionHistory_Empty() {
	s.accountService.EXPECT().GetAccount(s.userID, s.account.ID).Return(s.account, nil)

	history, err := s.service.GetTransactionHistory(context.Background(), s.userID, s.account.ID)

	s.Require().NoError(err)
	s.Empty(history.Transactions)
	s.True(history.TotalDeposits.IsZero())
}

func (s *TransactionServiceSuite) TestGetTransactionHistory_AccountNotFound() {
	s.accountService.EXPECT().GetAccount(s.userID, gomock.Any()).Return(nil, ErrAccountNotFound)

	history, err := s.service.GetTransactionHistory(context.Background(), s.userID, uuid.New())

	s.Nil(history)
	s.ErrorIs(err, ErrAccountNotFound)
}
