package services

import (
	"context"
	"errors"
	"testing"

	"kodbank/internal/database"
	"kodbank/internal/models"
	"kodbank/internal/repositories"
	"kodbank/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AdminServiceSuite struct {
	suite.Suite
	db          *database.DB
	accountRepo repositories.AccountRepositoryInterface
	auditRepo   repositories.AuditLogRepositoryInterface
	service     AdminServiceInterface
	admin       *models.User
	customer    *models.User
	ctx         context.Context
}

func (s *AdminServiceSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.accountRepo = repositories.NewAccountRepository(s.db.DB)
	s.auditRepo = repositories.NewAuditLogRepository(s.db.DB)

	logger := newTestLogger()
	s.service = NewAdminService(
		repositories.NewUserRepository(s.db.DB),
		s.accountRepo,
		repositories.NewTransactionRepository(s.db.DB),
		NewAccountLocker(),
		NewAuditService(s.auditRepo, logger),
		NewAuditLogger(logger),
		newTestMetrics(),
		logger,
	)

	s.admin = database.CreateTestAdminUser(s.T(), s.db, "admin@kodnestbank.com")
	s.customer = database.CreateTestUser(s.T(), s.db, "customer@example.com")
	s.ctx = context.Background()
}

func (s *AdminServiceSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) TestListCustomers_ExcludesAdmins() {
	customers, err := s.service.ListCustomers(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(customers, 1)
	s.Equal(s.customer.ID, customers[0].ID)
}

func (s *AdminServiceSuite) TestListAccounts_WithOwners() {
	database.CreateTestAccount(s.T(), s.db, s.customer.ID, models.AccountTypeSavings, decimal.NewFromInt(1000))

	accounts, err := s.service.ListAccounts(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(accounts, 1)
	s.Require().NotNil(accounts[0].User)
	s.Equal("customer@example.com", accounts[0].User.Email)
}

func (s *AdminServiceSuite) TestListTransactions() {
	account := database.CreateTestAccount(s.T(), s.db, s.customer.ID, models.AccountTypeSavings, decimal.NewFromInt(1000))
	entry := models.NewDepositTransaction(account.ID, decimal.NewFromInt(1000), "Initial deposit")
	s.Require().NoError(s.db.Create(&entry).Error)

	transactions, err := s.service.ListTransactions(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(transactions, 1)
	s.Require().NotNil(transactions[0].ToAccount)
	s.Equal(account.AccountNumber, transactions[0].ToAccount.AccountNumber)
}

func (s *AdminServiceSuite) TestFreezeAndUnfreeze() {
	account := database.CreateTestAccount(s.T(), s.db, s.customer.ID, models.AccountTypeSavings, decimal.NewFromInt(1000))

	frozen, err := s.service.FreezeAccount(s.ctx, s.admin.ID, account.ID)
	s.Require().NoError(err)
	s.Equal(models.AccountStatusFrozen, frozen.Status)

	again, err := s.service.FreezeAccount(s.ctx, s.admin.ID, account.ID)
	s.Require().NoError(err)
	s.Equal(models.AccountStatusFrozen, again.Status)

	active, err := s.service.UnfreezeAccount(s.ctx, s.admin.ID, account.ID)
	s.Require().NoError(err)
	s.Equal(models.AccountStatusActive, active.Status)

	logs, total, err := s.service.GetAccountAuditTrail(s.ctx, account.ID, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal(models.AuditActionAccountUnfrozen, logs[0].Action)
	s.Equal(models.AuditActionAccountFrozen, logs[1].Action)
	s.Require().NotNil(logs[0].UserID)
	s.Equal(s.admin.ID, *logs[0].UserID)
}

func (s *AdminServiceSuite) TestFreezeAccount_NotFound() {
	account, err := s.service.FreezeAccount(s.ctx, s.admin.ID, uuid.New())

	s.Nil(account)
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *AdminServiceSuite) TestGetAccountAuditTrail_NotFound() {
	_, _, err := s.service.GetAccountAuditTrail(s.ctx, uuid.New(), 0, 10)

	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *AdminServiceSuite) TestGetAnalytics() {
	database.CreateTestAccount(s.T(), s.db, s.customer.ID, models.AccountTypeSavings, decimal.RequireFromString("1000.50"))
	frozen := database.CreateTestAccount(s.T(), s.db, s.customer.ID, models.AccountTypeCurrent, decimal.NewFromInt(5000))
	_, err := s.accountRepo.UpdateStatus(frozen.ID, models.AccountStatusFrozen)
	s.Require().NoError(err)

	analytics, err := s.service.GetAnalytics(s.ctx)

	s.Require().NoError(err)
	s.Equal(int64(1), analytics.TotalUsers)
	s.Equal(int64(2), analytics.TotalAccounts)
	s.True(decimal.RequireFromString("6000.50").Equal(analytics.TotalBalance))
	s.Zero(analytics.TotalTransactions)
}

func (s *AdminServiceSuite) TestGetAnalytics_Empty() {
	analytics, err := s.service.GetAnalytics(s.ctx)

	s.Require().NoError(err)
	s.Zero(analytics.TotalAccounts)
	s.True(analytics.TotalBalance.IsZero())
}

func (s *AdminServiceSuite) TestGetAnalytics_RepositoryError() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	userRepo := repository_mocks.NewMockUserRepositoryInterface(ctrl)
	accountRepo := repository_mocks.NewMockAccountRepositoryInterface(ctrl)
	transactionRepo := repository_mocks.NewMockTransactionRepositoryInterface(ctrl)

	userRepo.EXPECT().CountByRole(models.RoleCustomer).Return(int64(3), nil)
	accountRepo.EXPECT().Count().Return(int64(0), errors.New("connection reset"))
	accountRepo.EXPECT().TotalBalance().Return(decimal.Zero, nil)
	transactionRepo.EXPECT().Count().Return(int64(9), nil)

	service := NewAdminService(userRepo, accountRepo, transactionRepo, NewAccountLocker(),
		NewAuditService(s.auditRepo, newTestLogger()), NewAuditLogger(newTestLogger()), newTestMetrics(), newTestLogger())

	analytics, err := service.GetAnalytics(s.ctx)

	s.Nil(analytics)
	s.ErrorContains(err, "connection reset")
}
