package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kodbank/internal/dto"
	"kodbank/internal/errors"
	"kodbank/internal/models"
	"kodbank/internal/services"
	"kodbank/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// AccountHandlerSuite defines the test suite for AccountHandler
type AccountHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *service_mocks.MockAccountServiceInterface
	handler     *AccountHandler
	echo        *echo.Echo
	testUserID  uuid.UUID
}

func (s *AccountHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = service_mocks.NewMockAccountServiceInterface(s.ctrl)
	s.handler = NewAccountHandler(s.mockService)

	s.echo = echo.New()
	s.echo.Validator = NewValidator()
	s.testUserID = uuid.New()
}

func (s *AccountHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAccountHandlerSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerSuite))
}

// newContext builds a request context; a non-nil userID marks it authenticated
func newContext(e *echo.Echo, method, path string, body interface{}, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		var raw []byte
		if s, ok := body.(string); ok {
			raw = []byte(s)
		} else {
			raw, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(TraceIDContextKey, "trace-test")
	if userID != uuid.Nil {
		c.Set("user_id", userID)
	}
	return c, rec
}

func decodeError(rec *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp
}

func (s *AccountHandlerSuite) account(accountType string, balance int64) *models.Account {
	return &models.Account{
		ID:            uuid.New(),
		UserID:        s.testUserID,
		AccountNumber: "KB12345678",
		AccountType:   accountType,
		Balance:       decimal.NewFromInt(balance),
		Status:        models.AccountStatusActive,
		CreatedAt:     time.Now(),
	}
}

func (s *AccountHandlerSuite) TestCreateAccount_Success() {
	account := s.account(models.AccountTypeSavings, 1500)
	s.mockService.EXPECT().
		CreateAccount(gomock.Any(), s.testUserID, models.AccountTypeSavings, decimal.NewFromInt(1500)).
		Return(account, nil)

	c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/create",
		`{"accountType":"Savings","initialDeposit":1500}`, s.testUserID)

	s.Require().NoError(s.handler.CreateAccount(c))
	s.Equal(http.StatusCreated, rec.Code)

	var resp dto.AccountEnvelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Success)
	s.Equal("Account created successfully", resp.Message)
	s.Equal(account.ID, resp.Account.ID)
	s.True(resp.Account.Balance.Equal(decimal.NewFromInt(1500)))
}

func (s *AccountHandlerSuite) TestCreateAccount_DefaultsDepositToZero() {
	s.mockService.EXPECT().
		CreateAccount(gomock.Any(), s.testUserID, models.AccountTypeCurrent, decimal.Zero).
		Return(s.account(models.AccountTypeCurrent, 0), nil)

	c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/create", `{"accountType":"Current"}`, s.testUserID)

	s.Require().NoError(s.handler.CreateAccount(c))
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *AccountHandlerSuite) TestCreateAccount_InvalidType() {
	c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/create", `{"accountType":"Checking"}`, s.testUserID)

	s.Require().NoError(s.handler.CreateAccount(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	resp := decodeError(rec)
	s.False(resp.Success)
	s.Equal(string(errors.AccountInvalidType), resp.Code)
	s.Equal("trace-test", resp.TraceID)
}

func (s *AccountHandlerSuite) TestCreateAccount_BelowMinimum() {
	s.mockService.EXPECT().
		CreateAccount(gomock.Any(), s.testUserID, models.AccountTypeSavings, decimal.NewFromInt(500)).
		Return(nil, &services.MinimumBalanceError{
			AccountType: models.AccountTypeSavings,
			Minimum:     decimal.NewFromInt(1000),
			Opening:     true,
		})

	c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/create",
		`{"accountType":"Savings","initialDeposit":500}`, s.testUserID)

	s.Require().NoError(s.handler.CreateAccount(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	resp := decodeError(rec)
	s.Equal(string(errors.AccountBelowMinimumDeposit), resp.Code)
	s.Equal("Savings account requires minimum ₹1000", resp.Message)
}

func (s *AccountHandlerSuite) TestCreateAccount_Unauthenticated() {
	c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/create", `{"accountType":"Savings"}`, uuid.Nil)

	s.Require().NoError(s.handler.CreateAccount(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(errors.AuthMissingToken), decodeError(rec).Code)
}

func (s *AccountHandlerSuite) TestGetMyAccounts() {
	accounts := []models.Account{*s.account(models.AccountTypeSavings, 1000), *s.account(models.AccountTypeCurrent, 0)}
	s.mockService.EXPECT().GetUserAccounts(s.testUserID).Return(accounts, nil)

	c, rec := newContext(s.echo, http.MethodGet, "/api/accounts/my-accounts", nil, s.testUserID)

	s.Require().NoError(s.handler.GetMyAccounts(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.AccountListEnvelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Success)
	s.Len(resp.Accounts, 2)
}

func (s *AccountHandlerSuite) TestGetAccount() {
	s.Run("found", func() {
		account := s.account(models.AccountTypeSavings, 1000)
		s.mockService.EXPECT().GetAccount(s.testUserID, account.ID).Return(account, nil)

		c, rec := newContext(s.echo, http.MethodGet, "/", nil, s.testUserID)
		c.SetParamNames("id")
		c.SetParamValues(account.ID.String())

		s.Require().NoError(s.handler.GetAccount(c))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("not owned", func() {
		accountID := uuid.New()
		s.mockService.EXPECT().GetAccount(s.testUserID, accountID).Return(nil, services.ErrAccountNotFound)

		c, rec := newContext(s.echo, http.MethodGet, "/", nil, s.testUserID)
		c.SetParamNames("id")
		c.SetParamValues(accountID.String())

		s.Require().NoError(s.handler.GetAccount(c))
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(string(errors.AccountNotFound), decodeError(rec).Code)
	})

	s.Run("malformed id", func() {
		c, rec := newContext(s.echo, http.MethodGet, "/", nil, s.testUserID)
		c.SetParamNames("id")
		c.SetParamValues("not-a-uuid")

		s.Require().NoError(s.handler.GetAccount(c))
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *AccountHandlerSuite) TestDeposit_Success() {
	account := s.account(models.AccountTypeSavings, 1500)
	s.mockService.EXPECT().
		Deposit(gomock.Any(), s.testUserID, account.ID, decimal.NewFromInt(500)).
		Return(account, nil)

	c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/deposit",
		map[string]interface{}{"accountId": account.ID.String(), "amount": 500}, s.testUserID)

	s.Require().NoError(s.handler.Deposit(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.BalanceResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Deposit successful", resp.Message)
	s.True(resp.NewBalance.Equal(decimal.NewFromInt(1500)))
}

func (s *AccountHandlerSuite) TestDeposit_RejectsNonPositiveAmount() {
	for _, amount := range []int{0, -10} {
		c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/deposit",
			map[string]interface{}{"accountId": uuid.NewString(), "amount": amount}, s.testUserID)

		s.Require().NoError(s.handler.Deposit(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(errors.ValidationInvalidAmount), decodeError(rec).Code)
	}
}

func (s *AccountHandlerSuite) TestDeposit_FrozenAccount() {
	accountID := uuid.New()
	s.mockService.EXPECT().
		Deposit(gomock.Any(), s.testUserID, accountID, decimal.NewFromInt(100)).
		Return(nil, services.ErrAccountFrozen)

	c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/deposit",
		map[string]interface{}{"accountId": accountID.String(), "amount": 100}, s.testUserID)

	s.Require().NoError(s.handler.Deposit(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.AccountFrozen), decodeError(rec).Code)
}

func (s *AccountHandlerSuite) TestWithdraw_BelowMinimum() {
	accountID := uuid.New()
	s.mockService.EXPECT().
		Withdraw(gomock.Any(), s.testUserID, accountID, decimal.NewFromInt(500)).
		Return(nil, &services.MinimumBalanceError{AccountType: models.AccountTypeSavings, Minimum: decimal.NewFromInt(1000)})

	c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/withdraw",
		map[string]interface{}{"accountId": accountID.String(), "amount": 500}, s.testUserID)

	s.Require().NoError(s.handler.Withdraw(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	resp := decodeError(rec)
	s.Equal(string(errors.AccountInsufficientBalance), resp.Code)
	s.Equal("Insufficient balance. Minimum Savings balance: ₹1000", resp.Message)
}

func (s *AccountHandlerSuite) TestWithdraw_ConcurrentUpdate() {
	accountID := uuid.New()
	s.mockService.EXPECT().
		Withdraw(gomock.Any(), s.testUserID, accountID, decimal.NewFromInt(10)).
		Return(nil, services.ErrConcurrentUpdate)

	c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/withdraw",
		map[string]interface{}{"accountId": accountID.String(), "amount": 10}, s.testUserID)

	s.Require().NoError(s.handler.Withdraw(c))
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *AccountHandlerSuite) TestTransfer_Success() {
	source := s.account(models.AccountTypeCurrent, 300)
	s.mockService.EXPECT().
		Transfer(gomock.Any(), s.testUserID, source.ID, "KB87654321", decimal.NewFromInt(200)).
		Return(source, nil)

	c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/transfer", map[string]interface{}{
		"fromAccountId":   source.ID.String(),
		"toAccountNumber": "KB87654321",
		"amount":          200,
	}, s.testUserID)

	s.Require().NoError(s.handler.Transfer(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.BalanceResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Transfer successful", resp.Message)
	s.True(resp.NewBalance.Equal(decimal.NewFromInt(300)))
}

func (s *AccountHandlerSuite) TestTransfer_MissingFields() {
	c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/transfer",
		map[string]interface{}{"fromAccountId": uuid.NewString(), "amount": 50}, s.testUserID)

	s.Require().NoError(s.handler.Transfer(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.TransferInvalidRequest), decodeError(rec).Code)
}

func (s *AccountHandlerSuite) TestTransfer_ErrorMapping() {
	testCases := []struct {
		name   string
		err    error
		status int
		code   errors.ErrorCode
	}{
		{"same account", services.ErrSameAccount, http.StatusBadRequest, errors.TransferSameAccount},
		{"source missing", services.ErrSourceAccountNotFound, http.StatusNotFound, errors.TransferSourceNotFound},
		{"source frozen", services.ErrSourceAccountFrozen, http.StatusBadRequest, errors.TransferSourceFrozen},
		{"destination missing", services.ErrDestinationNotFound, http.StatusNotFound, errors.TransferDestinationNotFound},
		{"destination frozen", services.ErrDestinationFrozen, http.StatusBadRequest, errors.TransferDestinationFrozen},
		{"unexpected", stdError("connection reset"), http.StatusInternalServerError, errors.SystemInternalError},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			fromID := uuid.New()
			s.mockService.EXPECT().
				Transfer(gomock.Any(), s.testUserID, fromID, "KB00000001", decimal.NewFromInt(5)).
				Return(nil, tc.err)

			c, rec := newContext(s.echo, http.MethodPost, "/api/accounts/transfer", map[string]interface{}{
				"fromAccountId":   fromID.String(),
				"toAccountNumber": "KB00000001",
				"amount":          5,
			}, s.testUserID)

			s.Require().NoError(s.handler.Transfer(c))
			s.Equal(tc.status, rec.Code)
			s.Equal(string(tc.code), decodeError(rec).Code)
		})
	}
}

type stdError string

func (e stdError) Error() string { return string(e) }
