package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kodbank/internal/config"
	"kodbank/internal/database"
	"kodbank/internal/dto"
	apierrors "kodbank/internal/errors"
	"kodbank/internal/models"
	"kodbank/internal/services"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@kodnestbank.com"
	adminPassword = "admin123"
)

// ServerSuite drives the full router against an in-memory database
type ServerSuite struct {
	suite.Suite
	db      *database.DB
	server  *Server
	handler http.Handler
	cancel  context.CancelFunc
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func testConfig(t *testing.T) *config.Config {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("generate keys: %v", err)
	}

	return &config.Config{
		Server: config.ServerConfig{
			Environment:      "testing",
			ShutdownTimeout:  time.Second,
			CORSAllowOrigins: []string{"*"},
		},
		JWT: config.JWTConfig{
			AccessTokenDuration: time.Hour,
			PrivateKey:          privateKey,
			PublicKey:           publicKey,
			Issuer:              "kodbank-test",
		},
		Security: config.SecurityConfig{
			BCryptCost:         bcrypt.MinCost,
			RateLimitPerSecond: 1000,
			RateLimitBurst:     1000,
			PasswordMinLength:  6,
		},
		Notification: config.NotificationConfig{
			Workers:   1,
			QueueSize: 32,
			Timeout:   time.Second,
		},
	}
}

func (s *ServerSuite) SetupTest() {
	cfg := testConfig(s.T())
	s.db = database.SetupTestDB(s.T())

	hash, err := services.NewPasswordService(&cfg.Security).HashPassword(adminPassword)
	s.Require().NoError(err)
	_, _, err = s.db.SeedAdminUser("Bank Admin", adminEmail, hash)
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.server = New(cfg, s.db.DB, logger)
	s.handler = s.server.Handler()

	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	s.server.StartWorkers(ctx)
}

func (s *ServerSuite) TearDownTest() {
	s.cancel()
	s.server.dispatcher.Wait()
	database.CleanupTestDB(s.T(), s.db)
}

func (s *ServerSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerSuite) decode(rec *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *ServerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp apierrors.ErrorResponse
	s.decode(rec, &resp)
	return resp.Code
}

func (s *ServerSuite) register() string {
	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     gofakeit.Name(),
		"email":    gofakeit.Email(),
		"password": "secret123",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.AuthResponse
	s.decode(rec, &resp)
	return resp.Token
}

func (s *ServerSuite) login(email, password string) string {
	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.AuthResponse
	s.decode(rec, &resp)
	return resp.Token
}

func (s *ServerSuite) openAccount(token, accountType string, deposit int64) dto.AccountResponse {
	rec := s.do(http.MethodPost, "/api/accounts/create", token, map[string]interface{}{
		"accountType":    accountType,
		"initialDeposit": deposit,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.AccountEnvelope
	s.decode(rec, &resp)
	return resp.Account
}

func (s *ServerSuite) move(token, op, accountID string, amount int64) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/api/accounts/"+op, token, map[string]interface{}{
		"accountId": accountID,
		"amount":    amount,
	})
}

func (s *ServerSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/api/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"OK"`)
	s.NotEmpty(rec.Header().Get("X-Trace-ID"))
}

func (s *ServerSuite) TestUnknownRoute() {
	rec := s.do(http.MethodGet, "/nowhere", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)

	var resp apierrors.ErrorResponse
	s.decode(rec, &resp)
	s.False(resp.Success)
	s.Equal("Route not found", resp.Message)
}

func (s *ServerSuite) TestAuthGetRoutesAskForPost() {
	for path, message := range map[string]string{
		"/api/auth/register": "Use POST to register",
		"/api/auth/login":    "Use POST to login",
	} {
		rec := s.do(http.MethodGet, path, "", nil)
		s.Equal(http.StatusMethodNotAllowed, rec.Code, path)

		var resp apierrors.ErrorResponse
		s.decode(rec, &resp)
		s.Equal(message, resp.Message)
	}
}

func (s *ServerSuite) TestDepositRejectsSubCentAmount() {
	token := s.register()
	account := s.openAccount(token, models.AccountTypeSavings, 1000)

	rec := s.do(http.MethodPost, "/api/accounts/deposit", token, map[string]interface{}{
		"accountId": account.ID.String(),
		"amount":    "0.001",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apierrors.ValidationInvalidAmount), s.errorCode(rec))
}

func (s *ServerSuite) TestSavingsFloorScenario() {
	token := s.register()
	account := s.openAccount(token, models.AccountTypeSavings, 1000)
	id := account.ID.String()

	rec := s.move(token, "withdraw", id, 500)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apierrors.AccountInsufficientBalance), s.errorCode(rec))

	rec = s.move(token, "deposit", id, 500)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.move(token, "withdraw", id, 500)
	s.Require().Equal(http.StatusOK, rec.Code)
	var balance dto.BalanceResponse
	s.decode(rec, &balance)
	s.Equal("Withdrawal successful", balance.Message)
	s.True(balance.NewBalance.Equal(decimal.NewFromInt(1000)))

	rec = s.do(http.MethodGet, "/api/transactions/"+id, token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var history dto.TransactionHistoryResponse
	s.decode(rec, &history)
	s.Len(history.Transactions, 3)
	s.True(history.TotalDeposits.Equal(decimal.NewFromInt(1500)))
	s.True(history.TotalWithdrawals.Equal(decimal.NewFromInt(500)))
}

func (s *ServerSuite) TestCreateBelowMinimum() {
	token := s.register()

	rec := s.do(http.MethodPost, "/api/accounts/create", token, map[string]interface{}{
		"accountType":    models.AccountTypeSavings,
		"initialDeposit": 999,
	})

	s.Equal(http.StatusBadRequest, rec.Code)
	var resp apierrors.ErrorResponse
	s.decode(rec, &resp)
	s.Equal("Savings account requires minimum ₹1000", resp.Message)
}

func (s *ServerSuite) TestTransferBetweenCustomers() {
	alice := s.register()
	bob := s.register()
	from := s.openAccount(alice, models.AccountTypeCurrent, 5500)
	to := s.openAccount(bob, models.AccountTypeSavings, 1000)

	rec := s.do(http.MethodPost, "/api/accounts/transfer", alice, map[string]interface{}{
		"fromAccountId":   from.ID.String(),
		"toAccountNumber": to.AccountNumber,
		"amount":          200,
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var balance dto.BalanceResponse
	s.decode(rec, &balance)
	s.True(balance.NewBalance.Equal(decimal.NewFromInt(5300)))

	rec = s.do(http.MethodGet, "/api/accounts/"+to.ID.String(), bob, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var dest dto.AccountEnvelope
	s.decode(rec, &dest)
	s.True(dest.Account.Balance.Equal(decimal.NewFromInt(1200)))

	rec = s.do(http.MethodGet, "/api/accounts/"+to.ID.String(), alice, nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/accounts/transfer", alice, map[string]interface{}{
		"fromAccountId":   from.ID.String(),
		"toAccountNumber": from.AccountNumber,
		"amount":          10,
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apierrors.TransferSameAccount), s.errorCode(rec))
}

func (s *ServerSuite) TestAdminFreezeBlocksCustomer() {
	customer := s.register()
	account := s.openAccount(customer, models.AccountTypeSavings, 1000)
	admin := s.login(adminEmail, adminPassword)

	rec := s.do(http.MethodPut, "/api/admin/accounts/"+account.ID.String()+"/freeze", admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(rec.Body.String(), "Account frozen")

	rec = s.move(customer, "deposit", account.ID.String(), 10)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apierrors.AccountFrozen), s.errorCode(rec))

	rec = s.do(http.MethodPut, "/api/admin/accounts/"+account.ID.String()+"/unfreeze", admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.move(customer, "deposit", account.ID.String(), 10)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/admin/accounts/"+account.ID.String()+"/audit", admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var trail dto.AuditTrailEnvelope
	s.decode(rec, &trail)
	s.GreaterOrEqual(trail.Total, int64(3))
}

func (s *ServerSuite) TestAdminAnalytics() {
	customer := s.register()
	s.openAccount(customer, models.AccountTypeSavings, 1000)
	s.openAccount(customer, models.AccountTypeCurrent, 5000)
	admin := s.login(adminEmail, adminPassword)

	rec := s.do(http.MethodGet, "/api/admin/analytics", admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp dto.AnalyticsEnvelope
	s.decode(rec, &resp)
	s.EqualValues(1, resp.Analytics.TotalUsers)
	s.EqualValues(2, resp.Analytics.TotalAccounts)
	s.True(resp.Analytics.TotalBalance.Equal(decimal.NewFromInt(6000)))
	s.EqualValues(2, resp.Analytics.TotalTransactions)
}

func (s *ServerSuite) TestRoleGates() {
	customer := s.register()
	admin := s.login(adminEmail, adminPassword)

	rec := s.do(http.MethodGet, "/api/admin/customers", customer, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal(string(apierrors.AuthAdminRequired), s.errorCode(rec))

	rec = s.do(http.MethodGet, "/api/accounts/my-accounts", admin, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal(string(apierrors.AuthCustomerRequired), s.errorCode(rec))

	rec = s.do(http.MethodGet, "/api/accounts/my-accounts", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Not authorized", func() string {
		var resp apierrors.ErrorResponse
		s.decode(rec, &resp)
		return resp.Message
	}())
}

func (s *ServerSuite) TestMetricsEndpoint() {
	token := s.register()
	s.openAccount(token, models.AccountTypeCurrent, 5000)

	rec := s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "accounts_created_total")
}
