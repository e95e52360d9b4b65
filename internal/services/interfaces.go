package services

import (
	"context"
	"time"

	"kodbank/internal/dto"
	"kodbank/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountServiceInterface defines account-related business operations
type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, accountType string, initialDeposit decimal.Decimal) (*models.Account, error)
	GetUserAccounts(userID uuid.UUID) ([]models.Account, error)
	GetAccount(userID, accountID uuid.UUID) (*models.Account, error)
	Deposit(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (*models.Account, error)
	Withdraw(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (*models.Account, error)
	Transfer(ctx context.Context, userID, fromAccountID uuid.UUID, toAccountNumber string, amount decimal.Decimal) (*models.Account, error)
}

// TransactionServiceInterface exposes the windowed history of an account
type TransactionServiceInterface interface {
	GetTransactionHistory(ctx context.Context, userID, accountID uuid.UUID) (*models.TransactionHistory, error)
}

// AdminServiceInterface defines the bank-wide operations reserved to administrators
type AdminServiceInterface interface {
	ListCustomers(ctx context.Context) ([]models.User, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	FreezeAccount(ctx context.Context, adminID, accountID uuid.UUID) (*models.Account, error)
	UnfreezeAccount(ctx context.Context, adminID, accountID uuid.UUID) (*models.Account, error)
	GetAccountAuditTrail(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	GetAnalytics(ctx context.Context) (*models.Analytics, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error)
	GetProfile(userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error)
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// AuditServiceInterface persists the audit trail. Recording never fails the caller.
type AuditServiceInterface interface {
	Record(ctx context.Context, userID *uuid.UUID, action, resource, resourceID string, metadata map[string]interface{})
	GetResourceHistory(resource, resourceID string, offset, limit int) ([]*models.AuditLog, int64, error)
}

type AuditLoggerInterface interface {
	LogAuthEvent(ctx context.Context, eventType string, userID uuid.UUID, email string)
	LogLedgerOperation(ctx context.Context, operation string, accountID uuid.UUID, amount, newBalance string, userID uuid.UUID)
	LogLedgerRejected(ctx context.Context, operation string, accountID uuid.UUID, reason string)
	LogAccountStatusChange(ctx context.Context, accountID uuid.UUID, oldStatus, newStatus string, adminID uuid.UUID)
	LogNotificationDropped(ctx context.Context, kind, recipient, reason string)
	LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}

// NotifierInterface accepts alerts for background delivery. Enqueue never blocks.
type NotifierInterface interface {
	Enqueue(ctx context.Context, notification models.Notification) bool
}

// MailSenderInterface delivers one message
type MailSenderInterface interface {
	Send(ctx context.Context, to, subject, body string) error
}
