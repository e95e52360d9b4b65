package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// AuditLogger writes security and ledger events to the structured log
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	return &AuditLogger{
		logger: logger,
	}
}

func (al *AuditLogger) LogAuthEvent(ctx context.Context, eventType string, userID uuid.UUID, email string) {
	al.logger.InfoContext(ctx, "authentication event",
		slog.String("event_type", eventType),
		slog.String("user_id", userID.String()),
		slog.String("email", email),
		slog.String("ip_address", getClientIP(ctx)),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogLedgerOperation(ctx context.Context, operation string, accountID uuid.UUID, amount, newBalance string, userID uuid.UUID) {
	al.logger.InfoContext(ctx, "ledger operation",
		slog.String("event_type", "ledger_"+operation),
		slog.String("account_id", accountID.String()),
		slog.String("amount", amount),
		slog.String("new_balance", newBalance),
		slog.String("user_id", userID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogLedgerRejected(ctx context.Context, operation string, accountID uuid.UUID, reason string) {
	al.logger.WarnContext(ctx, "ledger operation rejected",
		slog.String("event_type", "ledger_rejected"),
		slog.String("operation", operation),
		slog.String("account_id", accountID.String()),
		slog.String("reason", reason),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogAccountStatusChange(ctx context.Context, accountID uuid.UUID, oldStatus, newStatus string, adminID uuid.UUID) {
	al.logger.InfoContext(ctx, "account status change",
		slog.String("event_type", "account_status_change"),
		slog.String("account_id", accountID.String()),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
		slog.String("admin_id", adminID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogNotificationDropped(ctx context.Context, kind, recipient, reason string) {
	al.logger.WarnContext(ctx, "notification dropped",
		slog.String("event_type", "notification_dropped"),
		slog.String("kind", kind),
		slog.String("recipient", recipient),
		slog.String("reason", reason),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string) {
	al.logger.WarnContext(ctx, "circuit breaker state change",
		slog.String("event_type", "circuit_breaker_state_change"),
		slog.String("service", service),
		slog.String("old_state", oldState),
		slog.String("new_state", newState),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}
