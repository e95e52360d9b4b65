package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kodbank/internal/models"
	"kodbank/internal/repositories"

	"github.com/google/uuid"
)

const maxAuditPageSize = 100

var ErrInvalidAuditResource = errors.New("audit resource is required")

// AuditService persists audit rows. A failed write is logged and never
// reaches the operation being audited.
type AuditService struct {
	repo   repositories.AuditLogRepositoryInterface
	logger *slog.Logger
}

func NewAuditService(repo repositories.AuditLogRepositoryInterface, logger *slog.Logger) AuditServiceInterface {
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

func (s *AuditService) Record(ctx context.Context, userID *uuid.UUID, action, resource, resourceID string, metadata map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  getClientIP(ctx),
	}

	for key, value := range metadata {
		entry.SetMetadata(key, value)
	}
	if correlationID := getCorrelationID(ctx); correlationID != "" {
		entry.SetMetadata("correlation_id", correlationID)
	}

	if err := s.repo.Create(entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to write audit log",
			slog.String("action", action),
			slog.String("resource", resource),
			slog.String("resource_id", resourceID),
			slog.String("error", err.Error()),
		)
	}
}

// GetResourceHistory pages through the audit rows of one resource, newest first
func (s *AuditService) GetResourceHistory(resource, resourceID string, offset, limit int) ([]*models.AuditLog, int64, error) {
	if resource == "" || resourceID == "" {
		return nil, 0, ErrInvalidAuditResource
	}

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	logs, total, err := s.repo.GetByResource(resource, resourceID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get audit history: %w", err)
	}

	return logs, total, nil
}
