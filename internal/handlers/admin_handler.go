package handlers

import (
	"context"
	"net/http"

	"kodbank/internal/dto"
	"kodbank/internal/errors"
	"kodbank/internal/models"
	"kodbank/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const defaultAuditPageSize = 20

// AdminHandler handles admin-related endpoints
type AdminHandler struct {
	adminService services.AdminServiceInterface
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService services.AdminServiceInterface) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListCustomers lists every customer, newest first
// @Summary List customers (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CustomerListEnvelope
// @Failure 403 {object} errors.ErrorResponse "AUTH_006 - Admin access required"
// @Router /admin/customers [get]
func (h *AdminHandler) ListCustomers(c echo.Context) error {
	users, err := h.adminService.ListCustomers(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CustomerListEnvelope{
		Success:   true,
		Customers: dto.NewUserResponses(users),
	})
}

// ListAccounts lists every account with its owner
// @Summary List accounts (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AdminAccountListEnvelope
// @Failure 403 {object} errors.ErrorResponse "AUTH_006 - Admin access required"
// @Router /admin/accounts [get]
func (h *AdminHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.adminService.ListAccounts(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AdminAccountListEnvelope{
		Success:  true,
		Accounts: dto.NewAdminAccountResponses(accounts),
	})
}

// ListTransactions lists the most recent ledger entries across all accounts
// @Summary List transactions (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AdminTransactionListEnvelope
// @Failure 403 {object} errors.ErrorResponse "AUTH_006 - Admin access required"
// @Router /admin/transactions [get]
func (h *AdminHandler) ListTransactions(c echo.Context) error {
	transactions, err := h.adminService.ListTransactions(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AdminTransactionListEnvelope{
		Success:      true,
		Transactions: dto.NewAdminTransactionResponses(transactions),
	})
}

// GetAnalytics returns bank-wide totals
// @Summary Analytics (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AnalyticsEnvelope
// @Failure 403 {object} errors.ErrorResponse "AUTH_006 - Admin access required"
// @Router /admin/analytics [get]
func (h *AdminHandler) GetAnalytics(c echo.Context) error {
	analytics, err := h.adminService.GetAnalytics(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AnalyticsEnvelope{Success: true, Analytics: *analytics})
}

// FreezeAccount blocks all money movement on an account
// @Summary Freeze account (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountStatusEnvelope "Account frozen"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /admin/accounts/{id}/freeze [put]
func (h *AdminHandler) FreezeAccount(c echo.Context) error {
	return h.changeStatus(c, h.adminService.FreezeAccount, "Account frozen")
}

// UnfreezeAccount reactivates a frozen account
// @Summary Unfreeze account (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountStatusEnvelope "Account unfrozen"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /admin/accounts/{id}/unfreeze [put]
func (h *AdminHandler) UnfreezeAccount(c echo.Context) error {
	return h.changeStatus(c, h.adminService.UnfreezeAccount, "Account unfrozen")
}

type statusOperation func(ctx context.Context, adminID, accountID uuid.UUID) (*models.Account, error)

func (h *AdminHandler) changeStatus(c echo.Context, op statusOperation, message string) error {
	adminID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, ok := getUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.AccountNotFound)
	}

	account, err := op(c.Request().Context(), adminID, accountID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AccountStatusEnvelope{
		Success: true,
		Message: message,
		Account: dto.NewAccountResponse(account),
	})
}

// GetAccountAuditTrail pages through the audit records of one account
// @Summary Account audit trail (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Account ID"
// @Param offset query int false "Records to skip" default(0)
// @Param limit query int false "Page size (max 100)" default(20)
// @Success 200 {object} dto.AuditTrailEnvelope
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /admin/accounts/{id}/audit [get]
func (h *AdminHandler) GetAccountAuditTrail(c echo.Context) error {
	accountID, ok := getUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.AccountNotFound)
	}

	offset := getIntParam(c, "offset", 0)
	limit := getIntParam(c, "limit", defaultAuditPageSize)

	logs, total, err := h.adminService.GetAccountAuditTrail(c.Request().Context(), accountID, offset, limit)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AuditTrailEnvelope{
		Success: true,
		Logs:    logs,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
	})
}
