package handlers

import (
	"net/http"

	"kodbank/internal/dto"
	"kodbank/internal/errors"
	"kodbank/internal/services"

	"github.com/labstack/echo/v4"
)

// TransactionHandler serves the per-account history
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// GetHistory returns the recent ledger entries of an account with windowed totals
// @Summary Transaction history
// @Description The 50 most recent entries touching the account. Totals are computed over the same window.
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param accountId path string true "Account ID"
// @Success 200 {object} dto.TransactionHistoryResponse
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /transactions/{accountId} [get]
func (h *TransactionHandler) GetHistory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, ok := getUUIDParam(c, "accountId")
	if !ok {
		return SendError(c, errors.AccountNotFound)
	}

	history, err := h.transactionService.GetTransactionHistory(c.Request().Context(), userID, accountID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewTransactionHistoryResponse(history))
}
