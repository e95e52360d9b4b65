package handlers

import (
	"context"
	"net/http"

	"kodbank/internal/dto"
	"kodbank/internal/errors"
	"kodbank/internal/models"
	"kodbank/internal/services"
	"kodbank/internal/validation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService services.AccountServiceInterface
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService services.AccountServiceInterface) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// CreateAccount opens a new account for the authenticated customer
// @Summary Open an account
// @Description Open a Savings or Current account. The initial deposit must cover the type minimum.
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountRequest true "Account type and optional initial deposit"
// @Success 201 {object} dto.AccountEnvelope "Account created successfully"
// @Failure 400 {object} errors.ErrorResponse "ACCOUNT_004 or ACCOUNT_005"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /accounts/create [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.AccountInvalidType, errors.WithDetails(validation.FormatErrors(err)...))
	}

	initialDeposit := decimal.Zero
	if req.InitialDeposit != nil {
		initialDeposit = *req.InitialDeposit
	}

	account, err := h.accountService.CreateAccount(c.Request().Context(), userID, req.AccountType, initialDeposit)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.AccountEnvelope{
		Success: true,
		Message: "Account created successfully",
		Account: dto.NewAccountResponse(account),
	})
}

// GetMyAccounts lists the caller's accounts, newest first
// @Summary List my accounts
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AccountListEnvelope
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Router /accounts/my-accounts [get]
func (h *AccountHandler) GetMyAccounts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accounts, err := h.accountService.GetUserAccounts(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AccountListEnvelope{
		Success:  true,
		Accounts: dto.NewAccountResponses(accounts),
	})
}

// GetAccount returns one of the caller's accounts
// @Summary Get account
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountEnvelope
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, ok := getUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.AccountNotFound)
	}

	account, err := h.accountService.GetAccount(userID, accountID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AccountEnvelope{Success: true, Account: dto.NewAccountResponse(account)})
}

// Deposit credits one of the caller's accounts
// @Summary Deposit
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AmountRequest true "Account and amount"
// @Success 200 {object} dto.BalanceResponse "Deposit successful"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_004 or ACCOUNT_002"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 409 {object} errors.ErrorResponse "ACCOUNT_006 - Concurrent update"
// @Router /accounts/deposit [post]
func (h *AccountHandler) Deposit(c echo.Context) error {
	return h.applyAmount(c, h.accountService.Deposit, "Deposit successful")
}

// Withdraw debits one of the caller's accounts, keeping the type minimum
// @Summary Withdraw
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AmountRequest true "Account and amount"
// @Success 200 {object} dto.BalanceResponse "Withdrawal successful"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_004, ACCOUNT_002 or ACCOUNT_003"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 409 {object} errors.ErrorResponse "ACCOUNT_006 - Concurrent update"
// @Router /accounts/withdraw [post]
func (h *AccountHandler) Withdraw(c echo.Context) error {
	return h.applyAmount(c, h.accountService.Withdraw, "Withdrawal successful")
}

type amountOperation func(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (*models.Account, error)

func (h *AccountHandler) applyAmount(c echo.Context, op amountOperation, message string) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.AmountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationInvalidAmount, errors.WithDetails(validation.FormatErrors(err)...))
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return SendError(c, errors.ValidationInvalidAmount)
	}

	account, err := op(c.Request().Context(), userID, accountID, req.Amount)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BalanceResponse{
		Success:    true,
		Message:    message,
		NewBalance: account.Balance,
	})
}

// Transfer moves funds from one of the caller's accounts to any account by number
// @Summary Transfer
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.TransferRequest true "Source account, destination number and amount"
// @Success 200 {object} dto.BalanceResponse "Transfer successful"
// @Failure 400 {object} errors.ErrorResponse "TRANSFER_001, TRANSFER_003, TRANSFER_005, TRANSFER_006 or ACCOUNT_003"
// @Failure 404 {object} errors.ErrorResponse "TRANSFER_002 or TRANSFER_004"
// @Failure 409 {object} errors.ErrorResponse "ACCOUNT_006 - Concurrent update"
// @Router /accounts/transfer [post]
func (h *AccountHandler) Transfer(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.TransferRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.TransferInvalidRequest, errors.WithDetails(validation.FormatErrors(err)...))
	}

	fromAccountID, err := uuid.Parse(req.FromAccountID)
	if err != nil {
		return SendError(c, errors.TransferInvalidRequest)
	}

	source, err := h.accountService.Transfer(c.Request().Context(), userID, fromAccountID, req.ToAccountNumber, req.Amount)
	if err != nil {
		if err == services.ErrInvalidAmount {
			return SendError(c, errors.TransferInvalidRequest)
		}
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BalanceResponse{
		Success:    true,
		Message:    "Transfer successful",
		NewBalance: source.Balance,
	})
}
