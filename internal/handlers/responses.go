package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"kodbank/internal/errors"
	"kodbank/internal/services"

	"github.com/labstack/echo/v4"
)

// Handlers answer failures through SendError (4xx with a known code) or
// SendSystemError (500). Service sentinels are translated by sendServiceError.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// MessageResponse is a bare success reply
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	errorResponse := errors.NewErrorResponse(code, getTraceID(c), opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError logs err and answers 500 with its message
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	slog.Error("request failed",
		"error", err,
		"trace_id", traceID,
		"method", c.Request().Method,
		"path", c.Path(),
	)
	return c.JSON(http.StatusInternalServerError, errors.WrapSystemError(err, traceID))
}

var serviceErrorCodes = []struct {
	err  error
	code errors.ErrorCode
}{
	{services.ErrInvalidCredentials, errors.AuthInvalidCredentials},
	{services.ErrUserAlreadyExists, errors.UserAlreadyExists},
	{services.ErrUserNotFound, errors.UserNotFound},
	{services.ErrPasswordEmpty, errors.ValidationRequiredField},
	{services.ErrInvalidAccountType, errors.AccountInvalidType},
	{services.ErrInvalidAmount, errors.ValidationInvalidAmount},
	{services.ErrAccountNotFound, errors.AccountNotFound},
	{services.ErrAccountFrozen, errors.AccountFrozen},
	{services.ErrInsufficientBalance, errors.AccountInsufficientBalance},
	{services.ErrSameAccount, errors.TransferSameAccount},
	{services.ErrSourceAccountNotFound, errors.TransferSourceNotFound},
	{services.ErrSourceAccountFrozen, errors.TransferSourceFrozen},
	{services.ErrDestinationNotFound, errors.TransferDestinationNotFound},
	{services.ErrDestinationFrozen, errors.TransferDestinationFrozen},
	{services.ErrConcurrentUpdate, errors.AccountConcurrentUpdate},
	{services.ErrAccountNumberUnavailable, errors.SystemServiceUnavailable},
	{services.ErrInvalidAuditResource, errors.ValidationGeneral},
}

// sendServiceError maps a service error onto its API code. Anything unknown is a system error.
func sendServiceError(c echo.Context, err error) error {
	var minErr *services.MinimumBalanceError
	if stderrors.As(err, &minErr) {
		code := errors.AccountInsufficientBalance
		if minErr.Opening {
			code = errors.AccountBelowMinimumDeposit
		}
		return SendError(c, code, errors.WithMessage(minErr.Error()))
	}

	switch {
	case stderrors.Is(err, services.ErrPasswordTooShort):
		return SendError(c, errors.ValidationPasswordTooShort)
	case stderrors.Is(err, services.ErrPasswordTooLong):
		return SendError(c, errors.ValidationGeneral, errors.WithMessage(err.Error()))
	case stderrors.Is(err, services.ErrInvalidInitialDeposit):
		return SendError(c, errors.ValidationInvalidAmount, errors.WithMessage("Initial deposit cannot be negative"))
	}

	for _, m := range serviceErrorCodes {
		if stderrors.Is(err, m.err) {
			return SendError(c, m.code)
		}
	}

	return SendSystemError(c, err)
}
