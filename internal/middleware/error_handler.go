package middleware

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"kodbank/internal/errors"
	"kodbank/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewHTTPErrorHandler returns the echo error handler for everything a handler
// did not answer itself. API errors are counted on reg by code, route and status.
func NewHTTPErrorHandler(reg prometheus.Registerer) echo.HTTPErrorHandler {
	apiErrorsTotal := promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of API errors by code, endpoint, and status",
		},
		[]string{"code", "endpoint", "status"},
	)

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		traceID := GetTraceID(c)
		errorResponse := buildErrorResponse(err, traceID)
		httpStatus := errorResponse.GetHTTPStatus()

		var echoErr *echo.HTTPError
		if stderrors.As(err, &echoErr) {
			httpStatus = echoErr.Code
		}

		logLevel := slog.LevelWarn
		if httpStatus >= http.StatusInternalServerError {
			logLevel = slog.LevelError
		}

		slog.Log(c.Request().Context(), logLevel, "HTTP error occurred",
			"trace_id", traceID,
			"error_code", errorResponse.Code,
			"status", httpStatus,
			"path", c.Request().URL.Path,
			"method", c.Request().Method,
			"error", err.Error(),
		)

		apiErrorsTotal.WithLabelValues(errorResponse.Code, c.Path(), strconv.Itoa(httpStatus)).Inc()

		if sendErr := c.JSON(httpStatus, errorResponse); sendErr != nil {
			slog.Error("Failed to send error response",
				"trace_id", traceID,
				"error", sendErr.Error(),
			)
		}
	}
}

func buildErrorResponse(err error, traceID string) *errors.ErrorResponse {
	var echoErr *echo.HTTPError
	if stderrors.As(err, &echoErr) {
		code := mapHTTPStatusToErrorCode(echoErr.Code)
		opts := []errors.ErrorOption{}
		// Route and method misses keep their own wording.
		if code != errors.SystemRouteNotFound && code != errors.SystemMethodNotAllowed {
			opts = append(opts, errors.WithMessage(fmt.Sprintf("%v", echoErr.Message)))
		}
		return errors.NewErrorResponse(code, traceID, opts...)
	}

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		return errors.NewErrorResponse(errors.ValidationGeneral, traceID,
			errors.WithDetails(validation.FormatErrors(validationErrs)...))
	}

	return errors.WrapSystemError(err, traceID)
}

// mapHTTPStatusToErrorCode maps HTTP status codes to error codes
func mapHTTPStatusToErrorCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return errors.ValidationGeneral
	case http.StatusUnauthorized:
		return errors.AuthMissingToken
	case http.StatusForbidden:
		return errors.AuthInsufficientPermission
	case http.StatusNotFound:
		return errors.SystemRouteNotFound
	case http.StatusMethodNotAllowed:
		return errors.SystemMethodNotAllowed
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	default:
		return errors.SystemInternalError
	}
}
