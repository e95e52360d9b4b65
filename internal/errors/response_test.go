package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ResponseTestSuite defines the test suite for error responses
type ResponseTestSuite struct {
	suite.Suite
	traceID string
}

// SetupTest runs before each test
func (s *ResponseTestSuite) SetupTest() {
	s.traceID = "550e8400-e29b-41d4-a716-446655440000"
}

// TestResponseTestSuite runs the test suite
func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse_BasicUsage() {
	response := NewErrorResponse(AuthInvalidCredentials, s.traceID)

	s.False(response.Success)
	s.Equal("AUTH_001", response.Code)
	s.Equal("Invalid credentials", response.Message)
	s.Equal(s.traceID, response.TraceID)
	s.Empty(response.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_Options() {
	response := NewErrorResponse(AccountInsufficientBalance, s.traceID,
		WithMessage("Insufficient balance. Minimum Savings balance: ₹1000"),
		WithDetails("balance: 1500", "amount: 600"),
	)

	s.Equal("Insufficient balance. Minimum Savings balance: ₹1000", response.Message)
	s.Equal([]string{"balance: 1500", "amount: 600"}, response.Details)
}

func (s *ResponseTestSuite) TestNewValidationError() {
	response := NewValidationError(map[string]string{"amount": "must be greater than 0"}, s.traceID)

	s.Equal(string(ValidationGeneral), response.Code)
	s.Equal([]string{"amount: must be greater than 0"}, response.Details)
}

func (s *ResponseTestSuite) TestWrapSystemError_PassesMessageThrough() {
	response := WrapSystemError(errors.New("connection reset by peer"), s.traceID)

	s.Equal(string(SystemInternalError), response.Code)
	s.Equal("connection reset by peer", response.Message)
	s.Equal(http.StatusInternalServerError, response.GetHTTPStatus())

	s.Equal("Server error", WrapSystemError(nil, s.traceID).Message)
}

func (s *ResponseTestSuite) TestToJSON() {
	data, err := NewErrorResponse(SystemRouteNotFound, s.traceID).ToJSON()
	s.Require().NoError(err)

	var decoded map[string]interface{}
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal(false, decoded["success"])
	s.Equal("Route not found", decoded["message"])
	s.Equal("SYSTEM_005", decoded["code"])
	s.Equal(s.traceID, decoded["traceId"])
	s.NotContains(decoded, "details")
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	testCases := []struct {
		code   ErrorCode
		status int
	}{
		{ValidationInvalidAmount, http.StatusBadRequest},
		{AccountFrozen, http.StatusBadRequest},
		{AccountInsufficientBalance, http.StatusBadRequest},
		{TransferSameAccount, http.StatusBadRequest},
		{UserAlreadyExists, http.StatusBadRequest},
		{AuthMissingToken, http.StatusUnauthorized},
		{AuthUserNotFound, http.StatusUnauthorized},
		{AuthAdminRequired, http.StatusForbidden},
		{AuthCustomerRequired, http.StatusForbidden},
		{AccountNotFound, http.StatusNotFound},
		{TransferDestinationNotFound, http.StatusNotFound},
		{SystemRouteNotFound, http.StatusNotFound},
		{AccountConcurrentUpdate, http.StatusConflict},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{SystemServiceUnavailable, http.StatusServiceUnavailable},
		{SystemDatabaseError, http.StatusInternalServerError},
		{ErrorCode("UNKNOWN"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.status, GetHTTPStatus(tc.code))
		})
	}
}

func (s *ResponseTestSuite) TestClientServerClassification() {
	s.True(NewErrorResponse(AccountFrozen, s.traceID).IsClientError())
	s.False(NewErrorResponse(AccountFrozen, s.traceID).IsServerError())
	s.True(NewErrorResponse(SystemDatabaseError, s.traceID).IsServerError())
	s.Equal("[ACCOUNT_001] Account not found (trace: abc)", NewErrorResponse(AccountNotFound, "abc").String())
}
