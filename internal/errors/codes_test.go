package errors

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// CodesTestSuite defines the test suite for error codes
type CodesTestSuite struct {
	suite.Suite
}

// TestCodesTestSuite runs the test suite
func TestCodesTestSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}

func (s *CodesTestSuite) TestGetErrorMessage_ValidCode() {
	testCases := []struct {
		code     ErrorCode
		expected string
	}{
		{AuthInvalidCredentials, "Invalid credentials"},
		{AuthMissingToken, "Not authorized"},
		{AuthInvalidToken, "Invalid token"},
		{AuthAdminRequired, "Admin access required"},
		{AuthCustomerRequired, "Customer access required"},
		{UserAlreadyExists, "Email already registered"},
		{AccountNotFound, "Account not found"},
		{AccountFrozen, "Account is frozen"},
		{AccountInvalidType, "Valid account type required (Savings or Current)"},
		{ValidationInvalidAmount, "Valid accountId and amount required"},
		{TransferSameAccount, "Cannot transfer to same account"},
		{TransferSourceNotFound, "Source account not found"},
		{TransferDestinationFrozen, "Destination account is frozen"},
		{SystemRouteNotFound, "Route not found"},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expected, GetErrorMessage(tc.code))
		})
	}
}

func (s *CodesTestSuite) TestGetErrorMessage_UnknownCode() {
	s.Equal("An error occurred", GetErrorMessage(ErrorCode("NOPE_999")))
}

func (s *CodesTestSuite) TestIsValidErrorCode() {
	s.True(IsValidErrorCode(AccountInsufficientBalance))
	s.True(IsValidErrorCode(SystemRateLimitExceeded))
	s.False(IsValidErrorCode(ErrorCode("")))
}

// TestAllCodesHaveMessages guards against adding a code without a default message.
func (s *CodesTestSuite) TestAllCodesHaveMessages() {
	codes := []ErrorCode{
		AuthInvalidCredentials, AuthMissingToken, AuthInvalidToken, AuthUserNotFound,
		AuthInsufficientPermission, AuthAdminRequired, AuthCustomerRequired,
		ValidationGeneral, ValidationRequiredField, ValidationInvalidFormat,
		ValidationInvalidAmount, ValidationInvalidEmail, ValidationPasswordTooShort,
		UserNotFound, UserAlreadyExists,
		AccountNotFound, AccountFrozen, AccountInsufficientBalance, AccountInvalidType,
		AccountBelowMinimumDeposit, AccountConcurrentUpdate,
		TransferSameAccount, TransferSourceNotFound, TransferSourceFrozen,
		TransferDestinationNotFound, TransferDestinationFrozen, TransferInvalidRequest,
		SystemInternalError, SystemDatabaseError, SystemServiceUnavailable,
		SystemRateLimitExceeded, SystemRouteNotFound, SystemMethodNotAllowed,
	}

	for _, code := range codes {
		s.True(IsValidErrorCode(code), "missing message for %s", code)
	}
}
