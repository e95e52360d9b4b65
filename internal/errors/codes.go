package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials     ErrorCode = "AUTH_001"
	AuthMissingToken           ErrorCode = "AUTH_002"
	AuthInvalidToken           ErrorCode = "AUTH_003"
	AuthUserNotFound           ErrorCode = "AUTH_004"
	AuthInsufficientPermission ErrorCode = "AUTH_005"
	AuthAdminRequired          ErrorCode = "AUTH_006"
	AuthCustomerRequired       ErrorCode = "AUTH_007"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral          ErrorCode = "VALIDATION_001"
	ValidationRequiredField    ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat    ErrorCode = "VALIDATION_003"
	ValidationInvalidAmount    ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail     ErrorCode = "VALIDATION_005"
	ValidationPasswordTooShort ErrorCode = "VALIDATION_006"
)

// User error codes (USER_*)
const (
	UserNotFound      ErrorCode = "USER_001"
	UserAlreadyExists ErrorCode = "USER_002"
)

// Account error codes (ACCOUNT_*)
const (
	AccountNotFound            ErrorCode = "ACCOUNT_001"
	AccountFrozen              ErrorCode = "ACCOUNT_002"
	AccountInsufficientBalance ErrorCode = "ACCOUNT_003"
	AccountInvalidType         ErrorCode = "ACCOUNT_004"
	AccountBelowMinimumDeposit ErrorCode = "ACCOUNT_005"
	AccountConcurrentUpdate    ErrorCode = "ACCOUNT_006"
)

// Transfer error codes (TRANSFER_*)
const (
	TransferSameAccount         ErrorCode = "TRANSFER_001"
	TransferSourceNotFound      ErrorCode = "TRANSFER_002"
	TransferSourceFrozen        ErrorCode = "TRANSFER_003"
	TransferDestinationNotFound ErrorCode = "TRANSFER_004"
	TransferDestinationFrozen   ErrorCode = "TRANSFER_005"
	TransferInvalidRequest      ErrorCode = "TRANSFER_006"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_004"
	SystemRouteNotFound      ErrorCode = "SYSTEM_005"
	SystemMethodNotAllowed   ErrorCode = "SYSTEM_006"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	AuthInvalidCredentials:     "Invalid credentials",
	AuthMissingToken:           "Not authorized",
	AuthInvalidToken:           "Invalid token",
	AuthUserNotFound:           "User not found",
	AuthInsufficientPermission: "Access denied",
	AuthAdminRequired:          "Admin access required",
	AuthCustomerRequired:       "Customer access required",

	ValidationGeneral:          "Validation failed",
	ValidationRequiredField:    "Please provide all required fields",
	ValidationInvalidFormat:    "Invalid field format",
	ValidationInvalidAmount:    "Valid accountId and amount required",
	ValidationInvalidEmail:     "Invalid email address format",
	ValidationPasswordTooShort: "Password must be at least 6 characters",

	UserNotFound:      "User not found",
	UserAlreadyExists: "Email already registered",

	AccountNotFound:            "Account not found",
	AccountFrozen:              "Account is frozen",
	AccountInsufficientBalance: "Insufficient balance",
	AccountInvalidType:         "Valid account type required (Savings or Current)",
	AccountBelowMinimumDeposit: "Initial deposit is below the account minimum",
	AccountConcurrentUpdate:    "Account was modified concurrently, please retry",

	TransferSameAccount:         "Cannot transfer to same account",
	TransferSourceNotFound:      "Source account not found",
	TransferSourceFrozen:        "Source account is frozen",
	TransferDestinationNotFound: "Destination account not found",
	TransferDestinationFrozen:   "Destination account is frozen",
	TransferInvalidRequest:      "Valid fromAccountId, toAccountNumber and amount required",

	SystemInternalError:      "Server error",
	SystemDatabaseError:      "Database error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemRouteNotFound:      "Route not found",
	SystemMethodNotAllowed:   "Method not allowed",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
