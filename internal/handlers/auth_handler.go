package handlers

import (
	"net/http"

	"kodbank/internal/dto"
	"kodbank/internal/errors"
	"kodbank/internal/services"
	"kodbank/internal/validation"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService services.AuthServiceInterface
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
// @Summary Register a new customer
// @Description Create a customer with name, email, password and optional mobile number
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AuthResponse "User registered"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_002, VALIDATION_006 or USER_002"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationRequiredField, errors.WithDetails(validation.FormatErrors(err)...))
	}

	result, err := h.authService.Register(c.Request().Context(), &req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, newAuthResponse(result))
}

// Login handles user authentication
// @Summary Login
// @Description Exchange email and password for a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_002 - Missing fields"
// @Failure 401 {object} errors.ErrorResponse "AUTH_001 - Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationRequiredField, errors.WithDetails(validation.FormatErrors(err)...))
	}

	result, err := h.authService.Login(c.Request().Context(), &req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, newAuthResponse(result))
}

// Me returns the authenticated user's profile
// @Summary Current user
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserEnvelope
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Not authorized"
// @Failure 404 {object} errors.ErrorResponse "USER_001 - User not found"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.UserEnvelope{Success: true, User: dto.NewUserResponse(user)})
}

// UpdateProfile changes name and/or mobile of the authenticated user
// @Summary Update profile
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.UserEnvelope
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid field format"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Not authorized"
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(validation.FormatErrors(err)...))
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), userID, &req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.UserEnvelope{Success: true, User: dto.NewUserResponse(user)})
}

// UsePost answers GET on a POST-only auth endpoint with 405 and a hint
func UsePost(action string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return SendError(c, errors.SystemMethodNotAllowed, errors.WithMessage("Use POST to "+action))
	}
}

func newAuthResponse(result *dto.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Success:   true,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.NewUserResponse(result.User),
	}
}
