package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"kodbank/internal/dto"
	"kodbank/internal/models"
	"kodbank/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles registration, login and profile management
type AuthService struct {
	userRepo        repositories.UserRepositoryInterface
	passwordService PasswordServiceInterface
	tokenService    TokenServiceInterface
	auditService    AuditServiceInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		auditService:    auditService,
		auditLogger:     auditLogger,
		metrics:         metrics,
		logger:          logger,
	}
}

// Register creates a customer and signs them in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResult, error) {
	if err := s.passwordService.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        models.NormalizeEmail(req.Email),
		PasswordHash: hashedPassword,
		Role:         models.RoleCustomer,
		Mobile:       strings.TrimSpace(req.Mobile),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrEmailAlreadyExists) {
			s.recordAuthEvent(ctx, "registration_failed", uuid.Nil, user.Email)
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	result, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.recordAuthEvent(ctx, "registration", user.ID, user.Email)
	s.auditService.Record(ctx, &user.ID, models.AuditActionRegister, models.AuditResourceUser, user.ID.String(), nil)

	return result, nil
}

// Login verifies credentials. Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.recordAuthEvent(ctx, "login_failed", uuid.Nil, models.NormalizeEmail(req.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.passwordService.ComparePassword(req.Password, user.PasswordHash) {
		s.recordAuthEvent(ctx, "login_failed", user.ID, user.Email)
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.recordAuthEvent(ctx, "login", user.ID, user.Email)
	s.auditService.Record(ctx, &user.ID, models.AuditActionLogin, models.AuditResourceUser, user.ID.String(), nil)

	return result, nil
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the name and mobile number. Omitted fields keep their value.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Mobile != nil {
		fields["mobile"] = strings.TrimSpace(*req.Mobile)
	}

	if err := s.userRepo.UpdateFields(userID, fields); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		changed := make([]string, 0, len(fields))
		for field := range fields {
			changed = append(changed, field)
		}
		sort.Strings(changed)
		s.auditService.Record(ctx, &userID, models.AuditActionProfileUpdated, models.AuditResourceUser, userID.String(),
			map[string]interface{}{"fields": strings.Join(changed, ",")})
	}

	return user, nil
}

func (s *AuthService) issueToken(user *models.User) (*dto.AuthResult, error) {
	token, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &dto.AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *AuthService) recordAuthEvent(ctx context.Context, eventType string, userID uuid.UUID, email string) {
	s.auditLogger.LogAuthEvent(ctx, eventType, userID, email)
	s.metrics.IncrementCounter(MetricAuthenticationEvent, map[string]string{"event_type": eventType})
}
