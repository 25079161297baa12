package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/zreport/backend/internal/domain/identity"
	"github.com/zreport/backend/internal/domain/shared"
	"github.com/zreport/backend/internal/infrastructure/auth"
	"github.com/zreport/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Error codes returned by AuthService
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. blacklist may be nil,
// in which case Logout only logs.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := logger.Or(ctx, s.logger)

	email, err := identity.NormalizeEmail(input.Email)
	if err != nil {
		log.Warn("Login attempt with malformed email")
		return nil, invalidCredentials()
	}
	log.Info("Login attempt", zap.String("email", email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("User not found during login", zap.String("email", email))
			return nil, invalidCredentials()
		}
		log.Error("Failed to load user during login", zap.Error(err))
		return nil, shared.NewDomainError(CodeInternalError, "Failed to load user")
	}

	if !user.VerifyPassword(input.Password) {
		log.Warn("Invalid password attempt", zap.String("email", email))
		return nil, invalidCredentials()
	}

	if !user.CanLogin() {
		log.Warn("Login attempt for inactive account", zap.String("email", email))
		return nil, shared.NewDomainError(CodeAccountInactive, "Account is not active")
	}

	token, err := s.jwtService.GenerateAccessToken(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role.String(),
	})
	if err != nil {
		log.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError(CodeInternalError, "Failed to generate authentication token")
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the token is already valid, a stale last-login stamp is not worth failing the login
		log.Error("Failed to record login", zap.Error(err))
	}

	log.Info("User logged in successfully",
		zap.String("email", email),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User:        toUserInfo(user),
	}, nil
}

// Me returns the current user's information
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError(CodeAccountInactive, "Account is not active")
	}
	info := toUserInfo(user)
	return &info, nil
}

// Logout revokes the token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	log := logger.Or(ctx, s.logger)
	log.Info("User logout", zap.String("user_id", input.UserID.String()))

	if s.blacklist == nil || input.TokenJTI == "" {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.RemainingTTL); err != nil {
		log.Error("Failed to blacklist token", zap.Error(err))
		return shared.NewDomainError(CodeInternalError, "Failed to revoke token")
	}
	return nil
}

// IsRevoked reports whether the token id has been logged out
func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.blacklist == nil || jti == "" {
		return false, nil
	}
	return s.blacklist.IsBlacklisted(ctx, jti)
}

// EnsureUser creates the account when no user has its email. It never
// touches an existing account.
func (s *AuthService) EnsureUser(ctx context.Context, input EnsureUserInput) (created bool, err error) {
	email, err := identity.NormalizeEmail(input.Email)
	if err != nil {
		return false, err
	}

	_, err = s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return false, err
	}

	user, err := identity.NewUser(email, input.Password, input.Role)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return false, err
	}
	logger.Or(ctx, s.logger).Info("User created",
		zap.String("email", email),
		zap.String("role", input.Role.String()))
	return true, nil
}

func invalidCredentials() error {
	return shared.NewDomainError(CodeInvalidCredentials, "Invalid email or password")
}
