package identity

import (
	"context"
	"errors"

	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/shared"
	"github.com/rently/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles registration and authentication
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a new account with the default role. Duplicate
// usernames or emails are rejected.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserResponse, error) {
	if existing, err := s.userRepo.FindByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	response := ToUserResponse(user)
	return &response, nil
}

// Login authenticates a user and returns a token pair. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("login attempt for unknown user", zap.String("username", input.Username))
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("failed login attempt", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return nil, shared.ErrInternal
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID))

	return &LoginResult{
		User:   ToUserResponse(user),
		Tokens: tokens,
	}, nil
}

// Refresh issues a new token pair for a valid refresh token, re-resolving
// the user's current role so revocations take effect.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized.WithMessage("Invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized.WithMessage("Account no longer exists")
		}
		return nil, err
	}

	tokens, err := s.jwtService.RefreshTokenPair(refreshToken, user.Username, string(user.Role))
	if err != nil {
		return nil, shared.ErrUnauthorized.WithMessage("Refresh token can no longer be used")
	}
	return tokens, nil
}

// Me returns the profile of the authenticated principal.
func (s *AuthService) Me(ctx context.Context, principal identity.Principal) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes the principal's password after verifying the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, principal identity.Principal, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, principal.UserID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password changed", zap.Uint("user_id", user.ID))
	return nil
}
