package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/krodas7/constructora-backend/internal/domain/identity"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
	"github.com/krodas7/constructora-backend/internal/infrastructure/auth"
)

// AuthService handles login, token validation and account management
type AuthService struct {
	userRepo   identity.Repository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.Repository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger.Named("auth"),
	}
}

// LoginResult carries the issued token and the authenticated user
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *identity.User `json:"user"`
}

// Login verifies credentials and issues a signed token. Unknown usernames
// and wrong passwords return the same error so probes learn nothing.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	invalid := shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("login for unknown username", zap.String("username", username))
			return nil, invalid
		}
		return nil, err
	}
	if !user.Active {
		s.logger.Warn("login for deactivated account", zap.String("username", username))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}
	if !user.CheckPassword(password) {
		s.logger.Warn("login with wrong password", zap.String("username", username))
		return nil, invalid
	}

	token, err := s.jwtService.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("username", username), zap.String("role", user.Role))
	return &LoginResult{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      user,
	}, nil
}

// Validate checks a token and loads its user
func (s *AuthService) Validate(ctx context.Context, token string) (*identity.User, error) {
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, auth.ErrInvalidClaims
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}
	return user, nil
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, username, password, fullName, email, role string) (*identity.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, shared.NewDomainError("DUPLICATE_USERNAME", "Username is already taken")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(username, password, role)
	if err != nil {
		return nil, err
	}
	user.FullName = fullName
	user.Email = email

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("username", username), zap.String("role", role))
	return user, nil
}

// ChangePassword replaces a user's password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(current) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := user.SetPassword(next); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}
