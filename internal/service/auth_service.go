package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/internal/security/auth"
	"github.com/yourorg/rentledger/internal/validation"
)

// tokenTTL is how long an issued session token stays valid.
const tokenTTL = 15 * time.Minute

// AuthService handles account registration and login.
type AuthService struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo domain.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{userRepo: userRepo, tokens: tokens, logger: logger}
}

// LoginResult is the response to a successful login.
type LoginResult struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	RefID     *int64 `json:"ref_id,omitempty"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
	TokenType string `json:"token_type"`
}

// Signup creates a new user account. The role must be one of admin,
// owner or tenant; refID optionally links the account to an owner or
// tenant record and is never required to exist.
func (s *AuthService) Signup(ctx context.Context, username, password string, role domain.Role, refID *int64) (*domain.UserAccount, error) {
	if !validation.NonEmptyText(username) {
		return nil, validation.Errorf("username", "must not be empty")
	}
	if len(password) < 8 {
		return nil, validation.Errorf("password", "must be at least 8 characters")
	}
	if !role.Valid() {
		return nil, validation.Errorf("role", "must be admin, owner or tenant, got %q", role)
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, errors.New("failed to create account")
	}

	user := &domain.UserAccount{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		RefID:        refID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, errors.New("failed to create account")
	}

	s.logger.Info("account created",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// Login authenticates a user and issues a session token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("login attempt for unknown username", slog.String("username", username))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("username", username))
		return nil, domain.ErrInvalidCredentials
	}

	actor := domain.Actor{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RefID:    user.RefID,
	}
	token, err := s.tokens.GenerateToken(actor, tokenTTL)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, errors.New("failed to generate token")
	}

	s.logger.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return &LoginResult{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		RefID:     user.RefID,
		Token:     token,
		ExpiresIn: int(tokenTTL.Seconds()),
		TokenType: "Bearer",
	}, nil
}
