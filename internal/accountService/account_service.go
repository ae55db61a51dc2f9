package account

import (
	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const maxUsernameLength = 150

// AccountService registers users and manages their sessions
type AccountService struct {
	users  repository.UserStore
	tokens *auth.TokenManager
}

// NewAccountService creates a new AccountService instance
func NewAccountService(users repository.UserStore, tokens *auth.TokenManager) *AccountService {
	return &AccountService{
		users:  users,
		tokens: tokens,
	}
}

// Register creates a user from a registration form
func (s *AccountService) Register(ctx context.Context, in models.NewAccount) (models.User, error) {
	if in.Password != in.Confirmation {
		return models.User{}, fmt.Errorf("service: %w", auctionerrors.ErrPasswordMismatch)
	}

	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return models.User{}, fmt.Errorf("service: %w - username and password are required", auctionerrors.ErrInvalidRegistration)
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return models.User{}, fmt.Errorf("service: %w - username longer than %d characters", auctionerrors.ErrInvalidRegistration, maxUsernameLength)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("service: %w", err)
	}

	user := models.User{
		UserID:       utils.GenerateID(),
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("service: failed to register %s: %w", username, err)
	}
	return user, nil
}

// Authenticate checks a username and password pair
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, auctionerrors.ErrUserNotFound) {
		return models.User{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to look up %s: %w", username, err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}
	return user, nil
}

// IssueSession returns a signed session token for user
func (s *AccountService) IssueSession(user models.User) (string, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", fmt.Errorf("service: %w", err)
	}
	return token, nil
}

// SessionTTL is the lifetime of issued sessions
func (s *AccountService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

// ResolveIdentity maps a session token to the identity of a user that still exists
func (s *AccountService) ResolveIdentity(ctx context.Context, token string) (models.Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("service: %w", err)
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return models.Identity{}, fmt.Errorf("service: failed to resolve session of %s: %w", claims.UserID, err)
	}
	return models.IdentityOf(user), nil
}
