package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/utils"
)

// AuthService validates registration and login attempts against the
// user store and, on success, hands off to the TokenService for token
// issuance and session reconciliation.
type AuthService struct {
	cfg    *config.Config
	users  UserStore
	tokens *TokenService
}

func NewAuthService(cfg *config.Config, users UserStore, tokens *TokenService) *AuthService {
	return &AuthService{cfg: cfg, users: users, tokens: tokens}
}

// RegistrationInput carries everything a registration attempt needs:
// the credentials and profile fields from the request body plus the
// device context taken from the transport layer.
type RegistrationInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	DisplayName string
	Fingerprint string
	UserAgent   string
	IP          string
}

// LoginInput carries a login attempt's credentials and device context.
type LoginInput struct {
	Email       string
	Password    string
	Fingerprint string
	UserAgent   string
	IP          string
}

// AuthResult is what both flows hand back to the transport layer: the
// signed access token, the persisted refresh session and the resolved
// user email.
type AuthResult struct {
	AccessToken string
	Session     model.RefreshSession
	Email       string
}

// Registration creates a new user and issues its first token pair.
// The email must be unused; a taken email fails with ErrDuplicateUser
// and writes nothing. On success exactly one user row is created, the
// password is bcrypt-hashed and the plaintext discarded, and the
// refresh session for the device context is created or refreshed.
func (a *AuthService) Registration(ctx context.Context, in RegistrationInput) (AuthResult, error) {
	_, err := a.users.GetByEmail(ctx, in.Email)
	if err == nil {
		return AuthResult{}, ErrDuplicateUser
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("look up user: %w", err)
	}

	hash, err := utils.HashPassword(in.Password, a.cfg.BcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := a.users.Create(ctx, repository.CreateUserParams{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DisplayName:  in.DisplayName,
		Role:         model.RoleUser,
		Status:       model.StatusActive,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			// Another request won the insert between our lookup and now.
			return AuthResult{}, ErrDuplicateUser
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	return a.issue(ctx, user, in.Fingerprint, in.UserAgent, in.IP)
}

// Login authenticates an existing user and issues a fresh token pair.
// An unknown email fails with ErrUserNotFound and a wrong password
// with ErrInvalidCredentials; the two stay distinct error kinds.
// No user rows are written; the device context's refresh session is
// created or refreshed on success.
func (a *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	user, err := a.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, ErrUserNotFound
		}
		return AuthResult{}, fmt.Errorf("look up user: %w", err)
	}

	if !utils.VerifyPassword(user.PasswordHash, in.Password) {
		return AuthResult{}, ErrInvalidCredentials
	}

	// Note: user.Status is not consulted here. BANNED exists in the data
	// model but is deliberately unchecked pending a product decision on
	// whether it should block login.

	return a.issue(ctx, user, in.Fingerprint, in.UserAgent, in.IP)
}

func (a *AuthService) issue(ctx context.Context, user model.User, fingerprint, userAgent, ip string) (AuthResult, error) {
	accessToken, draft, err := a.tokens.GenerateTokens(user, fingerprint, userAgent, ip)
	if err != nil {
		return AuthResult{}, err
	}
	session, err := a.tokens.SaveToken(ctx, draft)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{AccessToken: accessToken, Session: session, Email: user.Email}, nil
}
