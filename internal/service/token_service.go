package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
)

// TokenService mints the signed access token for a user and reconciles
// the matching refresh session with storage. It is constructed with an
// explicit config reference; nothing in here reads global state.
type TokenService struct {
	cfg      *config.Config
	sessions SessionStore
}

func NewTokenService(cfg *config.Config, sessions SessionStore) *TokenService {
	return &TokenService{cfg: cfg, sessions: sessions}
}

// GenerateTokens builds a signed access token and a refresh-session
// draft for the given user and device context. It is pure computation
// over its inputs, the current time and the random token source: no
// storage is touched.
//
// The access token embeds a snapshot of the user's identity plus the
// device context it was issued to, and expires after the configured
// access TTL. The draft carries a fresh UUID token value and expires
// after the configured refresh TTL; SaveToken decides whether it
// becomes a new row or replaces an existing one.
func (s *TokenService) GenerateTokens(user model.User, fingerprint, userAgent, ip string) (string, model.RefreshSession, error) {
	method := jwt.GetSigningMethod(s.cfg.JWTAlgorithm)
	if method == nil {
		return "", model.RefreshSession{}, fmt.Errorf("unknown signing algorithm %q", s.cfg.JWTAlgorithm)
	}

	now := time.Now().UTC()
	exp := now.Add(time.Duration(s.cfg.AccessTTLMin) * time.Minute)

	var bio any
	if user.Bio != nil {
		bio = *user.Bio
	}
	claims := jwt.MapClaims{
		"user_id":      user.ID,
		"user_email":   user.Email,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"display_name": user.DisplayName,
		"user_role":    string(user.Role),
		"user_bio":     bio,
		"is_activated": user.IsActivated,
		"fingerprint":  fingerprint,
		"user_agent":   userAgent,
		"ip":           ip,
		"exp":          exp.Unix(),
		"iat":          now.Unix(),
	}
	accessToken, err := jwt.NewWithClaims(method, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", model.RefreshSession{}, fmt.Errorf("sign access token: %w", err)
	}

	draft := model.RefreshSession{
		RefreshToken: uuid.NewString(),
		UserID:       user.ID,
		IP:           ip,
		UserAgent:    userAgent,
		Fingerprint:  fingerprint,
		CreatedAt:    now,
		ExpiredAt:    now.Add(time.Duration(s.cfg.RefreshTTLMin) * time.Minute),
	}
	return accessToken, draft, nil
}

// SaveToken reconciles a refresh-session draft against storage. A row
// already holding the draft's device tuple (user_id, ip, fingerprint,
// user_agent) is overwritten in place: same row id, new token value and
// timestamps. Without such a row the draft is inserted. Either way
// exactly one row is written and the persisted session is returned.
//
// When two requests from the same device context race, the loser of the
// insert hits the unique device index; that duplicate-key failure is
// treated as "found existing row" and the update path is retried once.
func (s *TokenService) SaveToken(ctx context.Context, draft model.RefreshSession) (model.RefreshSession, error) {
	existing, err := s.sessions.FindByDeviceKey(ctx, draft.UserID, draft.IP, draft.Fingerprint, draft.UserAgent)
	switch {
	case err == nil:
		return s.replace(ctx, existing.ID, draft)
	case errors.Is(err, repository.ErrNotFound):
		// fall through to insert
	default:
		return model.RefreshSession{}, fmt.Errorf("find refresh session: %w", err)
	}

	id, err := s.sessions.Insert(ctx, draft)
	if errors.Is(err, repository.ErrSessionExists) {
		// Lost the insert race; the winning row carries our device tuple.
		existing, err = s.sessions.FindByDeviceKey(ctx, draft.UserID, draft.IP, draft.Fingerprint, draft.UserAgent)
		if err != nil {
			return model.RefreshSession{}, fmt.Errorf("find refresh session after duplicate insert: %w", err)
		}
		return s.replace(ctx, existing.ID, draft)
	}
	if err != nil {
		return model.RefreshSession{}, fmt.Errorf("insert refresh session: %w", err)
	}

	saved, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return model.RefreshSession{}, fmt.Errorf("read refresh session: %w", err)
	}
	return saved, nil
}

// replace overwrites the token value and timestamps of row id with the
// draft's values and re-reads the row so the caller sees what storage
// actually holds.
func (s *TokenService) replace(ctx context.Context, id uint64, draft model.RefreshSession) (model.RefreshSession, error) {
	if err := s.sessions.Update(ctx, id, draft.RefreshToken, draft.CreatedAt, draft.ExpiredAt); err != nil {
		return model.RefreshSession{}, fmt.Errorf("update refresh session: %w", err)
	}
	saved, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return model.RefreshSession{}, fmt.Errorf("read refresh session: %w", err)
	}
	return saved, nil
}
