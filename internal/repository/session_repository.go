package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
)

// SessionRepo persists refresh sessions keyed by the device tuple
// (user_id, ip, fingerprint, user_agent).
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

const sessionColumns = "id,refresh_token,user_id,ip,user_agent,fingerprint,created_at,expired_at"

// FindByDeviceKey returns the session matching the natural key, or
// ErrNotFound when no login from that device context is on record.
func (r *SessionRepo) FindByDeviceKey(ctx context.Context, userID uint64, ip, fingerprint, userAgent string) (model.RefreshSession, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM refresh_sessions WHERE user_id=? AND ip=? AND fingerprint=? AND user_agent=? LIMIT 1",
		userID, ip, fingerprint, userAgent))
}

// GetByID fetches a session by surrogate id.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (model.RefreshSession, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM refresh_sessions WHERE id=? LIMIT 1", id))
}

// Insert stores a new session row and returns its id. A duplicate-entry
// error on the composite device index maps to ErrSessionExists so the
// caller can recover by switching to the update path.
func (r *SessionRepo) Insert(ctx context.Context, s model.RefreshSession) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_sessions (refresh_token, user_id, ip, user_agent, fingerprint, created_at, expired_at) VALUES (?,?,?,?,?,?,?)",
		s.RefreshToken, s.UserID, s.IP, s.UserAgent, s.Fingerprint, s.CreatedAt, s.ExpiredAt)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrSessionExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update overwrites the token value and timestamps of an existing row.
// Only those three columns ever change; the device tuple of a session
// is immutable once written.
func (r *SessionRepo) Update(ctx context.Context, id uint64, refreshToken string, createdAt, expiredAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_sessions SET refresh_token=?, created_at=?, expired_at=? WHERE id=?",
		refreshToken, createdAt, expiredAt, id)
	return err
}

func (r *SessionRepo) scanOne(row *sql.Row) (model.RefreshSession, error) {
	var s model.RefreshSession
	err := row.Scan(&s.ID, &s.RefreshToken, &s.UserID, &s.IP, &s.UserAgent, &s.Fingerprint, &s.CreatedAt, &s.ExpiredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RefreshSession{}, ErrNotFound
		}
		return model.RefreshSession{}, err
	}
	return s, nil
}
