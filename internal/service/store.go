package service

import (
	"context"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
)

// UserStore is the persistence contract the services need for users.
// *repository.UserRepo satisfies it; tests substitute in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, p repository.CreateUserParams) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// SessionStore is the persistence contract for refresh sessions.
// Insert must report a duplicate on the device key as
// repository.ErrSessionExists, and lookups must report absence as
// repository.ErrNotFound; SaveToken's reconciliation depends on both.
type SessionStore interface {
	FindByDeviceKey(ctx context.Context, userID uint64, ip, fingerprint, userAgent string) (model.RefreshSession, error)
	GetByID(ctx context.Context, id uint64) (model.RefreshSession, error)
	Insert(ctx context.Context, s model.RefreshSession) (uint64, error)
	Update(ctx context.Context, id uint64, refreshToken string, createdAt, expiredAt time.Time) error
}
