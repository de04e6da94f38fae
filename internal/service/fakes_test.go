package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
)

// In-memory store fakes. They mirror the repository contracts exactly:
// absence is repository.ErrNotFound, duplicate inserts surface the same
// sentinels the MySQL repos map 1062 onto.

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[string]model.User // keyed by email
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, p repository.CreateUserParams) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if _, ok := f.users[email]; ok {
		return model.User{}, repository.ErrEmailExists
	}
	f.nextID++
	u := model.User{
		ID:           f.nextID,
		Email:        email,
		PasswordHash: p.PasswordHash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		DisplayName:  p.DisplayName,
		Role:         p.Role,
		Status:       p.Status,
		RegisteredAt: time.Now().UTC(),
	}
	f.users[email] = u
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

type fakeSessionStore struct {
	mu       sync.Mutex
	nextID   uint64
	sessions map[uint64]model.RefreshSession

	// hideFromFind makes the next n FindByDeviceKey calls miss even
	// when a matching row exists, simulating the loser of a concurrent
	// insert race.
	hideFromFind int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[uint64]model.RefreshSession{}}
}

func (f *fakeSessionStore) FindByDeviceKey(_ context.Context, userID uint64, ip, fingerprint, userAgent string) (model.RefreshSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hideFromFind > 0 {
		f.hideFromFind--
		return model.RefreshSession{}, repository.ErrNotFound
	}
	for _, s := range f.sessions {
		if s.UserID == userID && s.IP == ip && s.Fingerprint == fingerprint && s.UserAgent == userAgent {
			return s, nil
		}
	}
	return model.RefreshSession{}, repository.ErrNotFound
}

func (f *fakeSessionStore) GetByID(_ context.Context, id uint64) (model.RefreshSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return model.RefreshSession{}, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) Insert(_ context.Context, s model.RefreshSession) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.sessions {
		if existing.UserID == s.UserID && existing.IP == s.IP &&
			existing.Fingerprint == s.Fingerprint && existing.UserAgent == s.UserAgent {
			return 0, repository.ErrSessionExists
		}
	}
	f.nextID++
	s.ID = f.nextID
	f.sessions[s.ID] = s
	return s.ID, nil
}

func (f *fakeSessionStore) Update(_ context.Context, id uint64, refreshToken string, createdAt, expiredAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.RefreshToken = refreshToken
	s.CreatedAt = createdAt
	s.ExpiredAt = expiredAt
	f.sessions[id] = s
	return nil
}

func (f *fakeSessionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}
