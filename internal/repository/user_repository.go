package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/auth-service/internal/model"
)

// UserRepo persists and loads rows of the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// CreateUserParams carries the column values for a new user row. The
// password arrives already hashed; this layer never sees a plaintext.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	DisplayName  string
	Role         model.UserRole
	Status       model.UserStatus
}

const userColumns = "id,email,password_hash,first_name,last_name,display_name,bio,vk_url,steam_url,role,status,is_activated,registered_at"

// Create inserts a user and returns the stored row. The unique email
// index is the authority on uniqueness; a duplicate-entry error maps
// to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, p CreateUserParams) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, display_name, role, status) VALUES (?,?,?,?,?,?,?)",
		email, p.PasswordHash, p.FirstName, p.LastName, p.DisplayName, string(p.Role), string(p.Status))
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email. Absence is reported
// as ErrNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u                    model.User
		bio, vkURL, steamURL sql.NullString
		role, status         string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.DisplayName,
		&bio, &vkURL, &steamURL, &role, &status, &u.IsActivated, &u.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	if bio.Valid {
		u.Bio = &bio.String
	}
	if vkURL.Valid {
		u.VKURL = &vkURL.String
	}
	if steamURL.Valid {
		u.SteamURL = &steamURL.String
	}
	u.Role = model.UserRole(role)
	u.Status = model.UserStatus(status)
	return u, nil
}
