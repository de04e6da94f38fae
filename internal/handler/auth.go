package handler

import (
	"context"  // provides context with cancellation for service calls
	"errors"   // sentinel error matching
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for service calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/auth-service/internal/config"  // app configuration
	"github.com/iliyamo/auth-service/internal/model"   // domain records
	"github.com/iliyamo/auth-service/internal/queue"   // registration event publishing
	"github.com/iliyamo/auth-service/internal/service" // auth core
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Auth  *service.AuthService
	Users service.UserStore
}

func NewAuthHandler(cfg config.Config, a *service.AuthService, u service.UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: a, Users: u}
}

// ----- DTOs -----

// Both operations wrap the credentials in a "user" object alongside the
// device fingerprint, matching the client contract:
// {"fingerprint": "...", "user": {...}}.

type registerUser struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
}
type registrationReq struct {
	Fingerprint string       `json:"fingerprint"`
	User        registerUser `json:"user"`
}

type loginUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Fingerprint string    `json:"fingerprint"`
	User        loginUser `json:"user"`
}

type userPart struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	DisplayName  string    `json:"display_name"`
	Bio          *string   `json:"bio"`
	VK           *string   `json:"vk"`
	Steam        *string   `json:"steam"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	IsActivated  bool      `json:"is_activated"`
	RegisteredAt time.Time `json:"registered_at"`
}
type authResp struct {
	User        userPart `json:"user"`
	AccessToken string   `json:"access_token"`
}

func toUserPart(u model.User) userPart {
	return userPart{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		DisplayName:  u.DisplayName,
		Bio:          u.Bio,
		VK:           u.VKURL,
		Steam:        u.SteamURL,
		Role:         string(u.Role),
		Status:       string(u.Status),
		IsActivated:  u.IsActivated,
		RegisteredAt: u.RegisteredAt,
	}
}

// clientIP returns the client-identifying host header used as "ip" for
// the device tuple.
func clientIP(c echo.Context) string {
	return c.Request().Host
}

// setRefreshCookie attaches the refresh token as an HTTP-only,
// same-site-strict cookie. The cookie lifetime tracks the access token
// TTL so the browser re-presents it on the next renewal.
func (h *AuthHandler) setRefreshCookie(c echo.Context, s model.RefreshSession) {
	c.SetCookie(&http.Cookie{
		Name:     "refresh_token",
		Value:    s.RefreshToken,
		MaxAge:   h.Cfg.AccessTTLMin * 60,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// Registration: create user and return tokens immediately.
func (h *AuthHandler) Registration(c echo.Context) error {
	var req registrationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid body"})
	}
	req.User.Email = strings.ToLower(strings.TrimSpace(req.User.Email))
	if req.User.Email == "" || req.User.Password == "" || req.Fingerprint == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "fingerprint and user email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Registration(ctx, service.RegistrationInput{
		Email:       req.User.Email,
		Password:    req.User.Password,
		FirstName:   req.User.FirstName,
		LastName:    req.User.LastName,
		DisplayName: req.User.DisplayName,
		Fingerprint: req.Fingerprint,
		UserAgent:   c.Request().UserAgent(),
		IP:          clientIP(c),
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUser) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Unexpected error"})
	}

	user, err := h.Users.GetByEmail(ctx, res.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Unexpected error"})
	}

	// Best-effort event; errors are logged by the publisher and never
	// fail the registration.
	_ = queue.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
		UserID:       user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		Fingerprint:  req.Fingerprint,
		IP:           clientIP(c),
		RegisteredAt: user.RegisteredAt.UTC().Format(time.RFC3339),
	})

	h.setRefreshCookie(c, res.Session)
	return c.JSON(http.StatusCreated, authResp{
		User:        toUserPart(user),
		AccessToken: res.AccessToken,
	})
}

// Login: verify credentials and return a fresh pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid body"})
	}
	req.User.Email = strings.ToLower(strings.TrimSpace(req.User.Email))
	if req.User.Email == "" || req.User.Password == "" || req.Fingerprint == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "fingerprint and user email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Login(ctx, service.LoginInput{
		Email:       req.User.Email,
		Password:    req.User.Password,
		Fingerprint: req.Fingerprint,
		UserAgent:   c.Request().UserAgent(),
		IP:          clientIP(c),
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Unexpected error"})
	}

	user, err := h.Users.GetByEmail(ctx, res.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Unexpected error"})
	}

	h.setRefreshCookie(c, res.Session)
	return c.JSON(http.StatusOK, authResp{
		User:        toUserPart(user),
		AccessToken: res.AccessToken,
	})
}

// Logout is declared for API completeness but not implemented yet.
// TODO: revoke the refresh session matching the refresh_token cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, echo.Map{"message": "not implemented"})
}

// Refresh is declared for API completeness but not implemented yet.
// TODO: exchange a valid refresh_token cookie for a new access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, echo.Map{"message": "not implemented"})
}
