package auth

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/shiftbook/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	// ErrSessionExpired means the stored token no longer resolves to a user.
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrConfirmationPending is returned by SignUp when the provider requires
	// the address to be confirmed before a session is issued.
	ErrConfirmationPending = errors.New("check your inbox to confirm your email address")
)

// Grant is an authenticated session issued by a Backend.
type Grant struct {
	User         domain.User `toml:"user"`
	AccessToken  string      `toml:"access_token"`
	RefreshToken string      `toml:"refresh_token"`
	ExpiresAt    time.Time   `toml:"expires_at"`
}

// Expired reports whether the grant carries an expiry that has passed.
func (g *Grant) Expired(now time.Time) bool {
	return !g.ExpiresAt.IsZero() && !now.Before(g.ExpiresAt)
}

// UserUpdate changes account metadata, the password, or both.
type UserUpdate struct {
	Profile  *domain.Profile
	Password string
}

// Backend is the identity provider behind a Session.
type Backend interface {
	SignUp(ctx context.Context, email, password string) (*Grant, error)
	SignIn(ctx context.Context, email, password string) (*Grant, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*domain.User, error)
	UpdateUser(ctx context.Context, accessToken string, update UserUpdate) (*domain.User, error)
}
