package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alexanderramin/shiftbook/internal/auth"
	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/repository"
)

// AuthBackend implements auth.Backend on the hosted GoTrue API.
type AuthBackend struct {
	client *Client
	now    func() time.Time
}

var _ auth.Backend = (*AuthBackend)(nil)

func NewAuthBackend(client *Client) *AuthBackend {
	return &AuthBackend{client: client, now: time.Now}
}

type userMetadata struct {
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type userPayload struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	CreatedAt    time.Time    `json:"created_at"`
	UserMetadata userMetadata `json:"user_metadata"`
}

func (u userPayload) toDomain() *domain.User {
	return &domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.UserMetadata.Name,
		AvatarURL: u.UserMetadata.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// sessionPayload is a token response. Sign-up without auto-confirm returns
// a bare user, which lands in the embedded fields instead.
type sessionPayload struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         *userPayload `json:"user"`
	userPayload
}

func (b *AuthBackend) grant(p sessionPayload) *auth.Grant {
	u := p.User
	if u == nil {
		u = &p.userPayload
	}
	g := &auth.Grant{
		User:         *u.toDomain(),
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
	}
	switch {
	case p.ExpiresAt > 0:
		g.ExpiresAt = time.Unix(p.ExpiresAt, 0).UTC()
	case p.ExpiresIn > 0:
		g.ExpiresAt = b.now().Add(time.Duration(p.ExpiresIn) * time.Second).UTC()
	}
	return g
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (b *AuthBackend) SignUp(ctx context.Context, email, password string) (*auth.Grant, error) {
	var p sessionPayload
	err := b.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   credentials{Email: email, Password: password},
	}, &p)
	if err != nil {
		return nil, authError(err)
	}
	g := b.grant(p)
	if g.AccessToken == "" {
		return g, auth.ErrConfirmationPending
	}
	return g, nil
}

func (b *AuthBackend) SignIn(ctx context.Context, email, password string) (*auth.Grant, error) {
	var p sessionPayload
	err := b.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentials{Email: email, Password: password},
	}, &p)
	if err != nil {
		return nil, authError(err)
	}
	return b.grant(p), nil
}

func (b *AuthBackend) SignOut(ctx context.Context, accessToken string) error {
	err := b.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  accessToken,
	}, nil)
	if err != nil {
		// An already-invalid token is as signed out as it gets.
		if errors.Is(err, repository.ErrPermission) || errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

func (b *AuthBackend) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	var u userPayload
	err := b.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		token:  accessToken,
	}, &u)
	if err != nil {
		return nil, authError(err)
	}
	return u.toDomain(), nil
}

func (b *AuthBackend) UpdateUser(ctx context.Context, accessToken string, update auth.UserUpdate) (*domain.User, error) {
	body := map[string]any{}
	if update.Profile != nil {
		body["data"] = userMetadata{Name: update.Profile.Name, AvatarURL: update.Profile.AvatarURL}
	}
	if update.Password != "" {
		body["password"] = update.Password
	}

	var u userPayload
	err := b.client.do(ctx, request{
		method: http.MethodPut,
		path:   "/auth/v1/user",
		token:  accessToken,
		body:   body,
	}, &u)
	if err != nil {
		return nil, authError(err)
	}
	return u.toDomain(), nil
}

// authError maps GoTrue error codes onto the auth sentinels.
func authError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case "invalid_grant", "invalid_credentials":
		return fmt.Errorf("%w: %s", auth.ErrInvalidCredentials, apiErr.Message)
	case "user_already_exists", "email_exists":
		return fmt.Errorf("%w: %s", auth.ErrEmailTaken, apiErr.Message)
	case "bad_jwt", "session_not_found", "user_not_found":
		return fmt.Errorf("%w: %s", auth.ErrSessionExpired, apiErr.Message)
	}
	if apiErr.Status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", auth.ErrSessionExpired, apiErr.Message)
	}
	return err
}
