package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/repository"
)

// LocalTokenTTL is how long a local sign-in stays valid.
const LocalTokenTTL = 30 * 24 * time.Hour

// LocalBackend authenticates against the users table of the local database.
type LocalBackend struct {
	users repository.UserRepo
	cost  int
	now   func() time.Time
}

var _ Backend = (*LocalBackend)(nil)

func NewLocalBackend(users repository.UserRepo) *LocalBackend {
	return &LocalBackend{users: users, cost: bcrypt.DefaultCost, now: time.Now}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (b *LocalBackend) WithCost(cost int) *LocalBackend {
	b.cost = cost
	return b
}

func (b *LocalBackend) SignUp(ctx context.Context, email, password string) (*Grant, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	rec := &repository.UserRecord{
		User:         domain.User{Email: email, CreatedAt: b.now()},
		PasswordHash: string(hash),
	}
	if err := b.users.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return b.issue(ctx, rec.User)
}

func (b *LocalBackend) SignIn(ctx context.Context, email, password string) (*Grant, error) {
	rec, err := b.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return b.issue(ctx, rec.User)
}

func (b *LocalBackend) SignOut(ctx context.Context, accessToken string) error {
	return b.users.DeleteToken(ctx, accessToken)
}

func (b *LocalBackend) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	id, err := b.users.UserIDForToken(ctx, accessToken, b.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	rec, err := b.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	return &rec.User, nil
}

func (b *LocalBackend) UpdateUser(ctx context.Context, accessToken string, update UserUpdate) (*domain.User, error) {
	user, err := b.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if update.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(update.Password), b.cost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		if err := b.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return nil, err
		}
	}
	if update.Profile != nil {
		return b.users.UpdateProfile(ctx, user.ID, *update.Profile)
	}
	return user, nil
}

func (b *LocalBackend) issue(ctx context.Context, u domain.User) (*Grant, error) {
	token := uuid.New().String()
	expires := b.now().Add(LocalTokenTTL).UTC().Truncate(time.Second)
	if err := b.users.CreateToken(ctx, u.ID, token, expires); err != nil {
		return nil, err
	}
	return &Grant{User: u, AccessToken: token, ExpiresAt: expires}, nil
}
