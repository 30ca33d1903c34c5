package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/shiftbook/internal/domain"
)

// CompanyRepo stores companies scoped to an owner. List returns companies
// ordered by name.
type CompanyRepo interface {
	List(ctx context.Context, ownerID string) ([]*domain.Company, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.Company, error)
	Create(ctx context.Context, c *domain.Company) (*domain.Company, error)
	Update(ctx context.Context, ownerID, id string, patch domain.CompanyPatch) (*domain.Company, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// ShiftRepo stores shifts scoped to an owner. List returns the newest day first.
type ShiftRepo interface {
	List(ctx context.Context, ownerID string) ([]*domain.Shift, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.Shift, error)
	Create(ctx context.Context, s *domain.Shift) (*domain.Shift, error)
	Update(ctx context.Context, ownerID, id string, patch domain.ShiftPatch) (*domain.Shift, error)
	Delete(ctx context.Context, ownerID, id string) error
	DeleteByCompany(ctx context.Context, ownerID, companyID string) (int, error)
}

// UserRecord is a local account row including its password hash.
type UserRecord struct {
	User         domain.User
	PasswordHash string
}

// UserRepo backs local sign-in. Email lookups are case-insensitive.
type UserRepo interface {
	Create(ctx context.Context, u *UserRecord) error
	GetByID(ctx context.Context, id string) (*UserRecord, error)
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)
	UpdateProfile(ctx context.Context, id string, p domain.Profile) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// Access tokens issued by the local auth backend.
	CreateToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	UserIDForToken(ctx context.Context, token string, now time.Time) (string, error)
	DeleteToken(ctx context.Context, token string) error
}
