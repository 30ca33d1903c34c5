package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftbook/internal/db"
	"github.com/alexanderramin/shiftbook/internal/domain"
)

const userColumns = `id, email, password_hash, name, avatar_url, created_at`

// SQLiteUserRepo implements UserRepo for the local auth backend.
type SQLiteUserRepo struct {
	db db.DBTX
}

func NewSQLiteUserRepo(db db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, u *UserRecord) error {
	u.User.ID = newID(u.User.ID)
	u.User.Email = strings.TrimSpace(u.User.Email)
	u.User.CreatedAt = createdAt(u.User.CreatedAt)

	query := `INSERT INTO users (` + userColumns + `, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.User.ID,
		u.User.Email,
		u.PasswordHash,
		u.User.Name,
		u.User.AvatarURL,
		formatTime(u.User.CreatedAt),
		formatTime(u.User.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("inserting user %s: %w", u.User.Email, ErrDuplicate)
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*UserRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u, err
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, strings.TrimSpace(email))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return u, err
}

// UpdateProfile merges p into the stored metadata; empty fields are kept.
func (r *SQLiteUserRepo) UpdateProfile(ctx context.Context, id string, p domain.Profile) (*domain.User, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := p.MergeInto(current.User)

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, avatar_url = ?, updated_at = ? WHERE id = ?`,
		merged.Name, merged.AvatarURL, nowUTC(), id)
	if err != nil {
		return nil, fmt.Errorf("updating user profile: %w", err)
	}
	return &merged, nil
}

func (r *SQLiteUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, passwordHash, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanUser(row rowScanner) (*UserRecord, error) {
	var (
		u       UserRecord
		created string
	)
	err := row.Scan(&u.User.ID, &u.User.Email, &u.PasswordHash, &u.User.Name, &u.User.AvatarURL, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.User.CreatedAt = parseTime(created)
	return &u, nil
}

func (r *SQLiteUserRepo) CreateToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		token, userID, nowUTC(), formatTime(expiresAt))
	if err != nil {
		return fmt.Errorf("inserting auth token: %w", err)
	}
	return nil
}

// UserIDForToken resolves an unexpired token. Expired and unknown tokens
// both report ErrNotFound.
func (r *SQLiteUserRepo) UserIDForToken(ctx context.Context, token string, now time.Time) (string, error) {
	var userID, expires string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, expires_at FROM auth_tokens WHERE token = ?`, token).Scan(&userID, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("auth token: %w", ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("looking up auth token: %w", err)
	}
	if !now.Before(parseTime(expires)) {
		return "", fmt.Errorf("auth token expired: %w", ErrNotFound)
	}
	return userID, nil
}

func (r *SQLiteUserRepo) DeleteToken(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("deleting auth token: %w", err)
	}
	return nil
}
