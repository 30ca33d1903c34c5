package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftbook/internal/db"
	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/shopspring/decimal"
)

const companyColumns = `id, user_id, name, hourly_wage, color, created_at`

// SQLiteCompanyRepo implements CompanyRepo on the local database.
type SQLiteCompanyRepo struct {
	db db.DBTX
}

func NewSQLiteCompanyRepo(db db.DBTX) *SQLiteCompanyRepo {
	return &SQLiteCompanyRepo{db: db}
}

func (r *SQLiteCompanyRepo) List(ctx context.Context, ownerID string) ([]*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE user_id = ? ORDER BY name, created_at`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *SQLiteCompanyRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = ? AND user_id = ?`
	c, err := scanCompany(r.db.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company %s: %w", id, ErrNotFound)
	}
	return c, err
}

func (r *SQLiteCompanyRepo) Create(ctx context.Context, c *domain.Company) (*domain.Company, error) {
	created := *c
	created.ID = newID(c.ID)
	created.CreatedAt = createdAt(c.CreatedAt)

	query := `INSERT INTO companies (` + companyColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		created.ID,
		created.UserID,
		created.Name,
		created.HourlyWage.String(),
		created.Color,
		formatTime(created.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("inserting company %q: %w", created.Name, ErrDuplicate)
		}
		return nil, fmt.Errorf("inserting company: %w", err)
	}
	return &created, nil
}

func (r *SQLiteCompanyRepo) Update(ctx context.Context, ownerID, id string, patch domain.CompanyPatch) (*domain.Company, error) {
	current, err := r.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*current)

	query := `UPDATE companies SET name = ?, hourly_wage = ?, color = ? WHERE id = ? AND user_id = ?`
	_, err = r.db.ExecContext(ctx, query,
		updated.Name,
		updated.HourlyWage.String(),
		updated.Color,
		id,
		ownerID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("updating company %q: %w", updated.Name, ErrDuplicate)
		}
		return nil, fmt.Errorf("updating company: %w", err)
	}
	return &updated, nil
}

func (r *SQLiteCompanyRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("company %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*domain.Company, error) {
	var (
		c       domain.Company
		wage    string
		created string
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &wage, &c.Color, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning company: %w", err)
	}
	w, err := decimal.NewFromString(wage)
	if err != nil {
		return nil, fmt.Errorf("company %s has malformed wage %q: %w", c.ID, wage, err)
	}
	c.HourlyWage = w
	c.CreatedAt = parseTime(created)
	return &c, nil
}
