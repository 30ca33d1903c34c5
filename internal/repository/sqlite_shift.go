package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftbook/internal/db"
	"github.com/alexanderramin/shiftbook/internal/domain"
)

const shiftColumns = `id, user_id, company_id, date, start_time, end_time, memo, created_at`

// SQLiteShiftRepo implements ShiftRepo on the local database.
type SQLiteShiftRepo struct {
	db db.DBTX
}

func NewSQLiteShiftRepo(db db.DBTX) *SQLiteShiftRepo {
	return &SQLiteShiftRepo{db: db}
}

func (r *SQLiteShiftRepo) List(ctx context.Context, ownerID string) ([]*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE user_id = ? ORDER BY date DESC, start_time DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*domain.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

func (r *SQLiteShiftRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = ? AND user_id = ?`
	s, err := scanShift(r.db.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shift %s: %w", id, ErrNotFound)
	}
	return s, err
}

func (r *SQLiteShiftRepo) Create(ctx context.Context, s *domain.Shift) (*domain.Shift, error) {
	created := *s
	created.ID = newID(s.ID)
	created.CreatedAt = createdAt(s.CreatedAt)

	query := `INSERT INTO shifts (` + shiftColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		created.ID,
		created.UserID,
		created.CompanyID,
		created.DateKey(),
		created.Start.String(),
		created.End.String(),
		created.Memo,
		formatTime(created.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("inserting shift %s: %w", created.ID, ErrDuplicate)
		}
		return nil, fmt.Errorf("inserting shift: %w", err)
	}
	return &created, nil
}

func (r *SQLiteShiftRepo) Update(ctx context.Context, ownerID, id string, patch domain.ShiftPatch) (*domain.Shift, error) {
	current, err := r.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*current)

	query := `UPDATE shifts SET company_id = ?, date = ?, start_time = ?, end_time = ?, memo = ?
		WHERE id = ? AND user_id = ?`
	_, err = r.db.ExecContext(ctx, query,
		updated.CompanyID,
		updated.DateKey(),
		updated.Start.String(),
		updated.End.String(),
		updated.Memo,
		id,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating shift: %w", err)
	}
	return &updated, nil
}

func (r *SQLiteShiftRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting shift: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting shift: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("shift %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteShiftRepo) DeleteByCompany(ctx context.Context, ownerID, companyID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE company_id = ? AND user_id = ?`, companyID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("deleting shifts for company: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting shifts for company: %w", err)
	}
	return int(n), nil
}

func scanShift(row rowScanner) (*domain.Shift, error) {
	var (
		s                      domain.Shift
		date, start, end, made string
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.CompanyID, &date, &start, &end, &s.Memo, &made); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning shift: %w", err)
	}

	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("shift %s has malformed date %q: %w", s.ID, date, err)
	}
	if s.Start, err = domain.ParseClock(start); err != nil {
		return nil, fmt.Errorf("shift %s start: %w", s.ID, err)
	}
	if s.End, err = domain.ParseClock(end); err != nil {
		return nil, fmt.Errorf("shift %s end: %w", s.ID, err)
	}
	s.Date = d
	s.CreatedAt = parseTime(made)
	return &s, nil
}
