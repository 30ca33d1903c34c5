package service

import (
	"context"
	"time"

	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/repository"
)

type shiftService struct {
	shifts    repository.ShiftRepo
	companies repository.CompanyRepo
	users     CurrentUser
	observer  UseCaseObserver
}

func NewShiftService(
	shifts repository.ShiftRepo,
	companies repository.CompanyRepo,
	users CurrentUser,
	observers ...UseCaseObserver,
) ShiftService {
	return &shiftService{
		shifts:    shifts,
		companies: companies,
		users:     users,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *shiftService) List(ctx context.Context) (_ []*domain.Shift, err error) {
	defer observe(ctx, s.observer, "shift.list", time.Now(), &err, nil)

	user, err := s.users.RequireUser()
	if err != nil {
		return nil, err
	}
	list, err := s.shifts.List(ctx, user.ID)
	return list, wrapStoreError("shift.list", "load", "shifts", err)
}

// ListMonth returns the shifts dated in ref's month, newest first.
func (s *shiftService) ListMonth(ctx context.Context, ref time.Time) ([]*domain.Shift, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	year, month, _ := ref.Date()
	out := make([]*domain.Shift, 0, len(all))
	for _, sh := range all {
		if sh.InMonth(year, month) {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *shiftService) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	user, err := s.users.RequireUser()
	if err != nil {
		return nil, err
	}
	sh, err := s.shifts.GetByID(ctx, user.ID, id)
	return sh, wrapStoreError("shift.get", "load", "shift", err)
}

func (s *shiftService) Create(ctx context.Context, sh *domain.Shift) (_ *domain.Shift, err error) {
	defer observe(ctx, s.observer, "shift.create", time.Now(), &err,
		map[string]any{"company_id": sh.CompanyID, "date": sh.DateKey()})

	user, err := s.users.RequireUser()
	if err != nil {
		return nil, err
	}
	draft := *sh
	draft.UserID = user.ID
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCompany(ctx, user.ID, draft.CompanyID); err != nil {
		return nil, err
	}

	created, err := s.shifts.Create(ctx, &draft)
	if err != nil {
		return nil, wrapStoreError("shift.create", "save", "shift", err)
	}
	return created, nil
}

// Update applies only the fields set in patch; everything else keeps its
// stored value.
func (s *shiftService) Update(ctx context.Context, id string, patch domain.ShiftPatch) (_ *domain.Shift, err error) {
	defer observe(ctx, s.observer, "shift.update", time.Now(), &err, map[string]any{"shift_id": id})

	user, err := s.users.RequireUser()
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, &domain.ValidationError{Field: "patch", Message: "Nothing to update"}
	}

	current, err := s.shifts.GetByID(ctx, user.ID, id)
	if err != nil {
		return nil, wrapStoreError("shift.update", "update", "shift", err)
	}
	merged := patch.Apply(*current)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if patch.CompanyID != nil {
		if err := s.checkCompany(ctx, user.ID, *patch.CompanyID); err != nil {
			return nil, err
		}
	}

	updated, err := s.shifts.Update(ctx, user.ID, id, patch)
	if err != nil {
		return nil, wrapStoreError("shift.update", "update", "shift", err)
	}
	return updated, nil
}

func (s *shiftService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "shift.delete", time.Now(), &err, map[string]any{"shift_id": id})

	user, err := s.users.RequireUser()
	if err != nil {
		return err
	}
	return wrapStoreError("shift.delete", "delete", "shift", s.shifts.Delete(ctx, user.ID, id))
}

// checkCompany rejects shifts for companies the user does not have.
func (s *shiftService) checkCompany(ctx context.Context, ownerID, companyID string) error {
	if _, err := s.companies.GetByID(ctx, ownerID, companyID); err != nil {
		if isNotFound(err) {
			return &domain.ValidationError{Field: "company_id", Message: "Please select a valid company"}
		}
		return wrapStoreError("shift.company", "load", "company", err)
	}
	return nil
}
