package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/shiftbook/internal/db"
	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/repository"
)

type companyService struct {
	companies repository.CompanyRepo
	shifts    repository.ShiftRepo
	// uow is nil for stores without transactions (the hosted backend).
	uow      db.UnitOfWork
	users    CurrentUser
	observer UseCaseObserver
}

func NewCompanyService(
	companies repository.CompanyRepo,
	shifts repository.ShiftRepo,
	uow db.UnitOfWork,
	users CurrentUser,
	observers ...UseCaseObserver,
) CompanyService {
	return &companyService{
		companies: companies,
		shifts:    shifts,
		uow:       uow,
		users:     users,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *companyService) List(ctx context.Context) (_ []*domain.Company, err error) {
	defer observe(ctx, s.observer, "company.list", time.Now(), &err, nil)

	user, err := s.users.RequireUser()
	if err != nil {
		return nil, err
	}
	list, err := s.companies.List(ctx, user.ID)
	return list, wrapStoreError("company.list", "load", "companies", err)
}

func (s *companyService) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	user, err := s.users.RequireUser()
	if err != nil {
		return nil, err
	}
	c, err := s.companies.GetByID(ctx, user.ID, id)
	return c, wrapStoreError("company.get", "load", "company", err)
}

func (s *companyService) Create(ctx context.Context, c *domain.Company) (_ *domain.Company, err error) {
	defer observe(ctx, s.observer, "company.create", time.Now(), &err, map[string]any{"name": c.Name})

	user, err := s.users.RequireUser()
	if err != nil {
		return nil, err
	}
	draft := *c
	draft.UserID = user.ID
	draft.Name = strings.TrimSpace(draft.Name)
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	created, err := s.companies.Create(ctx, &draft)
	if err != nil {
		return nil, wrapStoreError("company.create", "save", "company", err)
	}
	return created, nil
}

func (s *companyService) Update(ctx context.Context, id string, patch domain.CompanyPatch) (_ *domain.Company, err error) {
	defer observe(ctx, s.observer, "company.update", time.Now(), &err, map[string]any{"company_id": id})

	user, err := s.users.RequireUser()
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, &domain.ValidationError{Field: "patch", Message: "Nothing to update"}
	}

	current, err := s.companies.GetByID(ctx, user.ID, id)
	if err != nil {
		return nil, wrapStoreError("company.update", "update", "company", err)
	}
	merged := patch.Apply(*current)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := merged.Name
		patch.Name = &name
	}

	updated, err := s.companies.Update(ctx, user.ID, id, patch)
	if err != nil {
		return nil, wrapStoreError("company.update", "update", "company", err)
	}
	return updated, nil
}

func (s *companyService) Delete(ctx context.Context, id string, withShifts bool) (removed int, err error) {
	defer observe(ctx, s.observer, "company.delete", time.Now(), &err,
		map[string]any{"company_id": id, "with_shifts": withShifts})

	user, err := s.users.RequireUser()
	if err != nil {
		return 0, err
	}

	switch {
	case !withShifts:
		err = s.companies.Delete(ctx, user.ID, id)
	case s.uow != nil:
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			n, err := repository.NewSQLiteShiftRepo(tx).DeleteByCompany(ctx, user.ID, id)
			if err != nil {
				return err
			}
			removed = n
			return repository.NewSQLiteCompanyRepo(tx).Delete(ctx, user.ID, id)
		})
	default:
		// Without transactions, confirm the company exists before touching
		// its shifts so a typo never deletes anything.
		if _, err = s.companies.GetByID(ctx, user.ID, id); err == nil {
			if removed, err = s.shifts.DeleteByCompany(ctx, user.ID, id); err == nil {
				err = s.companies.Delete(ctx, user.ID, id)
			}
		}
	}
	if err != nil {
		return 0, wrapStoreError("company.delete", "delete", "company", err)
	}
	return removed, nil
}
