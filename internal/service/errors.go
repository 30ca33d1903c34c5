package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftbook/internal/auth"
	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/repository"
)

// ErrNotSignedIn is returned by every use case that needs a current user.
var ErrNotSignedIn = auth.ErrNotSignedIn

// OpError is a store failure with a message fit for the user. Error returns
// only the public message; the cause stays reachable through Unwrap.
type OpError struct {
	Op     string
	Public string
	Err    error
}

func (e *OpError) Error() string {
	return e.Public
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// wrapStoreError turns a repository or remote failure into an OpError.
// Validation and sign-in errors pass through untouched.
func wrapStoreError(op, verb, thing string, err error) error {
	if err == nil {
		return nil
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) || errors.Is(err, ErrNotSignedIn) {
		return err
	}

	public := fmt.Sprintf("Failed to %s %s", verb, thing)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		public = fmt.Sprintf("A %s with this name already exists.", thing)
	case errors.Is(err, repository.ErrPermission):
		public = fmt.Sprintf("You don't have permission to %s %s.", verb, withArticle(thing))
	case errors.Is(err, repository.ErrNotFound):
		public = fmt.Sprintf("%s not found", capitalize(thing))
	}
	return &OpError{Op: op, Public: public, Err: err}
}

// withArticle prefixes a singular noun with "a". List operations pass the
// plural, which reads correctly bare.
func withArticle(thing string) string {
	if strings.HasSuffix(thing, "s") {
		return thing
	}
	return "a " + thing
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CurrentUser yields the signed-in user. *auth.Session implements it.
type CurrentUser interface {
	RequireUser() (*domain.User, error)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
