package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/shiftbook/internal/domain"
)

var (
	ErrNotSignedIn = errors.New("not signed in: run `shiftbook login` first")
	// ErrWrongPassword is returned by UpdatePassword when the current
	// password does not verify.
	ErrWrongPassword = errors.New("current password is incorrect")
)

type EventType string

const (
	EventInitialSession EventType = "initial_session"
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventUserUpdated    EventType = "user_updated"
)

// Event is delivered to subscribers on every auth state change. User is nil
// when nobody is signed in.
type Event struct {
	Type EventType
	User *domain.User
}

type subscriber struct {
	id int
	fn func(Event)
}

// Session holds the signed-in user for one process and notifies subscribers
// when it changes. It is safe for concurrent use.
type Session struct {
	backend Backend
	store   Store
	log     *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	grant  *Grant
	subs   []subscriber
	nextID int
}

func NewSession(backend Backend, store Store, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{backend: backend, store: store, log: log.Named("auth"), now: time.Now}
}

// Restore loads the persisted grant and re-validates it with the backend,
// then emits initial_session. A grant the backend rejects is discarded; a
// backend that cannot be reached leaves the cached user in place.
func (s *Session) Restore(ctx context.Context) error {
	g, err := s.store.Load()
	if err != nil {
		return err
	}

	if g != nil && g.Expired(s.now()) {
		s.log.Info("stored session expired", zap.String("user_id", g.User.ID))
		g = nil
		if err := s.store.Clear(); err != nil {
			return err
		}
	}

	if g != nil {
		user, err := s.backend.GetUser(ctx, g.AccessToken)
		switch {
		case err == nil:
			g.User = *user
		case errors.Is(err, ErrSessionExpired):
			s.log.Info("stored session rejected", zap.String("user_id", g.User.ID))
			g = nil
			if err := s.store.Clear(); err != nil {
				return err
			}
		default:
			s.log.Warn("could not refresh user, using cached profile", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.grant = g
	s.mu.Unlock()

	s.emit(EventInitialSession)
	return nil
}

func (s *Session) Current() (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grant == nil {
		return nil, false
	}
	u := s.grant.User
	return &u, true
}

func (s *Session) RequireUser() (*domain.User, error) {
	u, ok := s.Current()
	if !ok {
		return nil, ErrNotSignedIn
	}
	return u, nil
}

// AccessToken returns the current bearer token, or "" when signed out.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grant == nil {
		return ""
	}
	return s.grant.AccessToken
}

func (s *Session) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	if err := domain.ValidateCredentials(email, password); err != nil {
		return nil, err
	}
	g, err := s.backend.SignUp(ctx, email, password)
	if errors.Is(err, ErrConfirmationPending) && g != nil {
		u := g.User
		return &u, err
	}
	if err != nil {
		return nil, err
	}
	if err := s.adopt(g); err != nil {
		return nil, err
	}
	s.log.Info("signed up", zap.String("user_id", g.User.ID))
	s.emit(EventSignedIn)
	u := g.User
	return &u, nil
}

func (s *Session) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	if err := domain.ValidateCredentials(email, password); err != nil {
		return nil, err
	}
	g, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.adopt(g); err != nil {
		return nil, err
	}
	s.log.Info("signed in", zap.String("user_id", g.User.ID))
	s.emit(EventSignedIn)
	u := g.User
	return &u, nil
}

// SignOut revokes the token when the backend allows it and always clears
// local state.
func (s *Session) SignOut(ctx context.Context) error {
	token := s.AccessToken()
	if token == "" {
		return nil
	}
	if err := s.backend.SignOut(ctx, token); err != nil {
		s.log.Warn("backend sign-out failed", zap.Error(err))
	}

	s.mu.Lock()
	s.grant = nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return err
	}
	s.emit(EventSignedOut)
	return nil
}

// UpdateProfile merges p into the account metadata, then re-reads the user
// so the session reflects what the backend stored.
func (s *Session) UpdateProfile(ctx context.Context, p domain.Profile) (*domain.User, error) {
	token := s.AccessToken()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	if _, err := s.backend.UpdateUser(ctx, token, UserUpdate{Profile: &p}); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	user, err := s.backend.GetUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("refreshing user: %w", err)
	}
	if err := s.replaceUser(*user); err != nil {
		return nil, err
	}
	s.emit(EventUserUpdated)
	return user, nil
}

// UpdatePassword re-verifies current by signing in again before setting next.
func (s *Session) UpdatePassword(ctx context.Context, current, next string) error {
	user, err := s.RequireUser()
	if err != nil {
		return err
	}
	if len(next) < domain.MinPasswordLen {
		return &domain.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters", domain.MinPasswordLen),
		}
	}

	oldToken := s.AccessToken()
	g, err := s.backend.SignIn(ctx, user.Email, current)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ErrWrongPassword
		}
		return fmt.Errorf("verifying current password: %w", err)
	}
	if g.AccessToken != oldToken {
		if err := s.backend.SignOut(ctx, oldToken); err != nil {
			s.log.Debug("revoking previous token failed", zap.Error(err))
		}
	}
	if err := s.adopt(g); err != nil {
		return err
	}

	if _, err := s.backend.UpdateUser(ctx, g.AccessToken, UserUpdate{Password: next}); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	s.log.Info("password changed", zap.String("user_id", user.ID))
	s.emit(EventUserUpdated)
	return nil
}

// Subscribe registers fn for auth events and returns a function that
// removes it. fn runs on the goroutine that caused the change.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Session) adopt(g *Grant) error {
	if err := s.store.Save(g); err != nil {
		return err
	}
	s.mu.Lock()
	s.grant = g
	s.mu.Unlock()
	return nil
}

func (s *Session) replaceUser(u domain.User) error {
	s.mu.Lock()
	if s.grant == nil {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	g := *s.grant
	g.User = u
	s.grant = &g
	s.mu.Unlock()
	return s.store.Save(&g)
}

// emit snapshots the subscriber list so handlers run without holding the lock.
func (s *Session) emit(t EventType) {
	s.mu.Lock()
	var user *domain.User
	if s.grant != nil {
		u := s.grant.User
		user = &u
	}
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(Event{Type: t, User: user})
	}
}
