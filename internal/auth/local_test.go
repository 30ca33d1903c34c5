package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/repository"
	"github.com/alexanderramin/shiftbook/internal/testutil"
)

func newLocalBackend(t *testing.T) *LocalBackend {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewLocalBackend(repository.NewSQLiteUserRepo(db)).WithCost(bcrypt.MinCost)
}

func TestLocalBackend_SignUpThenSignIn(t *testing.T) {
	b := newLocalBackend(t)
	ctx := context.Background()

	g, err := b.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, g.AccessToken)
	assert.NotEmpty(t, g.User.ID)

	g2, err := b.SignIn(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, g.User.ID, g2.User.ID)
	assert.NotEqual(t, g.AccessToken, g2.AccessToken, "each sign-in issues a new token")
}

func TestLocalBackend_SignUp_DuplicateEmail(t *testing.T) {
	b := newLocalBackend(t)
	ctx := context.Background()

	_, err := b.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	_, err = b.SignUp(ctx, "ada@example.com", "other12")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLocalBackend_SignIn_WrongPasswordOrUnknownEmail(t *testing.T) {
	b := newLocalBackend(t)
	ctx := context.Background()

	_, err := b.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	_, err = b.SignIn(ctx, "ada@example.com", "wrong12")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = b.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalBackend_GetUser_AfterSignOut(t *testing.T) {
	b := newLocalBackend(t)
	ctx := context.Background()

	g, err := b.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	u, err := b.GetUser(ctx, g.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)

	require.NoError(t, b.SignOut(ctx, g.AccessToken))
	_, err = b.GetUser(ctx, g.AccessToken)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestLocalBackend_GetUser_ExpiredToken(t *testing.T) {
	b := newLocalBackend(t)
	ctx := context.Background()

	g, err := b.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	b.now = func() time.Time { return time.Now().Add(LocalTokenTTL + time.Hour) }
	_, err = b.GetUser(ctx, g.AccessToken)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestLocalBackend_UpdateUser(t *testing.T) {
	b := newLocalBackend(t)
	ctx := context.Background()

	g, err := b.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	u, err := b.UpdateUser(ctx, g.AccessToken, UserUpdate{
		Profile:  &domain.Profile{Name: "Ada"},
		Password: "newpass1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)

	_, err = b.SignIn(ctx, "ada@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = b.SignIn(ctx, "ada@example.com", "newpass1")
	assert.NoError(t, err)
}
