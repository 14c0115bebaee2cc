package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
	"github.com/Dinara-volsu/library-management-system/internal/store"
	"github.com/Dinara-volsu/library-management-system/pkg/logger"
)

func setupAuth(t *testing.T) (*Service, *store.Store) {
	db, err := store.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.RunMigrations(db))

	log := logger.NewLogger("test", "error")
	st := store.New(db, log)
	return NewService(st, log), st
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret", "Alice Liddell", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleReader, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	logged, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID, "login returns the same identity")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := setupAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret", "Alice", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "second@example.com", "other", "Other Alice", "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := setupAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@example.com", "pw", "A", "")
	assert.ErrorIs(t, err, ErrInvalidRegistration)

	_, err = svc.Register(ctx, "a", "a@example.com", "", "A", "")
	assert.ErrorIs(t, err, ErrInvalidRegistration)
}

func TestLoginFailures(t *testing.T) {
	svc, st := setupAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob", "bob@example.com", "s3cret", "Bob", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, st.DeactivateUser(ctx, user.ID))
	_, err = svc.Login(ctx, "bob", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "deactivated accounts cannot log in")
}

// bcrypt embeds a fresh salt per digest, so identical passwords never
// produce identical stored hashes.
func TestDistinctDigestsForSamePassword(t *testing.T) {
	svc, _ := setupAuth(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "carol", "carol@example.com", "s3cret", "Carol", "")
	require.NoError(t, err)
	second, err := svc.Register(ctx, "dan", "dan@example.com", "s3cret", "Dan", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.PasswordHash, second.PasswordHash)
}

func TestRegisterAdmin(t *testing.T) {
	svc, st := setupAuth(t)
	ctx := context.Background()

	admin, err := svc.RegisterAdmin(ctx, "root", "root@example.com", "s3cret", "Root")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	stored, err := st.GetUserByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role)
}

func TestSessions(t *testing.T) {
	sessions := NewSessions()

	token := sessions.Create(42)
	userID, ok := sessions.Resolve(token)
	assert.True(t, ok)
	assert.Equal(t, uint(42), userID)

	other := sessions.Create(42)
	assert.NotEqual(t, token, other, "every login gets a fresh token")

	sessions.Destroy(token)
	_, ok = sessions.Resolve(token)
	assert.False(t, ok)

	_, ok = sessions.Resolve("not-a-token")
	assert.False(t, ok)
}
