package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lugerh/TaskTree-API/errs"
	"github.com/lugerh/TaskTree-API/models"
	"github.com/lugerh/TaskTree-API/utils"
)

func TestRegisterAssignsDefaults(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, err := env.users.Register(ctx, "alice", "alice@example.com", "s3cret!A")
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "breathDark", user.Config["theme"])
	assert.Empty(t, user.Password, "password must not be echoed back")
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.users.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = env.users.Register(ctx, "alice", "other@example.com", "pw")
	assert.ErrorIs(t, err, errs.ErrDuplicateName)

	_, err = env.users.Register(ctx, "alice2", "alice@example.com", "pw")
	assert.ErrorIs(t, err, errs.ErrDuplicateName)
}

func TestRegisterPropagatesStoreFailure(t *testing.T) {
	env := newTestEnv()

	outage := errs.Store("find users", context.DeadlineExceeded)
	users := NewUserService(failingFindOneStore{Store: env.store, err: outage})

	_, err := users.Register(context.Background(), "alice", "alice@example.com", "pw")
	assert.ErrorIs(t, err, errs.ErrStore)
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.users.Register(ctx, "alice", "alice@example.com", "correct-horse")
	require.NoError(t, err)

	user, token, err := env.users.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, user.Password)

	claims, err := utils.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)

	_, _, err = env.users.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, _, err = env.users.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestGetAllUsersRequiresAdminAndStripsPasswords(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	admin := env.seedUser(t, "root", models.RoleAdmin)
	plain := env.seedUser(t, "plain", models.RoleUser)

	_, err := env.users.GetAllUsers(ctx, asCaller(plain))
	assert.ErrorIs(t, err, errs.ErrForbidden)

	users, err := env.users.GetAllUsers(ctx, asCaller(admin))
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}
}

func TestSetConfigMergesShallow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	alice := env.seedUser(t, "alice", models.RoleUser)

	config, err := env.users.SetConfig(ctx, alice.ID, map[string]any{"fontSize": "large"})
	require.NoError(t, err)
	assert.Equal(t, "breathDark", config["theme"], "untouched keys survive the merge")
	assert.Equal(t, "large", config["fontSize"])

	config, err = env.users.GetConfig(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "large", config["fontSize"])
}

func TestResetConfigUsesDefaultFile(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	file := filepath.Join(t.TempDir(), "defaultConfig.yaml")
	require.NoError(t, os.WriteFile(file, []byte("theme: breathDark\n"), 0600))
	env.users.DefaultConfigFile = file

	alice := env.seedUser(t, "alice", models.RoleUser)
	_, err := env.users.SetConfig(ctx, alice.ID, map[string]any{"theme": "light", "fontSize": "large"})
	require.NoError(t, err)

	config, err := env.users.ResetConfig(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "breathDark", config["theme"])
	_, hasFontSize := config["fontSize"]
	assert.False(t, hasFontSize, "reset replaces the whole config")
}

func TestEnsureAdminUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	t.Setenv("BACKEND_ADMIN_USER", "root")
	t.Setenv("BACKEND_ADMIN_EMAIL", "root@example.com")
	t.Setenv("BACKEND_ADMIN_PASSWORD", "bootstrap-pw")

	require.NoError(t, env.users.EnsureAdminUser(ctx))
	// Seeding again must not duplicate the account.
	require.NoError(t, env.users.EnsureAdminUser(ctx))

	admin := env.seedUser(t, "probe", models.RoleAdmin)
	users, err := env.users.GetAllUsers(ctx, asCaller(admin))
	require.NoError(t, err)

	count := 0
	for _, u := range users {
		if u.Username == "root" {
			count++
			assert.Equal(t, models.RoleAdmin, u.Role)
		}
	}
	assert.Equal(t, 1, count)
}
