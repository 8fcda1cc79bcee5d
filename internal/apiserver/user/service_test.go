package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-admin/internal/apiserver/auth"
	"survey-admin/internal/shared/model"
	"survey-admin/internal/shared/storage"
	sqlitedriver "survey-admin/internal/shared/storage/driver/sqlite"
	"survey-admin/internal/shared/storage/repository"
)

func newTestService(t *testing.T) (*Service, storage.PersistentStore) {
	t.Helper()
	db, err := sqlitedriver.Open(":memory:")
	require.NoError(t, err)
	dialect := sqlitedriver.NewDialect()
	require.NoError(t, dialect.AutoMigrate(db))
	store := repository.NewStore(db, dialect)
	t.Cleanup(func() { store.Close() })
	return NewService(store), store
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "alice", "s3cret", model.UserRoleUser, "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, model.UserRoleUser, u.Role)
	assert.Equal(t, "admin", u.CreatedBy)
	assert.NotEqual(t, "s3cret", u.PasswordHash)
	assert.True(t, auth.CheckPassword("s3cret", u.PasswordHash))

	// 重名
	_, err = svc.Create(ctx, "alice", "other", model.UserRoleUser, "admin")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// 非法角色
	_, err = svc.Create(ctx, "bob", "pw", model.UserRole("superuser"), "admin")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "alice", "s3cret", model.UserRoleUser, "admin")
	require.NoError(t, err)
	oldHash := u.PasswordHash

	// 改名 + 升级角色，口令留空不动
	updated, err := svc.Update(ctx, u.ID, "alice2", "", model.UserRoleAdmin, "admin")
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, model.UserRoleAdmin, updated.Role)
	assert.Equal(t, oldHash, updated.PasswordHash)
	assert.Equal(t, "admin", updated.UpdatedBy)
	assert.False(t, updated.UpdatedAt.IsZero())

	// 重置口令
	updated, err = svc.Update(ctx, u.ID, "alice2", "newpw", model.UserRoleAdmin, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, oldHash, updated.PasswordHash)
	assert.True(t, auth.CheckPassword("newpw", updated.PasswordHash))
}

func TestUpdate_UsernameTaken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "alice", "pw", model.UserRoleUser, "admin")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob", "pw", model.UserRoleUser, "admin")
	require.NoError(t, err)

	// 改到已被占用的用户名
	_, err = svc.Update(ctx, a.ID, "bob", "", model.UserRoleUser, "admin")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// 保持自己的用户名不算冲突
	_, err = svc.Update(ctx, a.ID, "alice", "", model.UserRoleUser, "admin")
	assert.NoError(t, err)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "usr-missing", "alice", "", model.UserRoleUser, "admin")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "alice", "pw", model.UserRoleUser, "admin")
	require.NoError(t, err)

	// 不允许删除当前登录账号
	assert.ErrorIs(t, svc.Delete(ctx, u.ID, "alice"), ErrSelfDeletion)

	require.NoError(t, svc.Delete(ctx, u.ID, "admin"))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID, "admin"), ErrUserNotFound)
}

func TestList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	_, err = svc.Create(ctx, "alice", "pw", model.UserRoleUser, "admin")
	require.NoError(t, err)

	users, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}
