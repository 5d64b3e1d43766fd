package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Skotchmaster/token_auth/pkg/db"
	"github.com/Skotchmaster/token_auth/services/auth/internal/domain"
	"github.com/Skotchmaster/token_auth/services/auth/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	store, err := db.Open(context.Background(), "sqlite://", models.All()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewGormRepo(store.DB)
}

func insert(t *testing.T, r *GormRepo, username string) *domain.User {
	t.Helper()

	u := &domain.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, r.InsertUser(context.Background(), u))
	require.NotEmpty(t, u.ID)
	return u
}

func TestGormRepo_InsertAndFind(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := insert(t, r, "alice")

	byName, err := r.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)
	assert.Empty(t, byName.RefreshTokens)
	assert.NotNil(t, byName.Roles)
	assert.Empty(t, byName.Roles)

	byID, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestGormRepo_InsertDuplicate(t *testing.T) {
	r := newTestRepo(t)
	insert(t, r, "alice")

	err := r.InsertUser(context.Background(), &domain.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)
}

func TestGormRepo_NotFound(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = r.FindByID(ctx, "999")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = r.FindByID(ctx, "not-a-number")
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = r.Save(ctx, &domain.User{ID: "999", Username: "ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGormRepo_SavePersistsOrderedTokens(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := insert(t, r, "alice")

	u.AddRefreshToken("t1")
	u.AddRefreshToken("t2")
	u.AddRefreshToken("t3")
	u.Roles = []string{"admin"}
	require.NoError(t, r.Save(ctx, u))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.RefreshTokens, got.RefreshTokens)
	assert.Equal(t, []string{"admin"}, got.Roles)

	got.RemoveRefreshToken("t2")
	require.NoError(t, r.Save(ctx, got))

	again, err := r.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, again.HasRefreshToken("t1"))
	assert.False(t, again.HasRefreshToken("t2"))
	assert.True(t, again.HasRefreshToken("t3"))
	assert.Equal(t, []string{domain.Sha256Hex("t1"), domain.Sha256Hex("t3")}, again.RefreshTokens)
}

func TestGormRepo_SaveEmptiesTokenList(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := insert(t, r, "alice")

	u.AddRefreshToken("t1")
	require.NoError(t, r.Save(ctx, u))
	u.RemoveRefreshToken("t1")
	require.NoError(t, r.Save(ctx, u))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.RefreshTokens)
}

func TestGormRepo_TokensIsolatedPerUser(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	alice := insert(t, r, "alice")
	bob := insert(t, r, "bob")

	alice.AddRefreshToken("a1")
	bob.AddRefreshToken("b1")
	require.NoError(t, r.Save(ctx, alice))
	require.NoError(t, r.Save(ctx, bob))

	got, err := r.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.HasRefreshToken("a1"))
	assert.False(t, got.HasRefreshToken("b1"))
}

func TestGormRepo_StoreFailureIsWrapped(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	r := NewGormRepo(gdb)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("connection reset"))

	_, err = r.FindByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
