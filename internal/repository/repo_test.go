package repository

import (
	"Cipherchat/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.UserContact{}))
	return db
}

func createUser(t *testing.T, repo UserRepo, name, email string) *model.User {
	t.Helper()
	u := &model.User{FullName: name, Email: email, Password: "hash", SharePresence: true}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	require.NotZero(t, u.ID)
	return u
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(newTestDB(t))

	alice := createUser(t, repo, "Alice", "alice@example.com")
	bob := createUser(t, repo, "Bob", "bob@example.com")

	got, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)

	missing, err := repo.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = repo.GetUserById(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	users, err := repo.GetUserByIds(ctx, []uint64{bob.ID, alice.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].FullName)

	share, err := repo.GetSharePresence(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, share)

	updated, err := repo.UpdateFields(ctx, alice.ID, map[string]any{"share_presence": false})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.False(t, updated.SharePresence)

	share, err = repo.GetSharePresence(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, share)

	_, err = repo.GetSharePresence(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserMissing)
}

func TestContactRepo(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepo(db)
	contacts := NewContactRepo(db)

	alice := createUser(t, users, "Alice", "alice@example.com")
	bob := createUser(t, users, "Bob", "bob@example.com")
	carol := createUser(t, users, "Carol", "carol@example.com")

	added, err := contacts.AddContact(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = contacts.AddContact(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, added, "second add is a no-op")

	_, err = contacts.AddContact(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = contacts.AddContact(ctx, carol.ID, alice.ID)
	require.NoError(t, err)

	ids, err := contacts.ListContactIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{bob.ID, carol.ID}, ids)

	ids, err = contacts.ListContactIDs(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, ids, "edges are one-directional")

	ok, err := contacts.IsContact(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = contacts.IsContact(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err := contacts.RemoveContact(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = contacts.RemoveContact(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, users.DeleteUser(ctx, alice.ID))
	ids, err = contacts.ListContactIDs(ctx, carol.ID)
	require.NoError(t, err)
	assert.Empty(t, ids, "deleting a user drops edges pointing at them")
}
