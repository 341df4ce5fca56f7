package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storelane/storelane-backend/pkg/enums"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Username:     "tester",
		Email:        "tester@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleCustomer, created.Role)

	byEmail, err := repo.FindByEmail(ctx, "tester@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "tester", byID.Username)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateRejectsDuplicateEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserDTO{
		Username:     "first",
		Email:        "dup@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserDTO{
		Username:     "second",
		Email:        "dup@example.com",
		PasswordHash: "hash",
	})
	require.Error(t, err)
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Username:     "tester",
		Email:        "tester@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.Nil(t, created.LastLoginAt)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, created.ID, at))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.WithinDuration(t, at, *found.LastLoginAt, time.Second)
}
