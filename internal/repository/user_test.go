package repository

import (
	"context"
	"testing"
	"time"

	"userbase/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func mustCreate(t *testing.T, repo UserRepository, username, email string, status models.UserStatus) *models.User {
	t.Helper()
	now := time.Now()
	u := &models.User{
		Name:      "Test User",
		Username:  username,
		Email:     email,
		Password:  "digest",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestGetByStatusFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	active := mustCreate(t, repo, "alice", "alice@example.com", models.StatusActive)
	deleted := mustCreate(t, repo, "bob", "bob@example.com", models.StatusDeleted)

	t.Run("Status blind lookup sees both", func(t *testing.T) {
		u, err := repo.GetByUsername(ctx, "bob")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, deleted.ID, u.ID)
	})

	t.Run("Active filter hides deleted rows", func(t *testing.T) {
		u, err := repo.GetByUsernameAndStatus(ctx, "bob", models.StatusActive)
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("Active filter finds active rows", func(t *testing.T) {
		u, err := repo.GetByIDAndStatus(ctx, active.ID, models.StatusActive)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("Absent row is nil not error", func(t *testing.T) {
		u, err := repo.GetByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("Email lookup", func(t *testing.T) {
		u, err := repo.GetByEmailAndStatus(ctx, "alice@example.com", models.StatusActive)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, active.ID, u.ID)
	})
}

func TestListByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	mustCreate(t, repo, "alice", "alice@example.com", models.StatusActive)
	mustCreate(t, repo, "bob", "bob@example.com", models.StatusDeleted)
	mustCreate(t, repo, "carol", "carol@example.com", models.StatusActive)

	users, err := repo.ListByStatus(ctx, models.StatusActive)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "carol", users[1].Username)
}

func TestCreateUniqueViolations(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))
	mustCreate(t, repo, "alice", "alice@example.com", models.StatusActive)

	t.Run("Duplicate username maps to field error", func(t *testing.T) {
		now := time.Now()
		err := repo.Create(ctx, &models.User{
			Name: "Other", Username: "alice", Email: "other@example.com",
			Password: "digest", Status: models.StatusActive,
			CreatedAt: now, UpdatedAt: now,
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeDuplicate, appErr.Code)
		assert.Equal(t, "username", appErr.Field)
	})

	t.Run("Duplicate email maps to field error", func(t *testing.T) {
		now := time.Now()
		err := repo.Create(ctx, &models.User{
			Name: "Other", Username: "other", Email: "alice@example.com",
			Password: "digest", Status: models.StatusActive,
			CreatedAt: now, UpdatedAt: now,
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "email", appErr.Field)
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))
	u := mustCreate(t, repo, "alice", "alice@example.com", models.StatusActive)

	now := time.Now()
	u.Status = models.StatusDeleted
	u.DeletedAt = &now
	require.NoError(t, repo.Save(ctx, u))

	stored, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.StatusDeleted, stored.Status)
	assert.NotNil(t, stored.DeletedAt)
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	t.Run("Removes the row for good", func(t *testing.T) {
		u := mustCreate(t, repo, "alice", "alice@example.com", models.StatusActive)
		require.NoError(t, repo.DeleteByID(ctx, u.ID))

		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("Missing id is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.DeleteByID(ctx, 9999))
	})

	t.Run("Deletes soft deleted rows too", func(t *testing.T) {
		u := mustCreate(t, repo, "bob", "bob@example.com", models.StatusDeleted)
		require.NoError(t, repo.DeleteByID(ctx, u.ID))

		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}

func TestDuplicateFieldMapping(t *testing.T) {
	tests := []struct {
		name      string
		msg       string
		wantField string
		wantOK    bool
	}{
		{"Postgres username", `duplicate key value violates unique constraint "idx_users_username"`, "username", true},
		{"Postgres email", `duplicate key value violates unique constraint "idx_users_email"`, "email", true},
		{"SQLite username", "UNIQUE constraint failed: users.username", "username", true},
		{"SQLite email", "UNIQUE constraint failed: users.email", "email", true},
		{"Unrelated error", "connection refused", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, ok := duplicateField(errString(tt.msg))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantField, field)
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
