// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"userbase/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
//
// The Get* methods return (nil, nil) when no row matches; callers decide
// whether absence is an error. The status-blind variants exist because
// duplicate checks must see soft-deleted rows, while the AndStatus variants
// back the normal ACTIVE-only reads.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDAndStatus(ctx context.Context, id uint, status models.UserStatus) (*models.User, error)
	GetByUsernameAndStatus(ctx context.Context, username string, status models.UserStatus) (*models.User, error)
	GetByEmailAndStatus(ctx context.Context, email string, status models.UserStatus) (*models.User, error)
	ListByStatus(ctx context.Context, status models.UserStatus) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	DeleteByID(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "username = ?", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *userRepository) GetByIDAndStatus(ctx context.Context, id uint, status models.UserStatus) (*models.User, error) {
	return r.getOne(ctx, "id = ? AND status = ?", id, status)
}

func (r *userRepository) GetByUsernameAndStatus(ctx context.Context, username string, status models.UserStatus) (*models.User, error) {
	return r.getOne(ctx, "username = ? AND status = ?", username, status)
}

func (r *userRepository) GetByEmailAndStatus(ctx context.Context, email string, status models.UserStatus) (*models.User, error) {
	return r.getOne(ctx, "email = ? AND status = ?", email, status)
}

func (r *userRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) ListByStatus(ctx context.Context, status models.UserStatus) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("status = ?", status).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		// The unique indexes on username/email are the store-level backstop
		// for the window between the service's duplicate check and this
		// insert: two concurrent registrations can both pass the check, but
		// only one row lands.
		if field, ok := duplicateField(err); ok {
			return models.NewDuplicateFieldError(field)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if field, ok := duplicateField(err); ok {
			return models.NewDuplicateFieldError(field)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) DeleteByID(ctx context.Context, id uint) error {
	// Hard delete. Deleting a missing id affects zero rows and is not an
	// error.
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// duplicateField inspects a driver error for a unique-constraint violation
// and, when found, names the offending column. Matching on the message avoids
// depending on driver-specific error types (postgres in production, sqlite in
// tests).
func duplicateField(err error) (string, bool) {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "duplicate key") &&
		!strings.Contains(msg, "unique constraint") &&
		!strings.Contains(msg, "unique violation") {
		return "", false
	}
	if strings.Contains(msg, "email") {
		return "email", true
	}
	return "username", true
}
