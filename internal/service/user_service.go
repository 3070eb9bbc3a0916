// Package service implements the business rules of the user lifecycle.
package service

import (
	"context"
	"log/slog"
	"time"

	"userbase/internal/auth"
	"userbase/internal/models"
	"userbase/internal/repository"
)

// UserService orchestrates user lifecycle operations against the store,
// enforcing uniqueness and status-transition rules. It owns timestamp policy:
// CreatedAt/UpdatedAt/DeletedAt are set here, never by the storage layer.
type UserService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	log      *slog.Logger
}

// RegisterInput carries the fields for a new account. Password is plaintext
// and is hashed before it ever reaches the store.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// UpdateInput carries the fields for a profile update. Name, Username and
// Email are applied unconditionally; Password is re-hashed and applied only
// when non-empty.
type UpdateInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// NewUserService returns a UserService with its collaborators injected.
func NewUserService(userRepo repository.UserRepository, hasher auth.PasswordHasher, log *slog.Logger) *UserService {
	return &UserService{userRepo: userRepo, hasher: hasher, log: log}
}

// FindByUsername returns the ACTIVE user with the given username, or nil.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsernameAndStatus(ctx, username, models.StatusActive)
}

// FindByEmail returns the ACTIVE user with the given email, or nil.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetByEmailAndStatus(ctx, email, models.StatusActive)
}

// FindByID returns the ACTIVE user with the given id, or nil. Soft-deleted
// users are invisible here.
func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByIDAndStatus(ctx, id, models.StatusActive)
}

// FindAllUsers returns every ACTIVE user in store order.
func (s *UserService) FindAllUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListByStatus(ctx, models.StatusActive)
}

// Register creates a new account.
//
// Uniqueness is checked against records of ANY status: a soft-deleted user
// permanently blocks its username and email from reuse. That is deliberate
// account policy, not an oversight. Username is checked before email, so a
// request colliding on both reports the username. The check and the insert
// are separate store calls; the unique indexes (mapped back to
// DuplicateField by the repository) close the race between them.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewDuplicateFieldError("username")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewDuplicateFieldError("email")
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	now := time.Now()
	user := &models.User{
		Name:      in.Name,
		Username:  in.Username,
		Email:     in.Email,
		Password:  digest,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Update applies new details to an existing account.
//
// The target is looked up regardless of status, but only ACTIVE users may be
// updated: anything else is a terminal business rejection (InvalidUpdate),
// not a retryable condition. Collision checks run against other records of
// any status; the record's own id is not a collision.
func (s *UserService) Update(ctx context.Context, id uint, in UpdateInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", id)
	}
	if !user.IsActive() {
		return nil, models.NewInvalidUpdateError("Update is not allowed for this user")
	}

	if other, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if other != nil && other.ID != user.ID {
		return nil, models.NewDuplicateFieldError("username")
	}
	if other, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if other != nil && other.ID != user.ID {
		return nil, models.NewDuplicateFieldError("email")
	}

	user.Name = in.Name
	user.Username = in.Username
	user.Email = in.Email
	if in.Password != "" {
		digest, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = digest
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user updated", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

// SoftDelete marks the account DELETED and stamps DeletedAt, keeping the row.
// The lookup is status-blind: only a completely missing id is NotFound.
// Deleting an already-DELETED account re-saves it but keeps the original
// DeletedAt, so the deletion time is only ever set once.
func (s *UserService) SoftDelete(ctx context.Context, id uint) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User", id)
	}

	now := time.Now()
	user.Status = models.StatusDeleted
	if user.DeletedAt == nil {
		user.DeletedAt = &now
	}
	user.UpdatedAt = now

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.log.Info("user soft deleted", slog.Uint64("user_id", uint64(id)))
	return nil
}

// DeletePermanently removes the row outright, bypassing status entirely.
// There is no existence check; deleting a missing id is a no-op.
func (s *UserService) DeletePermanently(ctx context.Context, id uint) error {
	if err := s.userRepo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info("user permanently deleted", slog.Uint64("user_id", uint64(id)))
	return nil
}
