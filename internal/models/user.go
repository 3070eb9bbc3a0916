// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// UserStatus is the lifecycle state of a user account.
type UserStatus string

// User lifecycle states. New accounts start ACTIVE; soft delete moves
// them to DELETED without removing the row.
const (
	StatusActive  UserStatus = "ACTIVE"
	StatusDeleted UserStatus = "DELETED"
)

// User represents a user account.
//
// Timestamps are owned by the service layer, not by GORM: autoCreateTime
// and autoUpdateTime are disabled so that create/update/delete policy lives
// in one place. Soft delete is modeled with Status + DeletedAt instead of
// gorm.DeletedAt because duplicate checks must see soft-deleted rows while
// normal reads must not; GORM's implicit soft-delete scoping can't express
// both.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:20;not null" json:"name"`
	Username  string     `gorm:"uniqueIndex;size:12;not null" json:"username"`
	Email     string     `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Password  string     `gorm:"size:100;not null" json:"-"`
	Status    UserStatus `gorm:"size:16;not null;default:ACTIVE" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime:false" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// IsActive reports whether the account is in the ACTIVE state.
func (u *User) IsActive() bool { return u.Status == StatusActive }
