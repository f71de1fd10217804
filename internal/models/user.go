// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account.
// Password holds a bcrypt hash once persisted and is never serialized.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Username        string    `gorm:"size:30;not null;uniqueIndex:idx_users_username" json:"username"`
	Email           string    `gorm:"size:254;not null;uniqueIndex:idx_users_email" json:"email"`
	Password        string    `gorm:"size:255;not null" json:"-"`
	FirstName       *string   `gorm:"size:100" json:"firstName,omitempty"`
	LastName        *string   `gorm:"size:100" json:"lastName,omitempty"`
	State           *string   `gorm:"size:100" json:"state,omitempty"`
	City            *string   `gorm:"size:100" json:"city,omitempty"`
	ProfileImageURL *string   `gorm:"size:500" json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserUpdate is a partial update for a user. Nil fields are left unchanged.
// Password is plaintext here; the storage layer hashes it before writing.
type UserUpdate struct {
	Username        *string `json:"username,omitempty" form:"username"`
	Email           *string `json:"email,omitempty" form:"email"`
	Password        *string `json:"password,omitempty" form:"password"`
	FirstName       *string `json:"firstName,omitempty" form:"firstName" validate:"omitempty,max=100"`
	LastName        *string `json:"lastName,omitempty" form:"lastName" validate:"omitempty,max=100"`
	State           *string `json:"state,omitempty" form:"state" validate:"omitempty,max=100"`
	City            *string `json:"city,omitempty" form:"city" validate:"omitempty,max=100"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty" form:"profileImageUrl" validate:"omitempty,max=500"`
}

// Columns returns the column values to write, excluding password.
func (u UserUpdate) Columns() map[string]any {
	cols := make(map[string]any)
	setIfPresent(cols, "username", u.Username)
	setIfPresent(cols, "email", u.Email)
	setIfPresent(cols, "first_name", u.FirstName)
	setIfPresent(cols, "last_name", u.LastName)
	setIfPresent(cols, "state", u.State)
	setIfPresent(cols, "city", u.City)
	setIfPresent(cols, "profile_image_url", u.ProfileImageURL)
	return cols
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return len(u.Columns()) == 0 && u.Password == nil
}

// UserProfile is the public view of a user together with activity counts.
type UserProfile struct {
	User
	PetsCount      int64 `json:"petsCount"`
	RecipesCount   int64 `json:"recipesCount"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
}

func setIfPresent[T any](cols map[string]any, column string, v *T) {
	if v != nil {
		cols[column] = *v
	}
}
