// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered member of the GridCode community.
// InvitedByUserID is a back-reference to the user whose invite code was
// consumed at registration; it carries no ownership semantics.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Username        string    `gorm:"uniqueIndex;not null" json:"username"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	Password        string    `gorm:"not null" json:"-"`
	FullName        string    `gorm:"not null" json:"fullName"`
	InvitedByUserID *uint     `json:"invitedByUserId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UserSummary is the public identity used when embedding a user into
// another payload (viewer lists, comment authors, post authors).
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// Summary returns the public identity of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
	}
}
