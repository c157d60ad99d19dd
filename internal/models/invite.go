package models

import "time"

// Invite is a single-use registration code. Lifecycle: created unused,
// validated (read-only), then consumed exactly once when registration
// completes. A used code must never validate again.
type Invite struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Code            string     `gorm:"uniqueIndex;not null" json:"code"`
	InvitedByUserID uint       `gorm:"not null" json:"invitedByUserId"`
	UsedByUserID    *uint      `json:"usedByUserId,omitempty"`
	UsedAt          *time.Time `json:"usedAt,omitempty"`
}

// Used reports whether the invite has already been consumed.
func (i *Invite) Used() bool {
	return i.UsedAt != nil
}
