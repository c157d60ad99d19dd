package models

import "time"

// ProfileViewWindow is the rolling de-duplication window: a (viewer, profile)
// pair produces at most one stored view per window.
const ProfileViewWindow = time.Hour

// ProfileView records one visit of a viewer to another user's profile.
// Self-views are never recorded.
type ProfileView struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ViewerID      uint      `gorm:"not null;index" json:"viewerId"`
	Viewer        *User     `gorm:"foreignKey:ViewerID" json:"viewer,omitempty"`
	ProfileUserID uint      `gorm:"not null;index" json:"profileUserId"`
	ViewedAt      time.Time `gorm:"not null;index" json:"viewedAt"`
}

// DayCount is one calendar-date bucket of the profile-view analytics,
// keyed by UTC date string (YYYY-MM-DD).
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
