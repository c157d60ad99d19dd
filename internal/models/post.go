package models

import (
	"encoding/json"
	"time"
)

// Post types. Job and event posts carry a structured payload; general posts
// never do.
const (
	PostTypeGeneral = "general"
	PostTypeJob     = "job"
	PostTypeEvent   = "event"
)

// IsValidPostType reports whether t is one of the supported post types.
func IsValidPostType(t string) bool {
	switch t {
	case PostTypeGeneral, PostTypeJob, PostTypeEvent:
		return true
	}
	return false
}

// Post represents a community post tagged with exactly one hashtag.
// UserID stays set for anonymous posts; the author is hidden at
// serialization time, not unset.
type Post struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Content        string          `gorm:"type:text;not null" json:"content"`
	Hashtag        string          `gorm:"not null;index" json:"hashtag"`
	UserID         *uint           `gorm:"index" json:"userId,omitempty"`
	User           *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	IsAnonymous    bool            `gorm:"not null;default:false" json:"isAnonymous"`
	Type           string          `gorm:"not null;default:general" json:"type"`
	StructuredData json.RawMessage `gorm:"type:jsonb" json:"structuredData,omitempty"`
	// Reactions is the per-kind histogram; computed at read time, never persisted.
	Reactions map[string]int `gorm:"-" json:"reactions,omitempty"`
	// ReactionCount is the histogram total (computed).
	ReactionCount int `gorm:"-" json:"reactionCount"`
	// LikeCount and AngryCount stand in for the legacy positive/negative
	// endorsement counts (computed).
	LikeCount  int `gorm:"-" json:"likeCount"`
	AngryCount int `gorm:"-" json:"angryCount"`
	// CurrentUserReaction is the requesting user's reaction kind, if any (computed).
	CurrentUserReaction string    `gorm:"-" json:"currentUserReaction,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// HideAuthor strips the embedded author from anonymous posts before the post
// is serialized. The user_id column itself is kept in storage.
func (p *Post) HideAuthor() {
	if p.IsAnonymous {
		p.User = nil
		p.UserID = nil
	}
}
