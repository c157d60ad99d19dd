package models

import "time"

// Reaction kinds.
const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionHaha  = "haha"
	ReactionWow   = "wow"
	ReactionSad   = "sad"
	ReactionAngry = "angry"
)

// ReactionKinds lists every valid reaction kind.
var ReactionKinds = []string{
	ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry,
}

// IsValidReaction reports whether kind is a supported reaction kind.
func IsValidReaction(kind string) bool {
	for _, k := range ReactionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Reaction is the current engagement model: at most one row per
// (user, post), enforced by a composite unique index. A repeated reaction
// from the same user replaces the kind in place.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_reactions_user_post,priority:2" json:"postId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reactions_user_post,priority:1" json:"userId"`
	Kind      string    `gorm:"column:reaction;not null" json:"reaction"`
	CreatedAt time.Time `json:"createdAt"`
}
