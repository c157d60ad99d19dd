package models

// Endorsement types. The column also accepts free-form reaction strings
// written by older clients during the endorsement-to-reaction migration.
const (
	EndorsementPositive = "positive"
	EndorsementNegative = "negative"
)

// Endorsement is the legacy engagement model, retained for backward
// compatibility. It is additionally scoped by a denormalized copy of the
// post's hashtag and rejects duplicate identical submissions, unlike the
// silent-upsert reaction path.
type Endorsement struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	PostID  uint   `gorm:"not null;uniqueIndex:idx_endorsements_user_post_tag,priority:2" json:"postId"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_endorsements_user_post_tag,priority:1" json:"userId"`
	Hashtag string `gorm:"not null;uniqueIndex:idx_endorsements_user_post_tag,priority:3" json:"hashtag"`
	Type    string `gorm:"not null;default:positive" json:"type"`
}

// EngagementSource tags which storage model an engagement row came from.
type EngagementSource string

const (
	EngagementSourceReaction    EngagementSource = "reaction"
	EngagementSourceEndorsement EngagementSource = "endorsement"
)

// Engagement is the unified view over both engagement models. Aggregations
// that must count reactions and legacy endorsements together (hashtag
// reputation, trending-by-engagement) operate on this variant rather than on
// the two tables independently.
type Engagement struct {
	PostID  uint
	UserID  uint
	Hashtag string
	Kind    string
	Source  EngagementSource
}
