package repository

import (
	"context"
	"errors"
	"sort"

	"gridcode/internal/cache"
	"gridcode/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository covers both engagement models: reactions (current,
// one row per user/post, upserted) and endorsements (legacy, scoped by
// hashtag, duplicates rejected). Aggregations that rank hashtags merge the
// two tables.
type EngagementRepository interface {
	SetReaction(ctx context.Context, userID, postID uint, kind string) error
	GetReaction(ctx context.Context, userID, postID uint) (*models.Reaction, error)
	ReactionHistogramForPosts(ctx context.Context, postIDs []uint) (map[uint]map[string]int, error)
	ReactionsForUser(ctx context.Context, userID uint, postIDs []uint) (map[uint]string, error)
	CreateEndorsement(ctx context.Context, e *models.Endorsement) error
	GetEndorsement(ctx context.Context, userID, postID uint, hashtag string) (*models.Endorsement, error)
	UpdateEndorsementType(ctx context.Context, id uint, newType string) error
	HashtagReputationForUser(ctx context.Context, profileUserID uint) ([]models.HashtagCount, error)
	TopEngagedHashtags(ctx context.Context, limit int) ([]models.HashtagCount, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// SetReaction upserts the (user, post) reaction row atomically. A repeated
// reaction from the same user replaces the kind in place.
func (r *engagementRepository) SetReaction(ctx context.Context, userID, postID uint, kind string) error {
	reaction := models.Reaction{
		UserID: userID,
		PostID: postID,
		Kind:   kind,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reaction"}),
		}).
		Create(&reaction).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	cache.InvalidateTrending(ctx)
	return nil
}

func (r *engagementRepository) GetReaction(ctx context.Context, userID, postID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &reaction, nil
}

type postKindCount struct {
	PostID uint
	Kind   string
	Count  int
}

// ReactionHistogramForPosts returns the per-kind reaction counts for each
// of the given posts in one grouped query.
func (r *engagementRepository) ReactionHistogramForPosts(ctx context.Context, postIDs []uint) (map[uint]map[string]int, error) {
	result := make(map[uint]map[string]int, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var rows []postKindCount
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Select("post_id, reaction as kind, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id, reaction").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, row := range rows {
		if result[row.PostID] == nil {
			result[row.PostID] = make(map[string]int)
		}
		result[row.PostID][row.Kind] = row.Count
	}
	return result, nil
}

// ReactionsForUser returns the given user's reaction kind for each of the
// posts they reacted to, keyed by post ID.
func (r *engagementRepository) ReactionsForUser(ctx context.Context, userID uint, postIDs []uint) (map[uint]string, error) {
	result := make(map[uint]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&reactions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, reaction := range reactions {
		result[reaction.PostID] = reaction.Kind
	}
	return result, nil
}

func (r *engagementRepository) CreateEndorsement(ctx context.Context, e *models.Endorsement) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("You have already endorsed this post")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, e.PostID)
	cache.InvalidateTrending(ctx)
	return nil
}

func (r *engagementRepository) GetEndorsement(ctx context.Context, userID, postID uint, hashtag string) (*models.Endorsement, error) {
	var e models.Endorsement
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ? AND hashtag = ?", userID, postID, hashtag).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &e, nil
}

func (r *engagementRepository) UpdateEndorsementType(ctx context.Context, id uint, newType string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Endorsement{}).
		Where("id = ?", id).
		Update("type", newType)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Endorsement", id)
	}
	cache.InvalidateTrending(ctx)
	return nil
}

// HashtagReputationForUser counts all engagement (reactions plus legacy
// endorsements) received on posts authored by the given user, grouped by the
// post's hashtag.
func (r *engagementRepository) HashtagReputationForUser(ctx context.Context, profileUserID uint) ([]models.HashtagCount, error) {
	var reactionCounts []models.HashtagCount
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Select("posts.hashtag, COUNT(*) as count").
		Joins("JOIN posts ON posts.id = reactions.post_id").
		Where("posts.user_id = ?", profileUserID).
		Group("posts.hashtag").
		Scan(&reactionCounts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var endorsementCounts []models.HashtagCount
	err = r.db.WithContext(ctx).
		Model(&models.Endorsement{}).
		Select("endorsements.hashtag, COUNT(*) as count").
		Joins("JOIN posts ON posts.id = endorsements.post_id").
		Where("posts.user_id = ?", profileUserID).
		Group("endorsements.hashtag").
		Scan(&endorsementCounts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return MergeHashtagCounts(reactionCounts, endorsementCounts), nil
}

// TopEngagedHashtags ranks hashtags globally by total engagement across both
// models, limited to the top n.
func (r *engagementRepository) TopEngagedHashtags(ctx context.Context, limit int) ([]models.HashtagCount, error) {
	var reactionCounts []models.HashtagCount
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Select("posts.hashtag, COUNT(*) as count").
		Joins("JOIN posts ON posts.id = reactions.post_id").
		Group("posts.hashtag").
		Scan(&reactionCounts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var endorsementCounts []models.HashtagCount
	err = r.db.WithContext(ctx).
		Model(&models.Endorsement{}).
		Select("hashtag, COUNT(*) as count").
		Group("hashtag").
		Scan(&endorsementCounts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	merged := MergeHashtagCounts(reactionCounts, endorsementCounts)
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// MergeHashtagCounts sums count slices per hashtag and orders the result by
// count descending, hashtag ascending.
func MergeHashtagCounts(slices ...[]models.HashtagCount) []models.HashtagCount {
	totals := make(map[string]int)
	for _, s := range slices {
		for _, hc := range s {
			totals[hc.Hashtag] += hc.Count
		}
	}
	merged := lo.MapToSlice(totals, func(hashtag string, count int) models.HashtagCount {
		return models.HashtagCount{Hashtag: hashtag, Count: count}
	})
	SortHashtagCounts(merged)
	return merged
}

// SortHashtagCounts orders a ranking by count descending with the hashtag
// string as a stable tie break.
func SortHashtagCounts(counts []models.HashtagCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Hashtag < counts[j].Hashtag
	})
}
