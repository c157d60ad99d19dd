package service

import (
	"context"

	"gridcode/internal/cache"
	"gridcode/internal/models"
	"gridcode/internal/repository"

	"github.com/samber/lo"
)

const defaultTrendingLimit = 5

type HashtagService struct {
	postRepo       repository.PostRepository
	engagementRepo repository.EngagementRepository
	commonHashtags []string
}

// HashtagAnalytics pairs the two trending signals: how often a hashtag is
// posted under versus how much engagement those posts collect.
type HashtagAnalytics struct {
	ByPostCount  []models.HashtagCount `json:"byPostCount"`
	ByEngagement []models.HashtagCount `json:"byEngagement"`
}

func NewHashtagService(postRepo repository.PostRepository, engagementRepo repository.EngagementRepository, commonHashtags []string) *HashtagService {
	if len(commonHashtags) == 0 {
		commonHashtags = models.DefaultCommonHashtags
	}
	return &HashtagService{
		postRepo:       postRepo,
		engagementRepo: engagementRepo,
		commonHashtags: commonHashtags,
	}
}

// Common returns the curated hashtag picker list, normalized with a leading #.
func (s *HashtagService) Common() []string {
	return lo.Map(s.commonHashtags, func(tag string, _ int) string {
		return models.NormalizeHashtag(tag)
	})
}

// Trending ranks hashtags by post count. Rankings are cached briefly since
// they are read on every feed load but only shift on writes.
func (s *HashtagService) Trending(ctx context.Context, limit int) ([]models.HashtagCount, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}

	var counts []models.HashtagCount
	err := cache.Aside(ctx, cache.TrendingKey("posts", limit), &counts, cache.TrendingTTL, func() error {
		var fillErr error
		counts, fillErr = s.postRepo.TrendingHashtags(ctx, limit)
		return fillErr
	})
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []models.HashtagCount{}
	}
	return counts, nil
}

// Analytics returns both trending signals side by side.
func (s *HashtagService) Analytics(ctx context.Context, limit int) (*HashtagAnalytics, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}

	byPosts, err := s.Trending(ctx, limit)
	if err != nil {
		return nil, err
	}

	var byEngagement []models.HashtagCount
	err = cache.Aside(ctx, cache.TrendingKey("engagement", limit), &byEngagement, cache.TrendingTTL, func() error {
		var fillErr error
		byEngagement, fillErr = s.engagementRepo.TopEngagedHashtags(ctx, limit)
		return fillErr
	})
	if err != nil {
		return nil, err
	}
	if byEngagement == nil {
		byEngagement = []models.HashtagCount{}
	}

	return &HashtagAnalytics{
		ByPostCount:  byPosts,
		ByEngagement: byEngagement,
	}, nil
}
