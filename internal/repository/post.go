package repository

import (
	"context"
	"errors"

	"gridcode/internal/cache"
	"gridcode/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing. Zero values mean "no filter".
type PostFilter struct {
	Hashtag string
	Type    string
	Limit   int
	Offset  int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	TrendingHashtags(ctx context.Context, limit int) ([]models.HashtagCount, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTrending(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.db.WithContext(ctx).Preload("User")
	if filter.Hashtag != "" {
		q = q.Where("hashtag = ?", filter.Hashtag)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if err := q.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateTrending(ctx)
	return nil
}

// TrendingHashtags ranks hashtags by distinct post count. Ties break on the
// hashtag string so the ranking is stable across requests.
func (r *postRepository) TrendingHashtags(ctx context.Context, limit int) ([]models.HashtagCount, error) {
	var counts []models.HashtagCount
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("hashtag, COUNT(*) as count").
		Group("hashtag").
		Order("count DESC, hashtag ASC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return counts, nil
}
