package repository

import (
	"context"
	"time"

	"gridcode/internal/models"

	"gorm.io/gorm"
)

// ProfileViewRepository defines persistence operations for profile views.
type ProfileViewRepository interface {
	Create(ctx context.Context, view *models.ProfileView) error
	HasRecent(ctx context.Context, viewerID, profileUserID uint, since time.Time) (bool, error)
	CountByProfile(ctx context.Context, profileUserID uint) (int64, error)
	ListViewers(ctx context.Context, profileUserID uint, limit int) ([]*models.ProfileView, error)
	RecentViews(ctx context.Context, profileUserID uint, since time.Time) ([]*models.ProfileView, error)
}

type profileViewRepository struct {
	db *gorm.DB
}

// NewProfileViewRepository creates a new profile view repository.
func NewProfileViewRepository(db *gorm.DB) ProfileViewRepository {
	return &profileViewRepository{db: db}
}

func (r *profileViewRepository) Create(ctx context.Context, view *models.ProfileView) error {
	if err := r.db.WithContext(ctx).Create(view).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// HasRecent reports whether the viewer already has a stored view of this
// profile newer than the cutoff. Used for the rolling de-duplication window.
func (r *profileViewRepository) HasRecent(ctx context.Context, viewerID, profileUserID uint, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProfileView{}).
		Where("viewer_id = ? AND profile_user_id = ? AND viewed_at > ?", viewerID, profileUserID, since).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *profileViewRepository) CountByProfile(ctx context.Context, profileUserID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProfileView{}).
		Where("profile_user_id = ?", profileUserID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// ListViewers returns the most recent views of a profile, newest first,
// with viewer identities preloaded.
func (r *profileViewRepository) ListViewers(ctx context.Context, profileUserID uint, limit int) ([]*models.ProfileView, error) {
	var views []*models.ProfileView
	q := r.db.WithContext(ctx).
		Preload("Viewer").
		Where("profile_user_id = ?", profileUserID).
		Order("viewed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&views).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return views, nil
}

// RecentViews returns raw view rows since the cutoff, oldest first. Day
// bucketing happens in the service so it stays dialect independent.
func (r *profileViewRepository) RecentViews(ctx context.Context, profileUserID uint, since time.Time) ([]*models.ProfileView, error) {
	var views []*models.ProfileView
	err := r.db.WithContext(ctx).
		Where("profile_user_id = ? AND viewed_at > ?", profileUserID, since).
		Order("viewed_at ASC").
		Find(&views).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return views, nil
}
