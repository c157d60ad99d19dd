package repository

import (
	"context"
	"errors"
	"time"

	"gridcode/internal/models"

	"gorm.io/gorm"
)

// InviteRepository defines persistence operations for invite codes.
type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByCode(ctx context.Context, code string) (*models.Invite, error)
	MarkUsed(ctx context.Context, code string, usedByUserID uint) error
}

type inviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new invite repository.
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	if err := r.db.WithContext(ctx).Create(invite).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Invite code already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inviteRepository) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &invite, nil
}

// MarkUsed consumes the invite exactly once. The used_at guard makes the
// update a no-op when another registration already claimed the code, which
// surfaces as a conflict instead of silently double-spending it.
func (r *inviteRepository) MarkUsed(ctx context.Context, code string, usedByUserID uint) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.Invite{}).
		Where("code = ? AND used_at IS NULL", code).
		Updates(map[string]any{
			"used_by_user_id": usedByUserID,
			"used_at":         now,
		})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError("Invite code is invalid or already used")
	}
	return nil
}
