package service

import (
	"context"

	"gridcode/internal/models"
	"gridcode/internal/observability"
	"gridcode/internal/repository"
)

type EngagementService struct {
	engagementRepo repository.EngagementRepository
	postRepo       repository.PostRepository
}

type ReactInput struct {
	UserID uint
	PostID uint
	Kind   string
}

type EndorseInput struct {
	UserID uint
	PostID uint
	Type   string
}

func NewEngagementService(engagementRepo repository.EngagementRepository, postRepo repository.PostRepository) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		postRepo:       postRepo,
	}
}

// React sets the caller's reaction on a post. Repeating a reaction replaces
// the previous kind rather than stacking a second row.
func (s *EngagementService) React(ctx context.Context, in ReactInput) (*models.Reaction, error) {
	if !models.IsValidReaction(in.Kind) {
		return nil, models.NewValidationError("reaction must be one of like, love, haha, wow, sad, angry")
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	if err := s.engagementRepo.SetReaction(ctx, in.UserID, in.PostID, in.Kind); err != nil {
		return nil, err
	}
	observability.ReactionsTotal.WithLabelValues(in.Kind).Inc()

	return s.engagementRepo.GetReaction(ctx, in.UserID, in.PostID)
}

// Endorse records a legacy endorsement. The endorsement inherits the post's
// hashtag. Submitting the same type twice is a conflict; submitting a
// different type flips the stored endorsement in place.
func (s *EngagementService) Endorse(ctx context.Context, in EndorseInput) (*models.Endorsement, error) {
	if in.Type == "" {
		return nil, models.NewValidationError("endorsement type is required")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	existing, err := s.engagementRepo.GetEndorsement(ctx, in.UserID, in.PostID, post.Hashtag)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Type == in.Type {
			return nil, models.NewConflictError("You have already endorsed this post")
		}
		if err := s.engagementRepo.UpdateEndorsementType(ctx, existing.ID, in.Type); err != nil {
			return nil, err
		}
		existing.Type = in.Type
		observability.EndorsementsTotal.WithLabelValues(in.Type).Inc()
		return existing, nil
	}

	endorsement := &models.Endorsement{
		PostID:  in.PostID,
		UserID:  in.UserID,
		Hashtag: post.Hashtag,
		Type:    in.Type,
	}
	if err := s.engagementRepo.CreateEndorsement(ctx, endorsement); err != nil {
		return nil, err
	}
	observability.EndorsementsTotal.WithLabelValues(in.Type).Inc()
	return endorsement, nil
}

// HashtagReputation ranks the hashtags under which a user's posts have
// collected engagement, across both engagement models.
func (s *EngagementService) HashtagReputation(ctx context.Context, profileUserID uint) ([]models.HashtagCount, error) {
	return s.engagementRepo.HashtagReputationForUser(ctx, profileUserID)
}
