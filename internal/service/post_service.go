// Package service contains the application's business logic.
package service

import (
	"context"
	"encoding/json"

	"gridcode/internal/models"
	"gridcode/internal/repository"
	"gridcode/internal/validation"
)

type PostService struct {
	postRepo       repository.PostRepository
	engagementRepo repository.EngagementRepository
}

type CreatePostInput struct {
	UserID         uint
	Content        string
	Hashtag        string
	IsAnonymous    bool
	Type           string
	StructuredData json.RawMessage
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type ListPostsInput struct {
	Hashtag       string
	Type          string
	Limit         int
	Offset        int
	CurrentUserID uint
}

func NewPostService(postRepo repository.PostRepository, engagementRepo repository.EngagementRepository) *PostService {
	return &PostService{
		postRepo:       postRepo,
		engagementRepo: engagementRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	postType := in.Type
	if postType == "" {
		postType = models.PostTypeGeneral
	}
	hashtag := models.NormalizeHashtag(in.Hashtag)

	if err := validation.ValidatePost(postType, in.Content, hashtag, in.StructuredData); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	userID := in.UserID
	post := &models.Post{
		Content:        in.Content,
		Hashtag:        hashtag,
		UserID:         &userID,
		IsAnonymous:    in.IsAnonymous,
		Type:           postType,
		StructuredData: in.StructuredData,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.GetPost(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, []*models.Post{post}, currentUserID); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	filter := repository.PostFilter{
		Type:   in.Type,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.Hashtag != "" {
		filter.Hashtag = models.NormalizeHashtag(in.Hashtag)
	}
	if in.Type != "" && !models.IsValidPostType(in.Type) {
		return nil, models.NewValidationError("post type must be one of general, job, event")
	}

	posts, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, posts, in.CurrentUserID); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostService) ListPostsByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	posts, err := s.postRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, posts, currentUserID); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost edits the free-text content of the caller's own post. The
// hashtag, type, anonymity flag and structured payload are immutable after
// creation.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID == nil || *post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if err := validation.ValidatePost(post.Type, in.Content, post.Hashtag, post.StructuredData); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post.Content = in.Content
	post.User = nil
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.GetPost(ctx, post.ID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID == nil || *post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// decorate fills the computed engagement fields on each post and hides the
// author of anonymous posts. currentUserID may be zero for guests.
func (s *PostService) decorate(ctx context.Context, posts []*models.Post, currentUserID uint) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	histograms, err := s.engagementRepo.ReactionHistogramForPosts(ctx, postIDs)
	if err != nil {
		return err
	}

	var ownReactions map[uint]string
	if currentUserID != 0 {
		ownReactions, err = s.engagementRepo.ReactionsForUser(ctx, currentUserID, postIDs)
		if err != nil {
			return err
		}
	}

	for _, p := range posts {
		histogram := histograms[p.ID]
		if histogram == nil {
			histogram = map[string]int{}
		}
		p.Reactions = histogram

		total := 0
		for _, n := range histogram {
			total += n
		}
		p.ReactionCount = total
		p.LikeCount = histogram[models.ReactionLike]
		p.AngryCount = histogram[models.ReactionAngry]

		if ownReactions != nil {
			p.CurrentUserReaction = ownReactions[p.ID]
		}
		p.HideAuthor()
	}
	return nil
}
