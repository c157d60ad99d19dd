package memstore

import (
	"context"
	"time"

	"gridcode/internal/models"
	"gridcode/internal/repository"
)

// The Store's method names are prefixed per entity, so thin adapters map it
// onto the repository interfaces. Every adapter shares the same Store and
// therefore the same lock and data.

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.s.GetUserByID(ctx, id)
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.s.GetUserByEmail(ctx, email)
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.s.GetUserByUsername(ctx, username)
}

func (r userRepo) Create(ctx context.Context, user *models.User) error {
	return r.s.CreateUser(ctx, user)
}

func (r userRepo) Update(ctx context.Context, user *models.User) error {
	return r.s.UpdateUser(ctx, user)
}

type postRepo struct{ s *Store }

func (r postRepo) Create(ctx context.Context, post *models.Post) error {
	return r.s.CreatePost(ctx, post)
}

func (r postRepo) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return r.s.GetPostByID(ctx, id)
}

func (r postRepo) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	return r.s.ListPosts(ctx, filter)
}

func (r postRepo) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return r.s.GetPostsByUserID(ctx, userID, limit, offset)
}

func (r postRepo) Update(ctx context.Context, post *models.Post) error {
	return r.s.UpdatePost(ctx, post)
}

func (r postRepo) Delete(ctx context.Context, id uint) error {
	return r.s.DeletePost(ctx, id)
}

func (r postRepo) TrendingHashtags(ctx context.Context, limit int) ([]models.HashtagCount, error) {
	return r.s.TrendingHashtags(ctx, limit)
}

type commentRepo struct{ s *Store }

func (r commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	return r.s.CreateComment(ctx, comment)
}

func (r commentRepo) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return r.s.GetCommentByID(ctx, id)
}

func (r commentRepo) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return r.s.ListCommentsByPost(ctx, postID)
}

func (r commentRepo) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return r.s.CountCommentsByPost(ctx, postID)
}

type inviteRepo struct{ s *Store }

func (r inviteRepo) Create(ctx context.Context, invite *models.Invite) error {
	return r.s.CreateInvite(ctx, invite)
}

func (r inviteRepo) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	return r.s.GetInviteByCode(ctx, code)
}

func (r inviteRepo) MarkUsed(ctx context.Context, code string, usedByUserID uint) error {
	return r.s.MarkInviteUsed(ctx, code, usedByUserID)
}

type profileViewRepo struct{ s *Store }

func (r profileViewRepo) Create(ctx context.Context, view *models.ProfileView) error {
	return r.s.CreateProfileView(ctx, view)
}

func (r profileViewRepo) HasRecent(ctx context.Context, viewerID, profileUserID uint, since time.Time) (bool, error) {
	return r.s.HasRecent(ctx, viewerID, profileUserID, since)
}

func (r profileViewRepo) CountByProfile(ctx context.Context, profileUserID uint) (int64, error) {
	return r.s.CountByProfile(ctx, profileUserID)
}

func (r profileViewRepo) ListViewers(ctx context.Context, profileUserID uint, limit int) ([]*models.ProfileView, error) {
	return r.s.ListViewers(ctx, profileUserID, limit)
}

func (r profileViewRepo) RecentViews(ctx context.Context, profileUserID uint, since time.Time) ([]*models.ProfileView, error) {
	return r.s.RecentViews(ctx, profileUserID, since)
}

// Users exposes the store as a UserRepository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Posts exposes the store as a PostRepository.
func (s *Store) Posts() repository.PostRepository { return postRepo{s} }

// Engagements exposes the store as an EngagementRepository.
func (s *Store) Engagements() repository.EngagementRepository { return s }

// Comments exposes the store as a CommentRepository.
func (s *Store) Comments() repository.CommentRepository { return commentRepo{s} }

// Invites exposes the store as an InviteRepository.
func (s *Store) Invites() repository.InviteRepository { return inviteRepo{s} }

// ProfileViews exposes the store as a ProfileViewRepository.
func (s *Store) ProfileViews() repository.ProfileViewRepository { return profileViewRepo{s} }
