package memstore

import (
	"context"
	"testing"
	"time"

	"gridcode/internal/models"
	"gridcode/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		FullName: "Test " + username,
	}
	require.NoError(t, s.Users().Create(context.Background(), user))
	return user
}

func seedPost(t *testing.T, s *Store, userID uint, hashtag string) *models.Post {
	t.Helper()
	post := &models.Post{
		Content: "Content for " + hashtag,
		Hashtag: hashtag,
		UserID:  &userID,
		Type:    models.PostTypeGeneral,
	}
	require.NoError(t, s.Posts().Create(context.Background(), post))
	return post
}

func TestStore_UserUniqueness(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	seedUser(t, s, "alice")

	err := s.Users().Create(ctx, &models.User{Username: "ALICE", Email: "other@example.com"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	err = s.Users().Create(ctx, &models.User{Username: "other", Email: "Alice@example.com"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestStore_PostListFiltering(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	seedPost(t, s, alice.ID, "#go")
	seedPost(t, s, alice.ID, "#go")
	seedPost(t, s, alice.ID, "#jobs")

	posts, err := s.Posts().List(ctx, repository.PostFilter{Hashtag: "#go"})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = s.Posts().List(ctx, repository.PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	require.NotNil(t, posts[0].User)
	assert.Equal(t, "alice", posts[0].User.Username)
}

func TestStore_ReactionUpsert(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	post := seedPost(t, s, alice.ID, "#go")

	require.NoError(t, s.Engagements().SetReaction(ctx, alice.ID, post.ID, models.ReactionLike))
	require.NoError(t, s.Engagements().SetReaction(ctx, alice.ID, post.ID, models.ReactionWow))

	histogram, err := s.Engagements().ReactionHistogramForPosts(ctx, []uint{post.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"wow": 1}, histogram[post.ID])

	reaction, err := s.Engagements().GetReaction(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, reaction)
	assert.Equal(t, models.ReactionWow, reaction.Kind)
}

func TestStore_EndorsementDuplicateConflict(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	post := seedPost(t, s, alice.ID, "#go")

	e := &models.Endorsement{PostID: post.ID, UserID: bob.ID, Hashtag: "#go", Type: models.EndorsementPositive}
	require.NoError(t, s.Engagements().CreateEndorsement(ctx, e))

	dup := &models.Endorsement{PostID: post.ID, UserID: bob.ID, Hashtag: "#go", Type: models.EndorsementPositive}
	err := s.Engagements().CreateEndorsement(ctx, dup)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestStore_HashtagReputationMergesModels(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	carol := seedUser(t, s, "carol")
	goPost := seedPost(t, s, alice.ID, "#go")
	jobPost := seedPost(t, s, alice.ID, "#jobs")

	require.NoError(t, s.Engagements().SetReaction(ctx, bob.ID, goPost.ID, models.ReactionLike))
	require.NoError(t, s.Engagements().SetReaction(ctx, carol.ID, goPost.ID, models.ReactionLove))
	require.NoError(t, s.Engagements().CreateEndorsement(ctx, &models.Endorsement{
		PostID: jobPost.ID, UserID: bob.ID, Hashtag: "#jobs", Type: models.EndorsementPositive,
	}))

	reputation, err := s.Engagements().HashtagReputationForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.HashtagCount{
		{Hashtag: "#go", Count: 2},
		{Hashtag: "#jobs", Count: 1},
	}, reputation)
}

func TestStore_TrendingHashtagsTieBreak(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	seedPost(t, s, alice.ID, "#zebra")
	seedPost(t, s, alice.ID, "#alpha")

	trending, err := s.Posts().TrendingHashtags(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []models.HashtagCount{
		{Hashtag: "#alpha", Count: 1},
		{Hashtag: "#zebra", Count: 1},
	}, trending)
}

func TestStore_InviteLifecycle(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	alice := seedUser(t, s, "alice")

	invite := &models.Invite{Code: "JOIN-0001", InvitedByUserID: alice.ID}
	require.NoError(t, s.Invites().Create(ctx, invite))

	found, err := s.Invites().GetByCode(ctx, "JOIN-0001")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.Used())

	require.NoError(t, s.Invites().MarkUsed(ctx, "JOIN-0001", 99))

	err = s.Invites().MarkUsed(ctx, "JOIN-0001", 100)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	found, err = s.Invites().GetByCode(ctx, "JOIN-0001")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Used())
	require.NotNil(t, found.UsedByUserID)
	assert.Equal(t, uint(99), *found.UsedByUserID)
}

func TestStore_ProfileViews(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	view := &models.ProfileView{ViewerID: bob.ID, ProfileUserID: alice.ID, ViewedAt: time.Now().UTC()}
	require.NoError(t, s.ProfileViews().Create(ctx, view))

	recent, err := s.ProfileViews().HasRecent(ctx, bob.ID, alice.ID, time.Now().Add(-models.ProfileViewWindow))
	require.NoError(t, err)
	assert.True(t, recent)

	count, err := s.ProfileViews().CountByProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	viewers, err := s.ProfileViews().ListViewers(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, viewers, 1)
	require.NotNil(t, viewers[0].Viewer)
	assert.Equal(t, "bob", viewers[0].Viewer.Username)
}
