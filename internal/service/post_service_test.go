package service

import (
	"context"
	"encoding/json"
	"testing"

	"gridcode/internal/memstore"
	"gridcode/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store      *memstore.Store
	posts      *PostService
	engagement *EngagementService
	comments   *CommentService
	hashtags   *HashtagService
	invites    *InviteService
	profiles   *ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.New()
	return &testEnv{
		store:      store,
		posts:      NewPostService(store.Posts(), store.Engagements()),
		engagement: NewEngagementService(store.Engagements(), store.Posts()),
		comments:   NewCommentService(store.Comments(), store.Posts()),
		hashtags:   NewHashtagService(store.Posts(), store.Engagements(), nil),
		invites:    NewInviteService(store.Invites()),
		profiles:   NewProfileService(store.ProfileViews(), store.Users()),
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		FullName: "Test " + username,
	}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return user
}

func (e *testEnv) post(t *testing.T, userID uint, hashtag string) *models.Post {
	t.Helper()
	post, err := e.posts.CreatePost(context.Background(), CreatePostInput{
		UserID:  userID,
		Content: "Some post content about " + hashtag,
		Hashtag: hashtag,
	})
	require.NoError(t, err)
	return post
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestPostService_CreatePost_NormalizesHashtag(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	post, err := env.posts.CreatePost(context.Background(), CreatePostInput{
		UserID:  alice.ID,
		Content: "Hashtags work without the prefix too",
		Hashtag: "golang",
	})
	require.NoError(t, err)
	assert.Equal(t, "#golang", post.Hashtag)
	assert.Equal(t, models.PostTypeGeneral, post.Type)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	ctx := context.Background()

	_, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Content: "Hi", Hashtag: "#go"})
	assertValidationError(t, err)

	_, err = env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Content: "No hashtag on this one"})
	assertValidationError(t, err)

	_, err = env.posts.CreatePost(ctx, CreatePostInput{
		UserID:  alice.ID,
		Content: "Job post without payload",
		Hashtag: "#job",
		Type:    models.PostTypeJob,
	})
	assertValidationError(t, err)
}

func TestPostService_CreatePost_JobWithPayload(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	payload, err := json.Marshal(map[string]string{
		"jobTitle":    "Backend Engineer",
		"company":     "Acme",
		"location":    "Remote",
		"jobType":     "full-time",
		"experience":  "mid",
		"description": "Own and evolve our Go services end to end.",
	})
	require.NoError(t, err)

	post, err := env.posts.CreatePost(context.Background(), CreatePostInput{
		UserID:         alice.ID,
		Content:        "We are hiring a backend engineer.",
		Hashtag:        "#job",
		Type:           models.PostTypeJob,
		StructuredData: payload,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PostTypeJob, post.Type)
	assert.NotEmpty(t, post.StructuredData)
}

func TestPostService_AnonymousPostHidesAuthor(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	post, err := env.posts.CreatePost(context.Background(), CreatePostInput{
		UserID:      alice.ID,
		Content:     "Posting this one anonymously",
		Hashtag:     "#question",
		IsAnonymous: true,
	})
	require.NoError(t, err)
	assert.Nil(t, post.User)
	assert.Nil(t, post.UserID)

	// The row itself still stores the author.
	listed, err := env.posts.ListPostsByUser(context.Background(), alice.ID, 10, 0, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestPostService_UpdatePost_AuthorOnly(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "#go")
	ctx := context.Background()

	_, err := env.posts.UpdatePost(ctx, UpdatePostInput{UserID: bob.ID, PostID: post.ID, Content: "Hijacked content here"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	updated, err := env.posts.UpdatePost(ctx, UpdatePostInput{UserID: alice.ID, PostID: post.ID, Content: "Edited by the author"})
	require.NoError(t, err)
	assert.Equal(t, "Edited by the author", updated.Content)
	assert.Equal(t, post.Hashtag, updated.Hashtag)
}

func TestPostService_DeletePost_AuthorOnly(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "#go")
	ctx := context.Background()

	err := env.posts.DeletePost(ctx, post.ID, bob.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	require.NoError(t, env.posts.DeletePost(ctx, post.ID, alice.ID))
	_, err = env.posts.GetPost(ctx, post.ID, 0)
	assert.Error(t, err)
}

func TestPostService_DecorateReactionFields(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	post := env.post(t, alice.ID, "#go")
	ctx := context.Background()

	_, err := env.engagement.React(ctx, ReactInput{UserID: bob.ID, PostID: post.ID, Kind: models.ReactionLike})
	require.NoError(t, err)
	_, err = env.engagement.React(ctx, ReactInput{UserID: carol.ID, PostID: post.ID, Kind: models.ReactionAngry})
	require.NoError(t, err)

	got, err := env.posts.GetPost(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ReactionCount)
	assert.Equal(t, 1, got.LikeCount)
	assert.Equal(t, 1, got.AngryCount)
	assert.Equal(t, map[string]int{"like": 1, "angry": 1}, got.Reactions)
	assert.Equal(t, models.ReactionLike, got.CurrentUserReaction)

	asGuest, err := env.posts.GetPost(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, asGuest.CurrentUserReaction)
}
