package service

import (
	"context"
	"testing"

	"gridcode/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementService_React_InvalidKind(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	post := env.post(t, alice.ID, "#go")

	_, err := env.engagement.React(context.Background(), ReactInput{
		UserID: alice.ID,
		PostID: post.ID,
		Kind:   "dislike",
	})
	assertValidationError(t, err)
}

func TestEngagementService_React_UnknownPost(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	_, err := env.engagement.React(context.Background(), ReactInput{
		UserID: alice.ID,
		PostID: 999,
		Kind:   models.ReactionLike,
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestEngagementService_React_ReplacesKind(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "#go")
	ctx := context.Background()

	first, err := env.engagement.React(ctx, ReactInput{UserID: bob.ID, PostID: post.ID, Kind: models.ReactionSad})
	require.NoError(t, err)
	assert.Equal(t, models.ReactionSad, first.Kind)

	second, err := env.engagement.React(ctx, ReactInput{UserID: bob.ID, PostID: post.ID, Kind: models.ReactionHaha})
	require.NoError(t, err)
	assert.Equal(t, models.ReactionHaha, second.Kind)

	got, err := env.posts.GetPost(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ReactionCount)
	assert.Equal(t, map[string]int{"haha": 1}, got.Reactions)
}

func TestEngagementService_Endorse(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "#go")
	ctx := context.Background()

	endorsement, err := env.engagement.Endorse(ctx, EndorseInput{
		UserID: bob.ID,
		PostID: post.ID,
		Type:   models.EndorsementPositive,
	})
	require.NoError(t, err)
	assert.Equal(t, "#go", endorsement.Hashtag)

	// Same type again is a conflict.
	_, err = env.engagement.Endorse(ctx, EndorseInput{
		UserID: bob.ID,
		PostID: post.ID,
		Type:   models.EndorsementPositive,
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	// A different type flips the stored endorsement instead.
	flipped, err := env.engagement.Endorse(ctx, EndorseInput{
		UserID: bob.ID,
		PostID: post.ID,
		Type:   models.EndorsementNegative,
	})
	require.NoError(t, err)
	assert.Equal(t, models.EndorsementNegative, flipped.Type)
	assert.Equal(t, endorsement.ID, flipped.ID)
}

func TestEngagementService_HashtagReputation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	goPost := env.post(t, alice.ID, "#go")
	jobPost := env.post(t, alice.ID, "#jobs")
	ctx := context.Background()

	_, err := env.engagement.React(ctx, ReactInput{UserID: bob.ID, PostID: goPost.ID, Kind: models.ReactionLike})
	require.NoError(t, err)
	_, err = env.engagement.React(ctx, ReactInput{UserID: carol.ID, PostID: goPost.ID, Kind: models.ReactionWow})
	require.NoError(t, err)
	_, err = env.engagement.Endorse(ctx, EndorseInput{UserID: bob.ID, PostID: jobPost.ID, Type: models.EndorsementPositive})
	require.NoError(t, err)

	reputation, err := env.engagement.HashtagReputation(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.HashtagCount{
		{Hashtag: "#go", Count: 2},
		{Hashtag: "#jobs", Count: 1},
	}, reputation)
}
