package service

import (
	"context"
	"testing"

	"gridcode/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashtagService_Common(t *testing.T) {
	t.Parallel()

	svc := NewHashtagService(nil, nil, []string{"go", "#jobs", " events "})
	assert.Equal(t, []string{"#go", "#jobs", "#events"}, svc.Common())

	fallback := NewHashtagService(nil, nil, nil)
	assert.Contains(t, fallback.Common(), "#gridcode")
}

func TestHashtagService_Trending(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	env.post(t, alice.ID, "#go")
	env.post(t, alice.ID, "#go")
	env.post(t, alice.ID, "#jobs")

	trending, err := env.hashtags.Trending(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []models.HashtagCount{
		{Hashtag: "#go", Count: 2},
		{Hashtag: "#jobs", Count: 1},
	}, trending)
}

func TestHashtagService_Trending_LimitApplied(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	env.post(t, alice.ID, "#a")
	env.post(t, alice.ID, "#b")
	env.post(t, alice.ID, "#c")

	trending, err := env.hashtags.Trending(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, trending, 2)
}

func TestHashtagService_Analytics(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	goPost := env.post(t, alice.ID, "#go")
	env.post(t, alice.ID, "#jobs")
	env.post(t, alice.ID, "#jobs")
	ctx := context.Background()

	_, err := env.engagement.React(ctx, ReactInput{UserID: bob.ID, PostID: goPost.ID, Kind: models.ReactionLove})
	require.NoError(t, err)

	analytics, err := env.hashtags.Analytics(ctx, 10)
	require.NoError(t, err)

	// Posting volume favors #jobs, engagement favors #go.
	assert.Equal(t, models.HashtagCount{Hashtag: "#jobs", Count: 2}, analytics.ByPostCount[0])
	assert.Equal(t, []models.HashtagCount{{Hashtag: "#go", Count: 1}}, analytics.ByEngagement)
}

func TestHashtagService_Analytics_EmptyStore(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	analytics, err := env.hashtags.Analytics(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, analytics.ByPostCount)
	assert.Empty(t, analytics.ByEngagement)
}
