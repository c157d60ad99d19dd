package service

import (
	"context"
	"testing"
	"time"

	"gridcode/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_RecordView_SelfViewIgnored(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	ctx := context.Background()

	require.NoError(t, env.profiles.RecordView(ctx, alice.ID, alice.ID))

	count, err := env.profiles.ViewCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestProfileService_RecordView_DeduplicationWindow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	ctx := context.Background()

	current := time.Now().UTC()
	env.profiles.now = func() time.Time { return current }

	require.NoError(t, env.profiles.RecordView(ctx, bob.ID, alice.ID))
	require.NoError(t, env.profiles.RecordView(ctx, bob.ID, alice.ID))

	count, err := env.profiles.ViewCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "repeat view inside the window must not store a second row")

	// Advance past the window; the same viewer counts again.
	current = current.Add(models.ProfileViewWindow + time.Minute)
	require.NoError(t, env.profiles.RecordView(ctx, bob.ID, alice.ID))

	count, err = env.profiles.ViewCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestProfileService_Viewers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	ctx := context.Background()

	current := time.Now().UTC()
	env.profiles.now = func() time.Time { return current }

	require.NoError(t, env.profiles.RecordView(ctx, bob.ID, alice.ID))
	current = current.Add(time.Minute)
	require.NoError(t, env.profiles.RecordView(ctx, carol.ID, alice.ID))

	viewers, err := env.profiles.Viewers(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, viewers, 2)
	assert.Equal(t, "carol", viewers[0].Viewer.Username)
	assert.Equal(t, "bob", viewers[1].Viewer.Username)
}

func TestProfileService_Analytics_BucketsPerUTCDay(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	ctx := context.Background()

	day1 := time.Date(2026, 8, 20, 23, 30, 0, 0, time.UTC)
	env.profiles.now = func() time.Time { return day1 }
	require.NoError(t, env.profiles.RecordView(ctx, bob.ID, alice.ID))

	// 40 minutes later, but already the next UTC day.
	day2 := day1.Add(40 * time.Minute)
	env.profiles.now = func() time.Time { return day2 }
	require.NoError(t, env.profiles.RecordView(ctx, carol.ID, alice.ID))

	// Bob comes back after his window expired, still on day two.
	day2Later := day1.Add(2 * time.Hour)
	env.profiles.now = func() time.Time { return day2Later }
	require.NoError(t, env.profiles.RecordView(ctx, bob.ID, alice.ID))

	buckets, err := env.profiles.Analytics(ctx, alice.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, []models.DayCount{
		{Date: "2026-08-20", Count: 1},
		{Date: "2026-08-21", Count: 2},
	}, buckets)
}
