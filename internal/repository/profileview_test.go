package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileViewRepository_HasRecent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileViewRepository(db)
	ctx := context.Background()
	since := time.Now().Add(-time.Hour)

	t.Run("Within Window", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "profile_views" WHERE viewer_id = .+ AND profile_user_id = .+ AND viewed_at > .+`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		recent, err := repo.HasRecent(ctx, 1, 2, since)
		require.NoError(t, err)
		assert.True(t, recent)
	})

	t.Run("Window Expired", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "profile_views"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		recent, err := repo.HasRecent(ctx, 1, 2, since)
		require.NoError(t, err)
		assert.False(t, recent)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileViewRepository_ListViewers(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileViewRepository(db)
	ctx := context.Background()

	viewRows := sqlmock.NewRows([]string{"id", "viewer_id", "profile_user_id"}).
		AddRow(1, 10, 2).
		AddRow(2, 11, 2)
	mock.ExpectQuery(`SELECT \* FROM "profile_views" WHERE profile_user_id = .+ ORDER BY viewed_at DESC`).
		WillReturnRows(viewRows)

	userRows := sqlmock.NewRows([]string{"id", "username"}).
		AddRow(10, "alice").
		AddRow(11, "bob")
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" IN`).
		WillReturnRows(userRows)

	views, err := repo.ListViewers(ctx, 2, 20)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[0].Viewer)
	assert.Equal(t, "alice", views[0].Viewer.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
