package repository

import (
	"context"
	"regexp"
	"testing"

	"gridcode/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestInviteRepository_GetByCode(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewInviteRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "code", "invited_by_user_id"}).
			AddRow(1, "WELCOME-1234", 1)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "invites" WHERE code = $1 ORDER BY "invites"."id" LIMIT $2`)).
			WithArgs("WELCOME-1234", 1).
			WillReturnRows(rows)

		invite, err := repo.GetByCode(ctx, "WELCOME-1234")
		require.NoError(t, err)
		require.NotNil(t, invite)
		assert.Equal(t, "WELCOME-1234", invite.Code)
		assert.False(t, invite.Used())
	})

	t.Run("Not Found Returns Nil", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "invites" WHERE code = $1 ORDER BY "invites"."id" LIMIT $2`)).
			WithArgs("NOPE", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		invite, err := repo.GetByCode(ctx, "NOPE")
		assert.NoError(t, err)
		assert.Nil(t, invite)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInviteRepository_MarkUsed(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewInviteRepository(db)
	ctx := context.Background()

	t.Run("Consumes Unused Code", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "invites" SET .+ WHERE code = .+ AND used_at IS NULL`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.MarkUsed(ctx, "WELCOME-1234", 42)
		assert.NoError(t, err)
	})

	t.Run("Already Used Is Conflict", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "invites" SET .+ WHERE code = .+ AND used_at IS NULL`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.MarkUsed(ctx, "WELCOME-1234", 43)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
