package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestEventRepository_SlugExists_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "events" WHERE slug = \$1`).
		WithArgs("launch-party").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.SlugExists(context.Background(), "launch-party")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_FindBySlug_NotFound_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "events" WHERE slug = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug"}))

	_, err := repo.FindBySlug(context.Background(), "missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_AddRSVP_UsesOnConflict_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "event_rsvps" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	created, err := repo.AddRSVP(context.Background(), 3, 9)
	require.NoError(t, err)
	require.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}
