package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockProductRepo(t *testing.T) (ProductRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return NewProductRepository(db), mock
}

func TestUpsertBatchPreservesExistingThumbnailOnBlank(t *testing.T) {
	repo, mock := newMockProductRepo(t)
	id := uuid.New()

	// A blank incoming thumbnail must never erase the stored one: the upsert
	// has to fall back to the current column value, not assign excluded's.
	mock.ExpectBegin()
	mock.ExpectQuery(
		`INSERT INTO "products".*ON CONFLICT \("product_no_norm"\) DO UPDATE SET.*` +
			regexp.QuoteMeta(`"thumbnail_path"=COALESCE(NULLIF(excluded.thumbnail_path, ''), products.thumbnail_path)`) +
			`.*RETURNING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectCommit()

	got, err := repo.UpsertBatch(context.Background(), []model.Product{
		{ProductNo: "A-1", ProductNoNorm: "A-1"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBatchConflictTargetIsNormColumn(t *testing.T) {
	repo, mock := newMockProductRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`ON CONFLICT \("product_no_norm"\) DO UPDATE SET.*` +
		regexp.QuoteMeta(`"product_no"=excluded.product_no`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	_, err := repo.UpsertBatch(context.Background(), []model.Product{
		{ProductNo: "ab-1", ProductNoNorm: "AB-1"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBatchEmptyInputSkipsStore(t *testing.T) {
	repo, mock := newMockProductRepo(t)

	got, err := repo.UpsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
