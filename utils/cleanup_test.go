package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestCleanExpiredUploadsSweepsOnlyExpiredRows(t *testing.T) {
	db, mock := newMockDB(t)

	path := filepath.Join(t.TempDir(), "stale.png")
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))

	now := time.Now()
	// Rows inside their TTL are excluded by the expire_at bound in the
	// query itself; the sweep only ever sees (and deletes) expired ones.
	mock.ExpectQuery("SELECT (.+) FROM `uploaded_files` WHERE expire_at <= ").
		WillReturnRows(sqlmock.NewRows([]string{"id", "file_path", "url", "expire_at", "created_at", "updated_at"}).
			AddRow(1, path, "/uploads/stale.png", now.Add(-time.Minute), now, now))
	mock.ExpectExec("DELETE FROM `uploaded_files`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cleanExpiredUploads(db)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expired upload file should be removed")
	assert.NoError(t, mock.ExpectationsWereMet(), "exactly one row delete, none beyond the expired set")
}

func TestCleanExpiredUploadsTolerantOfMissingFile(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `uploaded_files` WHERE expire_at <= ").
		WillReturnRows(sqlmock.NewRows([]string{"id", "file_path", "url", "expire_at", "created_at", "updated_at"}).
			AddRow(2, filepath.Join(t.TempDir(), "never-written.png"), "/uploads/never-written.png", now.Add(-time.Minute), now, now))
	mock.ExpectExec("DELETE FROM `uploaded_files`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cleanExpiredUploads(db)

	assert.NoError(t, mock.ExpectationsWereMet(), "row removed even when the file is already gone")
}
