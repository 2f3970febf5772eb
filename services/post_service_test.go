package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeonsu-lee/goboard/models"
)

func TestPostUpdateUnauthenticatedBeforeStorage(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewPostService(db, NewUploadService(db, t.TempDir()))

	title := "new title"
	_, err := svc.Update(nil, 1, PostUpdate{Title: &title})

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostUpdateNotFoundBeforeOwnership(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewPostService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	title := "new title"
	_, err := svc.Update(testUser(2, models.RoleUser), 9, PostUpdate{Title: &title})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostUpdateForbiddenForNonOwner(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewPostService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(postRows(9, 7, "title", "body", "general"))
	mock.ExpectRollback()

	title := "new title"
	_, err := svc.Update(testUser(2, models.RoleUser), 9, PostUpdate{Title: &title})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostUpdateAdminMayEditOthersPost(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewPostService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(postRows(9, 7, "title", "body", "general"))
	mock.ExpectExec("UPDATE `posts` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	title := "moderated"
	post, err := svc.Update(testUser(2, models.RoleAdmin), 9, PostUpdate{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "moderated", post.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostUpdateKeepsUnsuppliedFields(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewPostService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(postRows(9, 7, "old title", "old body", "tech"))
	mock.ExpectExec("UPDATE `posts` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	title := "new title"
	post, err := svc.Update(testUser(7, models.RoleUser), 9, PostUpdate{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "new title", post.Title)
	assert.Equal(t, "old body", post.Content)
	assert.Equal(t, "tech", post.Category)
	assert.Nil(t, post.ImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostDeleteCascadesComments(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewPostService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(postRows(9, 7, "title", "body", "general"))
	mock.ExpectExec("DELETE FROM `comments`").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM `posts`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Delete(testUser(7, models.RoleUser), 9)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostDeleteSucceedsWhenImageFileAlreadyGone(t *testing.T) {
	db, mock := newTestDB(t)
	uploadDir := t.TempDir()
	svc := NewPostService(db, NewUploadService(db, uploadDir))

	// The row references an image whose file was never written to the
	// upload dir; the delete must still commit.
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "content", "category", "image_url", "view_count", "created_at", "updated_at",
	}).AddRow(9, 7, "title", "body", "general", "/uploads/already-gone.png", 0, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `posts`").WillReturnRows(rows)
	mock.ExpectExec("DELETE FROM `comments`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `posts`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Delete(testUser(7, models.RoleUser), 9)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostDeleteTwiceReportsNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewPostService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := svc.Delete(testUser(7, models.RoleUser), 9)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostGetMissingReportsNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewPostService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectExec("UPDATE `posts` SET `view_count`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Get(404)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEmptyQueryRejectedBeforeStorage(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewPostService(db, NewUploadService(db, t.TempDir()))

	_, _, err := svc.Search(SearchQuery{Query: "   "})

	assert.True(t, IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchUnknownTypeFallsBackToAllFields(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewPostService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectQuery("SELECT count(.+) FROM `posts` JOIN users (.+)title LIKE (.+)content LIKE (.+)nickname LIKE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM `posts` JOIN users (.+)title LIKE (.+)content LIKE (.+)nickname LIKE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, page, err := svc.Search(SearchQuery{Query: "hello", Type: "tag"})

	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDetachImageRequiresMatchingURL(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewPostService(db, NewUploadService(db, t.TempDir()))

	rows := postRows(9, 7, "title", "body", "general")
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `posts`").WillReturnRows(rows)
	mock.ExpectRollback()

	err := svc.DetachImage(testUser(7, models.RoleUser), 9, "/uploads/other.png")

	assert.True(t, IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
