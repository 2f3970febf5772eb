package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeonsu-lee/goboard/models"
)

func noticeRows(id, userID uint) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "title", "content", "is_pinned", "created_at", "updated_at",
	}).AddRow(id, userID, "maintenance", "downtime tonight", false, now, now)
}

func TestNoticeCreateForbiddenForRegularUser(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewNoticeService(db)

	_, err := svc.Create(testUser(2, models.RoleUser), NoticeInput{
		Title:   "maintenance",
		Content: "downtime tonight",
	})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeUpdateMissingReportsNotFoundBeforeRoleCheck(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewNoticeService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `notices`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	title := "changed"
	_, err := svc.Update(testUser(2, models.RoleUser), 9, NoticeUpdate{Title: &title})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeUpdateForbiddenEvenForAuthor(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewNoticeService(db)

	// The actor authored the notice but lost the admin role; ownership
	// does not grant notice rights.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `notices`").
		WillReturnRows(noticeRows(9, 2))
	mock.ExpectRollback()

	title := "changed"
	_, err := svc.Update(testUser(2, models.RoleUser), 9, NoticeUpdate{Title: &title})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeUpdateAppliesSuppliedFieldsOnly(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewNoticeService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `notices`").
		WillReturnRows(noticeRows(9, 1))
	mock.ExpectExec("UPDATE `notices` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	pinned := true
	notice, err := svc.Update(testUser(1, models.RoleAdmin), 9, NoticeUpdate{IsPinned: &pinned})

	require.NoError(t, err)
	assert.True(t, notice.IsPinned)
	assert.Equal(t, "maintenance", notice.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeDeleteForbiddenForRegularUser(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewNoticeService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `notices`").
		WillReturnRows(noticeRows(9, 1))
	mock.ExpectRollback()

	err := svc.Delete(testUser(2, models.RoleUser), 9)

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}
