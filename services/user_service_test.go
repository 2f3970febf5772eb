package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeonsu-lee/goboard/models"
	"github.com/hyeonsu-lee/goboard/utils"
)

func userRows(id uint, email, passwordHash string, role models.Role) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "nickname", "role", "created_at", "updated_at",
	}).AddRow(id, email, passwordHash, "someone", string(role), now, now)
}

func TestRegisterDuplicateEmailWritesNothing(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewUserService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(userRows(3, "taken@example.com", "x", models.RoleUser))

	_, err := svc.Register(RegisterInput{
		Email:    "taken@example.com",
		Password: "password123",
		Nickname: "newbie",
	})

	assert.True(t, IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterShortPasswordRejected(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewUserService(db, NewUploadService(db, t.TempDir()))

	_, err := svc.Register(RegisterInput{
		Email:    "new@example.com",
		Password: "short",
		Nickname: "newbie",
	})

	assert.True(t, IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterCreatesRegularUser(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewUserService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(5, 1))

	user, err := svc.Register(RegisterInput{
		Email:    "new@example.com",
		Password: "password123",
		Nickname: "newbie",
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, utils.CheckPassword(user.PasswordHash, "password123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticateWrongPassword(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewUserService(db, NewUploadService(db, t.TempDir()))

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(userRows(3, "user@example.com", hash, models.RoleUser))

	_, err = svc.Authenticate("user@example.com", "wrong-horse")

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewUserService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Authenticate("ghost@example.com", "whatever")

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAdminUpdateForbiddenForRegularUser(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewUserService(db, NewUploadService(db, t.TempDir()))

	_, err := svc.UpdateAccount(testUser(2, models.RoleUser), 3, AdminUserUpdate{Nickname: "x"})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateRejectsUnknownRole(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewUserService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(userRows(3, "user@example.com", "x", models.RoleUser))
	mock.ExpectRollback()

	_, err := svc.UpdateAccount(testUser(1, models.RoleAdmin), 3, AdminUserUpdate{
		Nickname: "someone",
		Role:     "SUPERUSER",
	})

	assert.True(t, IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateSetsPasswordWithoutCurrentOne(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewUserService(db, NewUploadService(db, t.TempDir()))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(userRows(3, "user@example.com", "old-hash", models.RoleUser))
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user, err := svc.UpdateAccount(testUser(1, models.RoleAdmin), 3, AdminUserUpdate{
		Nickname:    "someone",
		NewPassword: "reset-password-1",
	})

	require.NoError(t, err)
	assert.True(t, utils.CheckPassword(user.PasswordHash, "reset-password-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfilePasswordChangeNeedsCurrentPassword(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewUserService(db, NewUploadService(db, t.TempDir()))

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(userRows(2, "user@example.com", hash, models.RoleUser))
	mock.ExpectRollback()

	_, err = svc.UpdateProfile(testUser(2, models.RoleUser), ProfileUpdate{
		Nickname:        "someone",
		CurrentPassword: "not-the-password",
		NewPassword:     "brand-new-pass",
	})

	assert.True(t, IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountRequiresPassword(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewUserService(db, NewUploadService(db, t.TempDir()))

	err := svc.DeleteAccount(testUser(2, models.RoleUser), "")

	assert.True(t, IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountCascades(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewUserService(db, NewUploadService(db, t.TempDir()))

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(userRows(2, "user@example.com", hash, models.RoleUser))
	mock.ExpectQuery("SELECT `id` FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9).AddRow(10))
	mock.ExpectQuery("SELECT `image_url` FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"image_url"}))
	mock.ExpectExec("DELETE FROM `comments`").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM `comments`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `posts`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = svc.DeleteAccount(testUser(2, models.RoleUser), "correct-horse")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
