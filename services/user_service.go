package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hyeonsu-lee/goboard/models"
	"github.com/hyeonsu-lee/goboard/utils"
)

// UserService implements registration, authentication, profile and
// admin account management, and the cascading account deletion.
type UserService struct {
	db      *gorm.DB
	uploads *UploadService
}

// NewUserService creates a UserService.
func NewUserService(db *gorm.DB, uploads *UploadService) *UserService {
	return &UserService{db: db, uploads: uploads}
}

// UserAccount is a user together with content counts for display.
type UserAccount struct {
	models.User
	PostCount    int64 `json:"post_count"`
	CommentCount int64 `json:"comment_count"`
}

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	Email    string
	Password string
	Nickname string
}

// Register creates a local account with a bcrypt-hashed password.
// A duplicate email is a validation failure and writes nothing.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	nickname := utils.StripTags(strings.TrimSpace(in.Nickname))
	if email == "" || in.Password == "" || nickname == "" {
		return nil, Invalid("email, password and nickname are all required")
	}
	if !strings.Contains(email, "@") {
		return nil, Invalid("invalid email address")
	}
	if !utils.ValidNewPassword(in.Password) {
		return nil, Invalid("password must be at least 8 characters")
	}

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, Invalid("email is already in use")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Nickname:     nickname,
		Role:         models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials and returns the user. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrUnauthenticated
	}
	return &user, nil
}

// Account returns one user with content counts. Non-admin actors may
// only read their own account.
func (s *UserService) Account(actor *models.User, id uint) (*UserAccount, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if actor.ID != id && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	accounts, err := s.attachCounts([]models.User{user})
	if err != nil {
		return nil, err
	}
	return &accounts[0], nil
}

// ListAccounts returns every user with content counts, newest first.
// Admin only.
func (s *UserService) ListAccounts(actor *models.User) ([]UserAccount, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return s.attachCounts(users)
}

// ProfileUpdate carries the self-service profile fields. A password
// change requires the current password.
type ProfileUpdate struct {
	Nickname        string
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile lets the actor edit their own nickname and password.
func (s *UserService) UpdateProfile(actor *models.User, in ProfileUpdate) (*models.User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	nickname := utils.StripTags(strings.TrimSpace(in.Nickname))
	if nickname == "" {
		return nil, Invalid("nickname is required")
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, actor.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		user.Nickname = nickname

		if in.NewPassword != "" || in.CurrentPassword != "" {
			if !utils.CheckPassword(user.PasswordHash, in.CurrentPassword) {
				return Invalid("current password does not match")
			}
			if !utils.ValidNewPassword(in.NewPassword) {
				return Invalid("password must be at least 8 characters")
			}
			hash, err := utils.HashPassword(in.NewPassword)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminUserUpdate carries the admin-side account fields. Empty strings
// mean "keep". The admin path sets a new password without the current
// one.
type AdminUserUpdate struct {
	Nickname    string
	Email       string
	Role        string
	NewPassword string
}

// UpdateAccount lets an administrator edit any account, including the
// role and password. An email change must not collide with another
// user.
func (s *UserService) UpdateAccount(actor *models.User, id uint, in AdminUserUpdate) (*models.User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	nickname := utils.StripTags(strings.TrimSpace(in.Nickname))
	if nickname == "" {
		return nil, Invalid("nickname is required")
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		user.Nickname = nickname

		email := strings.TrimSpace(in.Email)
		if email != "" && email != user.Email {
			var other models.User
			err := tx.Where("email = ?", email).First(&other).Error
			if err == nil && other.ID != user.ID {
				return Invalid("email is already in use")
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			user.Email = email
		}

		if in.Role != "" {
			role := models.Role(in.Role)
			if !role.Valid() {
				return Invalid("invalid role")
			}
			user.Role = role
		}

		if in.NewPassword != "" {
			if !utils.ValidNewPassword(in.NewPassword) {
				return Invalid("password must be at least 8 characters")
			}
			hash, err := utils.HashPassword(in.NewPassword)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount removes the actor's account after verifying the
// current password. The user's comments, comments on their posts,
// their posts, and the user row are removed in one transaction; image
// files of removed posts are cleaned up best-effort after commit.
func (s *UserService) DeleteAccount(actor *models.User, password string) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if password == "" {
		return Invalid("password is required")
	}

	var images []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, actor.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !utils.CheckPassword(user.PasswordHash, password) {
			return Invalid("password does not match")
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", user.ID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).
			Where("user_id = ? AND image_url IS NOT NULL", user.ID).
			Pluck("image_url", &images).Error; err != nil {
			return err
		}

		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}

	for _, url := range images {
		s.uploads.Remove(url)
	}

	utils.InvalidateByPrefix("cache:posts:")
	return nil
}

// attachCounts fills post/comment counts for a batch of users with two
// grouped queries.
func (s *UserService) attachCounts(users []models.User) ([]UserAccount, error) {
	accounts := make([]UserAccount, len(users))
	if len(users) == 0 {
		return accounts, nil
	}
	ids := make([]uint, 0, len(users))
	for i, u := range users {
		accounts[i] = UserAccount{User: u}
		ids = append(ids, u.ID)
	}

	type row struct {
		UserID uint
		N      int64
	}
	var postRows, commentRows []row
	if err := s.db.Model(&models.Post{}).
		Select("user_id, COUNT(*) AS n").
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&postRows).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Comment{}).
		Select("user_id, COUNT(*) AS n").
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&commentRows).Error; err != nil {
		return nil, err
	}

	posts := make(map[uint]int64, len(postRows))
	for _, r := range postRows {
		posts[r.UserID] = r.N
	}
	comments := make(map[uint]int64, len(commentRows))
	for _, r := range commentRows {
		comments[r.UserID] = r.N
	}
	for i := range accounts {
		accounts[i].PostCount = posts[accounts[i].ID]
		accounts[i].CommentCount = comments[accounts[i].ID]
	}
	return accounts, nil
}
