package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hyeonsu-lee/goboard/models"
	"github.com/hyeonsu-lee/goboard/utils"
)

// NoticeService implements the notice mutators. Notices are authored
// and managed exclusively by administrators; authorship alone never
// grants modification rights, the role is the authorization boundary
// of record.
type NoticeService struct {
	db *gorm.DB
}

// NewNoticeService creates a NoticeService.
func NewNoticeService(db *gorm.DB) *NoticeService {
	return &NoticeService{db: db}
}

// List returns all notices, pinned first, then newest.
func (s *NoticeService) List() ([]models.Notice, error) {
	var notices []models.Notice
	err := s.db.Preload("Author").
		Order("is_pinned DESC, created_at DESC").
		Find(&notices).Error
	if err != nil {
		return nil, err
	}
	return notices, nil
}

// Get loads one notice with its author.
func (s *NoticeService) Get(id uint) (*models.Notice, error) {
	var notice models.Notice
	if err := s.db.Preload("Author").First(&notice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &notice, nil
}

// NoticeInput carries the fields for a new notice.
type NoticeInput struct {
	Title    string
	Content  string
	IsPinned bool
}

// Create inserts a notice. Only administrators may create notices.
func (s *NoticeService) Create(actor *models.User, in NoticeInput) (*models.Notice, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	title := utils.StripTags(strings.TrimSpace(in.Title))
	if title == "" {
		return nil, Invalid("title is required")
	}
	content := utils.Sanitize(in.Content)
	if strings.TrimSpace(content) == "" {
		return nil, Invalid("content is required")
	}

	notice := models.Notice{
		UserID:   actor.ID,
		Title:    title,
		Content:  content,
		IsPinned: in.IsPinned,
	}
	if err := s.db.Create(&notice).Error; err != nil {
		return nil, err
	}

	utils.InvalidateByPrefix("cache:notices:")
	return &notice, nil
}

// NoticeUpdate carries partial-update fields for a notice.
type NoticeUpdate struct {
	Title    *string
	Content  *string
	IsPinned *bool
}

// Update applies the supplied fields. The existence check runs before
// the role gate so a missing notice reports not-found, not forbidden.
func (s *NoticeService) Update(actor *models.User, id uint, in NoticeUpdate) (*models.Notice, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	var notice models.Notice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&notice, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !actor.IsAdmin() {
			return ErrForbidden
		}

		if in.Title != nil {
			title := utils.StripTags(strings.TrimSpace(*in.Title))
			if title == "" {
				return Invalid("title cannot be empty")
			}
			notice.Title = title
		}
		if in.Content != nil {
			content := utils.Sanitize(*in.Content)
			if strings.TrimSpace(content) == "" {
				return Invalid("content cannot be empty")
			}
			notice.Content = content
		}
		if in.IsPinned != nil {
			notice.IsPinned = *in.IsPinned
		}
		return tx.Save(&notice).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InvalidateByPrefix("cache:notices:")
	return &notice, nil
}

// Delete removes a notice after the existence and role checks.
func (s *NoticeService) Delete(actor *models.User, id uint) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var notice models.Notice
		if err := tx.First(&notice, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !actor.IsAdmin() {
			return ErrForbidden
		}
		return tx.Delete(&notice).Error
	})
	if err != nil {
		return err
	}

	utils.InvalidateByPrefix("cache:notices:")
	return nil
}
