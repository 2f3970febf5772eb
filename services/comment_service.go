package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hyeonsu-lee/goboard/models"
	"github.com/hyeonsu-lee/goboard/utils"
)

// CommentService implements the comment mutators. The parent post must
// exist before a comment is inserted; referential integrity is checked
// here, not left to the storage layer.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// List returns a post's comments, newest first, with authors.
func (s *CommentService) List(postID uint) ([]models.Comment, error) {
	var post models.Post
	if err := s.db.Select("id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var comments []models.Comment
	err := s.db.Where("post_id = ?", postID).
		Preload("Author").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Create inserts a comment on an existing post and returns it with the
// author preloaded for display.
func (s *CommentService) Create(actor *models.User, postID uint, content string) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	content = utils.Sanitize(content)
	if strings.TrimSpace(content) == "" {
		return nil, Invalid("comment content is required")
	}

	var post models.Post
	if err := s.db.Select("id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  actor.ID,
		Content: content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}

	utils.InvalidateByPrefix("cache:posts:detail:" + utoa(postID))
	return &comment, nil
}

// Update rewrites a comment's content. Existence, ownership, and the
// write run in one transaction.
func (s *CommentService) Update(actor *models.User, id uint, content string) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	var comment models.Comment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !CanModify(actor, comment.UserID) {
			return ErrForbidden
		}
		content = utils.Sanitize(content)
		if strings.TrimSpace(content) == "" {
			return Invalid("comment content is required")
		}
		comment.Content = content
		return tx.Save(&comment).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}

	utils.InvalidateByPrefix("cache:posts:detail:" + utoa(comment.PostID))
	return &comment, nil
}

// Delete removes a comment after the existence and ownership checks.
func (s *CommentService) Delete(actor *models.User, id uint) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	var postID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !CanModify(actor, comment.UserID) {
			return ErrForbidden
		}
		postID = comment.PostID
		return tx.Delete(&comment).Error
	})
	if err != nil {
		return err
	}

	utils.InvalidateByPrefix("cache:posts:detail:" + utoa(postID))
	return nil
}
