package services

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/hyeonsu-lee/goboard/models"
	"github.com/hyeonsu-lee/goboard/utils"
)

// PostService implements the post mutators and list/search queries.
// Every mutator takes the resolved actor explicitly; nothing here
// reads ambient request state.
type PostService struct {
	db      *gorm.DB
	uploads *UploadService
}

// NewPostService creates a PostService.
func NewPostService(db *gorm.DB, uploads *UploadService) *PostService {
	return &PostService{db: db, uploads: uploads}
}

// PostListQuery selects a page of posts, optionally restricted to one category.
type PostListQuery struct {
	Page     int
	Limit    int
	Category string
}

// List returns a page of posts, newest first, with authors and comment counts.
func (s *PostService) List(q PostListQuery) ([]models.Post, utils.Page, error) {
	query := s.db.Model(&models.Post{})
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.Page{}, err
	}

	page := utils.Paginate(q.Page, utils.ClampLimit(q.Limit), total)

	var posts []models.Post
	if err := query.Preload("Author").
		Order("created_at DESC").
		Offset(page.Skip).Limit(page.Take).
		Find(&posts).Error; err != nil {
		return nil, utils.Page{}, err
	}
	if err := s.attachCommentCounts(posts); err != nil {
		return nil, utils.Page{}, err
	}
	return posts, page, nil
}

// IncrementView bumps a post's view counter atomically. A missing id
// is a not-found, reported by the affected-row count.
func (s *PostService) IncrementView(id uint) error {
	res := s.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get loads a post with its author and comments, bumping the view
// counter first.
func (s *PostService) Get(id uint) (*models.Post, error) {
	if err := s.IncrementView(id); err != nil {
		return nil, err
	}

	var post models.Post
	err := s.db.Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Author").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// PostInput carries the fields for a new post.
type PostInput struct {
	Title    string
	Content  string
	Category string
	ImageURL *string
}

// Create inserts a post owned by the actor and returns it with the
// author preloaded for display.
func (s *PostService) Create(actor *models.User, in PostInput) (*models.Post, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	title := utils.StripTags(strings.TrimSpace(in.Title))
	if title == "" {
		return nil, Invalid("title is required")
	}
	content := utils.Sanitize(in.Content)
	if strings.TrimSpace(content) == "" {
		return nil, Invalid("content is required")
	}
	category := in.Category
	if category == "" {
		category = "general"
	}
	if !models.ValidCategory(category) {
		return nil, Invalid("invalid category")
	}

	post := models.Post{
		UserID:   actor.ID,
		Title:    title,
		Content:  content,
		Category: category,
		ImageURL: in.ImageURL,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	if in.ImageURL != nil {
		s.uploads.MarkAttached(*in.ImageURL)
	}

	if err := s.db.Preload("Author").First(&post, post.ID).Error; err != nil {
		return nil, err
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	return &post, nil
}

// PostUpdate carries partial-update fields. Nil pointers mean "keep
// the stored value". ImageURLSet distinguishes an absent imageUrl key
// from an explicit null, which clears the image.
type PostUpdate struct {
	Title       *string
	Content     *string
	Category    *string
	ImageURL    *string
	ImageURLSet bool
}

// Update applies the supplied fields to an existing post. The
// existence check, ownership check, and write run in one transaction;
// replaced or cleared image files are removed best-effort after commit.
func (s *PostService) Update(actor *models.User, id uint, in PostUpdate) (*models.Post, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	var post models.Post
	var oldImage *string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !CanModify(actor, post.UserID) {
			return ErrForbidden
		}

		if in.Title != nil {
			title := utils.StripTags(strings.TrimSpace(*in.Title))
			if title == "" {
				return Invalid("title cannot be empty")
			}
			post.Title = title
		}
		if in.Content != nil {
			content := utils.Sanitize(*in.Content)
			if strings.TrimSpace(content) == "" {
				return Invalid("content cannot be empty")
			}
			post.Content = content
		}
		if in.Category != nil {
			if !models.ValidCategory(*in.Category) {
				return Invalid("invalid category")
			}
			post.Category = *in.Category
		}
		if in.ImageURLSet && !sameURL(post.ImageURL, in.ImageURL) {
			oldImage = post.ImageURL
			post.ImageURL = in.ImageURL
		}
		return tx.Save(&post).Error
	})
	if err != nil {
		return nil, err
	}

	// The row change is committed; removing the superseded file is
	// advisory cleanup only.
	if oldImage != nil {
		s.uploads.Remove(*oldImage)
	}
	if in.ImageURLSet && in.ImageURL != nil {
		s.uploads.MarkAttached(*in.ImageURL)
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:posts:detail:" + utoa(id))
	return &post, nil
}

// Delete removes a post and its comments in one transaction, then
// deletes any attached image file best-effort.
func (s *PostService) Delete(actor *models.User, id uint) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	var image *string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !CanModify(actor, post.UserID) {
			return ErrForbidden
		}
		image = post.ImageURL

		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return err
	}

	if image != nil {
		s.uploads.Remove(*image)
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:posts:detail:" + utoa(id))
	return nil
}

// DetachImage clears a post's image after verifying the caller may
// modify the post and the supplied URL matches the stored one. The
// file itself is removed best-effort after the row update commits.
func (s *PostService) DetachImage(actor *models.User, id uint, url string) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !CanModify(actor, post.UserID) {
			return ErrForbidden
		}
		if post.ImageURL == nil || *post.ImageURL != url {
			return Invalid("url does not match the post image")
		}
		return tx.Model(&post).Update("image_url", nil).Error
	})
	if err != nil {
		return err
	}

	s.uploads.Remove(url)

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:posts:detail:" + utoa(id))
	return nil
}

// SearchQuery selects posts by substring match on one or more fields.
type SearchQuery struct {
	Query string
	Type  string // title, content, author; anything else means all
	Page  int
	Limit int
}

// Search runs a substring search over posts. An empty query is
// rejected before any storage access.
func (s *PostService) Search(q SearchQuery) ([]models.Post, utils.Page, error) {
	term := strings.TrimSpace(q.Query)
	if term == "" {
		return nil, utils.Page{}, Invalid("search query is required")
	}

	like := "%" + term + "%"
	query := s.db.Model(&models.Post{}).
		Joins("JOIN users ON users.id = posts.user_id")

	switch q.Type {
	case "title":
		query = query.Where("posts.title LIKE ?", like)
	case "content":
		query = query.Where("posts.content LIKE ?", like)
	case "author":
		query = query.Where("users.nickname LIKE ?", like)
	default:
		// "all", empty, and anything unrecognized search every field.
		query = query.Where("posts.title LIKE ? OR posts.content LIKE ? OR users.nickname LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.Page{}, err
	}

	page := utils.Paginate(q.Page, utils.ClampLimit(q.Limit), total)

	var posts []models.Post
	if err := query.Preload("Author").
		Order("posts.created_at DESC").
		Offset(page.Skip).Limit(page.Take).
		Find(&posts).Error; err != nil {
		return nil, utils.Page{}, err
	}
	if err := s.attachCommentCounts(posts); err != nil {
		return nil, utils.Page{}, err
	}
	return posts, page, nil
}

// attachCommentCounts fills CommentCount for a batch of posts with one
// grouped query.
func (s *PostService) attachCommentCounts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	var rows []struct {
		PostID uint
		N      int64
	}
	if err := s.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.N
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
	return nil
}

func utoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func sameURL(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
