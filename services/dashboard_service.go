package services

import (
	"gorm.io/gorm"

	"github.com/hyeonsu-lee/goboard/models"
)

// DashboardService assembles the summary shown after login.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardSummary is the site-wide totals plus the caller's own
// activity counts and the most recent content.
type DashboardSummary struct {
	TotalUsers     int64            `json:"total_users"`
	TotalPosts     int64            `json:"total_posts"`
	TotalComments  int64            `json:"total_comments"`
	TotalNotices   int64            `json:"total_notices"`
	RecentPosts    []models.Post    `json:"recent_posts"`
	RecentComments []models.Comment `json:"recent_comments"`
	MyPostCount    int64            `json:"my_post_count"`
	MyCommentCount int64            `json:"my_comment_count"`
}

const recentLimit = 5

// Summary computes the dashboard for the given actor.
func (s *DashboardService) Summary(actor *models.User) (*DashboardSummary, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	out := &DashboardSummary{}
	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.User{}, &out.TotalUsers},
		{&models.Post{}, &out.TotalPosts},
		{&models.Comment{}, &out.TotalComments},
		{&models.Notice{}, &out.TotalNotices},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Preload("Author").
		Order("created_at DESC").Limit(recentLimit).
		Find(&out.RecentPosts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Author").
		Order("created_at DESC").Limit(recentLimit).
		Find(&out.RecentComments).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Post{}).
		Where("user_id = ?", actor.ID).Count(&out.MyPostCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Comment{}).
		Where("user_id = ?", actor.ID).Count(&out.MyCommentCount).Error; err != nil {
		return nil, err
	}
	return out, nil
}
