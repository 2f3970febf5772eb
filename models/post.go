package models

import "time"

// Post represents a board post created by a user.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"size:32;not null;default:'general'" json:"category"`
	ImageURL  *string   `gorm:"size:512" json:"image_url"`
	ViewCount int64     `gorm:"not null;default:0" json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
	// CommentCount is filled by list queries for display; it is not a column.
	CommentCount int64 `gorm:"-" json:"comment_count"`
}

// Categories is the fixed set of post categories accepted on write.
var Categories = []string{"general", "tech", "question", "daily", "etc"}

// ValidCategory reports whether c is a known post category.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}
