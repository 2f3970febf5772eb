package models

import "time"

// UploadedFile records uploaded images that are not yet attached to a
// post. The background cleaner removes expired rows and their files;
// attaching an image to a post deletes its tracking row so the file
// survives.
type UploadedFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FilePath  string    `gorm:"size:1024;not null" json:"file_path"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	ExpireAt  time.Time `gorm:"index" json:"expire_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
