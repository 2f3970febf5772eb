package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hyeonsu-lee/goboard/config"
	"github.com/hyeonsu-lee/goboard/models"
	"github.com/hyeonsu-lee/goboard/utils"
)

// UploadService stores uploaded images on disk and coordinates the
// advisory cleanup of files referenced by posts. The database row is
// always authoritative; file deletion is best-effort and never fails
// the owning mutation.
type UploadService struct {
	db  *gorm.DB
	dir string
}

// NewUploadService creates an UploadService writing into dir.
func NewUploadService(db *gorm.DB, dir string) *UploadService {
	return &UploadService{db: db, dir: dir}
}

// URLPrefix is the public path prefix uploaded images are served under.
const URLPrefix = "/uploads/"

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store writes an uploaded image under a uuid filename, records it as
// an orphan for timed cleanup, and returns its public URL.
func (s *UploadService) Store(actor *models.User, filename, contentType string, size int64, r io.Reader) (string, error) {
	if actor == nil {
		return "", ErrUnauthenticated
	}
	if !allowedImageTypes[contentType] {
		return "", Invalid("unsupported file type, only image files can be uploaded")
	}

	maxSize := int64(config.Get().UploadMaxSizeMB) * 1024 * 1024
	if size > 0 && size > maxSize {
		return "", Invalid(fmt.Sprintf("file size exceeds %dMB", config.Get().UploadMaxSizeMB))
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	dstPath := filepath.Join(s.dir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	// Enforce the size cap even when the declared size lies.
	lr := &io.LimitedReader{R: r, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dstPath)
		return "", err
	}
	if written > maxSize {
		_ = out.Close()
		_ = os.Remove(dstPath)
		return "", Invalid(fmt.Sprintf("file size exceeds %dMB", config.Get().UploadMaxSizeMB))
	}

	url := URLPrefix + name

	// Track as orphan so the cleaner reclaims files never attached to
	// a post. Tracking failure must not fail the upload.
	absPath, _ := filepath.Abs(dstPath)
	ttl := time.Duration(config.Get().UploadOrphanTTLMinutes) * time.Minute
	if s.db != nil {
		if err := s.db.Create(&models.UploadedFile{FilePath: absPath, URL: url, ExpireAt: time.Now().Add(ttl)}).Error; err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("failed to record uploaded file %s: %v", url, err)
			}
		}
	}
	return url, nil
}

// MarkAttached drops the orphan-tracking row for a URL once a post
// references it, so the cleaner leaves the file alone.
func (s *UploadService) MarkAttached(url string) {
	if url == "" || s.db == nil {
		return
	}
	if err := s.db.Where("url = ?", url).Delete(&models.UploadedFile{}).Error; err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Debugf("failed to untrack upload %s: %v", url, err)
		}
	}
}

// Discard deletes an uploaded file that was never attached to a post,
// along with its tracking row.
func (s *UploadService) Discard(actor *models.User, url string) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !strings.HasPrefix(url, URLPrefix) {
		return Invalid("invalid upload url")
	}
	if s.db != nil {
		if err := s.db.Where("url = ?", url).Delete(&models.UploadedFile{}).Error; err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Debugf("failed to untrack upload %s: %v", url, err)
			}
		}
	}
	s.Remove(url)
	return nil
}

// Remove deletes the backing file for a public upload URL. Failures,
// including a file that is already gone, are logged and swallowed:
// the record mutation has already committed and file cleanup is
// advisory.
func (s *UploadService) Remove(url string) {
	path, ok := s.pathFor(url)
	if !ok {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("refusing to delete file outside upload dir: %s", url)
		}
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("failed to delete upload file %s: %v", path, err)
		}
	}
}

// pathFor maps a public URL back to a filesystem path inside the
// upload dir. Anything else is rejected to block path traversal.
func (s *UploadService) pathFor(url string) (string, bool) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", false
	}
	name := filepath.Base(strings.TrimPrefix(url, URLPrefix))
	if name == "." || name == string(filepath.Separator) {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}
