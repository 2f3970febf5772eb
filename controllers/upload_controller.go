package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyeonsu-lee/goboard/middleware"
	"github.com/hyeonsu-lee/goboard/services"
	"github.com/hyeonsu-lee/goboard/utils"
)

// UploadController exposes the image upload endpoints.
type UploadController struct {
	uploads *services.UploadService
	posts   *services.PostService
}

// NewUploadController creates an UploadController.
func NewUploadController(uploads *services.UploadService, posts *services.PostService) *UploadController {
	return &UploadController{uploads: uploads, posts: posts}
}

// Upload stores a multipart image and returns its public URL.
func (u *UploadController) Upload(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "file is required")
		return
	}

	f, err := header.Open()
	if err != nil {
		fail(ctx, err)
		return
	}
	defer f.Close()

	url, err := u.uploads.Store(
		middleware.CurrentUser(ctx),
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		f,
	)
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"url": url})
}

// Delete removes an uploaded image. With post_id the image is detached
// from the post first, which requires ownership and a matching URL;
// without it the orphan file is simply discarded.
func (u *UploadController) Delete(ctx *gin.Context) {
	var req struct {
		URL    string `json:"url" binding:"required"`
		PostID *uint  `json:"post_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	actor := middleware.CurrentUser(ctx)
	if req.PostID != nil {
		if err := u.posts.DetachImage(actor, *req.PostID, req.URL); err != nil {
			fail(ctx, err)
			return
		}
	} else if err := u.uploads.Discard(actor, req.URL); err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "file deleted"})
}
