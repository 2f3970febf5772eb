package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyeonsu-lee/goboard/middleware"
	"github.com/hyeonsu-lee/goboard/services"
	"github.com/hyeonsu-lee/goboard/utils"
)

// CommentController exposes the comment endpoints. Creation and listing
// are nested under the parent post; edits address the comment directly.
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a CommentController.
func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// ListForPost returns a post's comments, newest first.
func (c *CommentController) ListForPost(ctx *gin.Context) {
	postID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	comments, err := c.comments.List(postID)
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": comments, "total": len(comments)})
}

// CreateForPost adds a comment to an existing post.
func (c *CommentController) CreateForPost(ctx *gin.Context) {
	postID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	comment, err := c.comments.Create(middleware.CurrentUser(ctx), postID, req.Content)
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, comment)
}

// Update rewrites a comment's content.
func (c *CommentController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	comment, err := c.comments.Update(middleware.CurrentUser(ctx), id, req.Content)
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, comment)
}

// Delete removes a comment.
func (c *CommentController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.comments.Delete(middleware.CurrentUser(ctx), id); err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
