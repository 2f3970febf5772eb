package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hyeonsu-lee/goboard/middleware"
	"github.com/hyeonsu-lee/goboard/services"
	"github.com/hyeonsu-lee/goboard/utils"
)

// NoticeController exposes the notice endpoints. Reads are public,
// writes are admin only and gated in the service layer.
type NoticeController struct {
	notices *services.NoticeService
}

// NewNoticeController creates a NoticeController.
func NewNoticeController(notices *services.NoticeService) *NoticeController {
	return &NoticeController{notices: notices}
}

// List returns all notices, pinned first.
func (n *NoticeController) List(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:notices:list"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	notices, err := n.notices.List()
	if err != nil {
		fail(ctx, err)
		return
	}

	payload := gin.H{"items": notices, "total": len(notices)}
	utils.CacheSetJSON("cache:notices:list", utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Minute)
	utils.Success(ctx, payload)
}

// Get returns one notice.
func (n *NoticeController) Get(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	notice, err := n.notices.Get(id)
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, notice)
}

// Create inserts a notice.
func (n *NoticeController) Create(ctx *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		Content  string `json:"content" binding:"required"`
		IsPinned bool   `json:"is_pinned"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	notice, err := n.notices.Create(middleware.CurrentUser(ctx), services.NoticeInput{
		Title:    req.Title,
		Content:  req.Content,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, notice)
}

// Update applies a partial edit to a notice.
func (n *NoticeController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		IsPinned *bool   `json:"is_pinned"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	notice, err := n.notices.Update(middleware.CurrentUser(ctx), id, services.NoticeUpdate{
		Title:    req.Title,
		Content:  req.Content,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, notice)
}

// Delete removes a notice.
func (n *NoticeController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := n.notices.Delete(middleware.CurrentUser(ctx), id); err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "notice deleted"})
}
