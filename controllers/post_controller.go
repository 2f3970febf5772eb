package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hyeonsu-lee/goboard/middleware"
	"github.com/hyeonsu-lee/goboard/services"
	"github.com/hyeonsu-lee/goboard/utils"
)

const (
	listCacheTTL   = time.Minute
	detailCacheTTL = time.Minute
)

// PostController exposes the post CRUD and search endpoints.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a PostController.
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// List returns a page of posts, newest first. Responses are cached
// briefly per page/category.
func (p *PostController) List(ctx *gin.Context) {
	page, limit := pageQuery(ctx)
	category := strings.TrimSpace(ctx.Query("category"))

	cacheKey := "cache:posts:list:" + category + ":" + strconv.Itoa(page) + ":" + strconv.Itoa(limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	posts, pg, err := p.posts.List(services.PostListQuery{Page: page, Limit: limit, Category: category})
	if err != nil {
		fail(ctx, err)
		return
	}

	payload := gin.H{"items": posts, "pagination": pg}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, listCacheTTL)
	utils.Success(ctx, payload)
}

// Get returns one post with comments. The view counter increments on
// every read, including cache hits.
func (p *PostController) Get(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	cacheKey := "cache:posts:detail:" + strconv.FormatUint(uint64(id), 10)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		if err := p.posts.IncrementView(id); err == nil {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
		// the post vanished under the cache entry, fall through
	}

	post, err := p.posts.Get(id)
	if err != nil {
		fail(ctx, err)
		return
	}

	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: post}, detailCacheTTL)
	utils.Success(ctx, post)
}

// Create inserts a post owned by the caller.
func (p *PostController) Create(ctx *gin.Context) {
	var req struct {
		Title    string  `json:"title" binding:"required"`
		Content  string  `json:"content" binding:"required"`
		Category string  `json:"category"`
		ImageURL *string `json:"image_url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	post, err := p.posts.Create(middleware.CurrentUser(ctx), services.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, post)
}

// Update applies a partial edit. image_url is tri-state: an absent key
// keeps the stored image, an explicit null clears it.
func (p *PostController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Title    *string         `json:"title"`
		Content  *string         `json:"content"`
		Category *string         `json:"category"`
		ImageURL json.RawMessage `json:"image_url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	update := services.PostUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}
	if len(req.ImageURL) > 0 {
		update.ImageURLSet = true
		if !bytes.Equal(bytes.TrimSpace(req.ImageURL), []byte("null")) {
			var url string
			if err := json.Unmarshal(req.ImageURL, &url); err != nil {
				utils.Error(ctx, http.StatusBadRequest, 40001, "invalid image_url")
				return
			}
			update.ImageURL = &url
		}
	}

	post, err := p.posts.Update(middleware.CurrentUser(ctx), id, update)
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, post)
}

// Delete removes a post and its comments.
func (p *PostController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := p.posts.Delete(middleware.CurrentUser(ctx), id); err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// Search runs a substring search over posts by title, content, author
// nickname, or all three. The term arrives as ?query=, with ?q=
// accepted as a shorthand alias.
func (p *PostController) Search(ctx *gin.Context) {
	term := strings.TrimSpace(ctx.Query("query"))
	if term == "" {
		term = strings.TrimSpace(ctx.Query("q"))
	}

	page, limit := pageQuery(ctx)
	posts, pg, err := p.posts.Search(services.SearchQuery{
		Query: term,
		Type:  strings.TrimSpace(ctx.Query("type")),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": posts, "pagination": pg, "query": term})
}
