package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyeonsu-lee/goboard/middleware"
	"github.com/hyeonsu-lee/goboard/services"
	"github.com/hyeonsu-lee/goboard/utils"
)

// UserController exposes the administrator account endpoints.
type UserController struct {
	users *services.UserService
}

// NewUserController creates a UserController.
func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// List returns all accounts with content counts. Admin only.
func (u *UserController) List(ctx *gin.Context) {
	accounts, err := u.users.ListAccounts(middleware.CurrentUser(ctx))
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": accounts, "total": len(accounts)})
}

// Get returns one account with content counts.
func (u *UserController) Get(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	account, err := u.users.Account(middleware.CurrentUser(ctx), id)
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, account)
}

// Update edits any account's nickname, email, role or password.
// Admin only.
func (u *UserController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Nickname    string `json:"nickname" binding:"required"`
		Email       string `json:"email"`
		Role        string `json:"role"`
		NewPassword string `json:"new_password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := u.users.UpdateAccount(middleware.CurrentUser(ctx), id, services.AdminUserUpdate{
		Nickname:    req.Nickname,
		Email:       req.Email,
		Role:        req.Role,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, user)
}
