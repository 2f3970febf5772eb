package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hyeonsu-lee/goboard/middleware"
	"github.com/hyeonsu-lee/goboard/services"
	"github.com/hyeonsu-lee/goboard/utils"
)

const tokenTTL = 72 * time.Hour

// AuthController handles registration, login, logout and the
// self-service account endpoints.
type AuthController struct {
	users *services.UserService
}

// NewAuthController creates an AuthController.
func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

// Register creates a local account and issues a JWT.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Nickname string `json:"nickname" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.users.Register(services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		fail(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, tokenTTL)
	if err != nil {
		fail(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.users.Authenticate(req.Email, req.Password)
	if err != nil {
		if err == services.ErrUnauthenticated {
			utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid email or password")
			return
		}
		fail(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, tokenTTL)
	if err != nil {
		fail(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout blacklists the presented token until its expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenTTL)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's account with content counts.
func (a *AuthController) Me(ctx *gin.Context) {
	actor := middleware.CurrentUser(ctx)
	if actor == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}

	account, err := a.users.Account(actor, actor.ID)
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, account)
}

// UpdateProfile edits the caller's nickname and, optionally, password.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	actor := middleware.CurrentUser(ctx)

	var req struct {
		Nickname        string `json:"nickname" binding:"required"`
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.users.UpdateProfile(actor, services.ProfileUpdate{
		Nickname:        req.Nickname,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	utils.Success(ctx, user)
}

// DeleteAccount removes the caller's account and all of their content.
// The presented token is blacklisted so it cannot outlive the account.
func (a *AuthController) DeleteAccount(ctx *gin.Context) {
	actor := middleware.CurrentUser(ctx)

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	if err := a.users.DeleteAccount(actor, req.Password); err != nil {
		fail(ctx, err)
		return
	}

	if parts := strings.SplitN(ctx.GetHeader("Authorization"), " ", 2); len(parts) == 2 {
		utils.BlacklistToken(strings.TrimSpace(parts[1]), time.Now().Add(tokenTTL))
	}

	utils.Success(ctx, gin.H{"message": "account deleted"})
}
