package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hyeonsu-lee/goboard/config"
	"github.com/hyeonsu-lee/goboard/models"
	"github.com/hyeonsu-lee/goboard/utils"
)

// ContextUserKey is the key under which the resolved user row is stored
// in the Gin context.
const ContextUserKey = "current_user"

// AuthRequired authenticates the request via JWT and resolves the full
// user row. Any failure along the chain, including a token whose user
// no longer exists, leaves the request unauthenticated.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		var user models.User
		if err := config.DB().Where("email = ?", claims.Email).First(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) && utils.Sugar != nil {
				utils.Sugar.Warnw("identity lookup failed", "error", err)
			}
			utils.Error(ctx, http.StatusUnauthorized, 40106, "account not found")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserKey, &user)
		ctx.Next()
	}
}

// CurrentUser returns the resolved user for the request, or nil when
// the request is unauthenticated.
func CurrentUser(ctx *gin.Context) *models.User {
	value, ok := ctx.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
