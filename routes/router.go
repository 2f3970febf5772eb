package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hyeonsu-lee/goboard/config"
	"github.com/hyeonsu-lee/goboard/controllers"
	"github.com/hyeonsu-lee/goboard/middleware"
	"github.com/hyeonsu-lee/goboard/services"
	"github.com/hyeonsu-lee/goboard/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/uploads", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	uploadService := services.NewUploadService(db, cfg.UploadDir)
	postService := services.NewPostService(db, uploadService)
	commentService := services.NewCommentService(db)
	noticeService := services.NewNoticeService(db)
	userService := services.NewUserService(db, uploadService)
	dashboardService := services.NewDashboardService(db)

	authController := controllers.NewAuthController(userService)
	userController := controllers.NewUserController(userService)
	postController := controllers.NewPostController(postService)
	commentController := controllers.NewCommentController(commentService)
	noticeController := controllers.NewNoticeController(noticeService)
	uploadController := controllers.NewUploadController(uploadService, postService)
	dashboardController := controllers.NewDashboardController(dashboardService)
	chatController := controllers.NewChatController(cfg.ChatAPIBase, cfg.ChatAPIKey, cfg.ChatModel)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)

	api.GET("/posts", postController.List)
	api.GET("/posts/:id", postController.Get)
	api.GET("/posts/:id/comments", commentController.ListForPost)
	api.GET("/notices", noticeController.List)
	api.GET("/notices/:id", noticeController.Get)
	api.GET("/search", postController.Search)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.POST("/posts", postController.Create)
	protected.PUT("/posts/:id", postController.Update)
	protected.DELETE("/posts/:id", postController.Delete)
	protected.POST("/posts/:id/comments", commentController.CreateForPost)
	protected.PUT("/comments/:id", commentController.Update)
	protected.DELETE("/comments/:id", commentController.Delete)

	protected.POST("/notices", noticeController.Create)
	protected.PUT("/notices/:id", noticeController.Update)
	protected.DELETE("/notices/:id", noticeController.Delete)

	protected.GET("/users", userController.List)
	protected.GET("/users/me", authController.Me)
	protected.PATCH("/users/me", authController.UpdateProfile)
	protected.POST("/users/me/delete", authController.DeleteAccount)
	protected.GET("/users/:id", userController.Get)
	protected.PATCH("/users/:id", userController.Update)

	protected.GET("/dashboard", dashboardController.Summary)
	protected.POST("/upload", uploadController.Upload)
	protected.POST("/upload/delete", uploadController.Delete)
	protected.POST("/chat", chatController.Completions)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
