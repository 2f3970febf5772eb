package main

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hyeonsu-lee/goboard/config"
	"github.com/hyeonsu-lee/goboard/models"
	"github.com/hyeonsu-lee/goboard/routes"
	"github.com/hyeonsu-lee/goboard/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Notice{},
		&models.UploadedFile{},
	)

	seedAdmin(db, cfg)

	r := routes.SetupRouter(db)

	// Background cleanup for uploads never attached to a post
	utils.StartUploadCleaner(5 * time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

// seedAdmin creates the initial administrator account when none exists
// and seed credentials are configured.
func seedAdmin(db *gorm.DB, cfg config.AppConfig) {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return
	}

	var admin models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&admin).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Sugar.Warnf("admin seed check failed: %v", err)
		return
	}

	hash, err := utils.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		utils.Sugar.Warnf("admin seed hash failed: %v", err)
		return
	}

	nickname := cfg.SeedAdminNickname
	if nickname == "" {
		nickname = "admin"
	}
	user := models.User{
		Email:        cfg.SeedAdminEmail,
		PasswordHash: hash,
		Nickname:     nickname,
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		utils.Sugar.Warnf("admin seed failed: %v", err)
		return
	}
	utils.Sugar.Infof("seeded admin account %s", user.Email)
}
