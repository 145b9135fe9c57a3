package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/valoarmory/armory/pkg/armory/auth"
	"github.com/valoarmory/armory/pkg/armory/config"
	"github.com/valoarmory/armory/pkg/armory/database"
	"github.com/valoarmory/armory/pkg/armory/logger"
	"github.com/valoarmory/armory/pkg/armory/middleware"
	"github.com/valoarmory/armory/pkg/armory/models"
	"github.com/valoarmory/armory/pkg/armory/public"
	"github.com/valoarmory/armory/pkg/armory/purchases"
	"github.com/valoarmory/armory/pkg/armory/skins"
	"github.com/valoarmory/armory/pkg/armory/uploads"
	"github.com/valoarmory/armory/pkg/armory/weapons"
)

func main() {
	cfg := loadConfig()

	zlog, err := logger.New(cfg.Server.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if err := database.Connect(cfg.Database.Path); err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	db := database.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}
	zlog.Info("database migrations completed", zap.String("path", cfg.Database.Path))

	if err := ensureAdminExists(db, cfg.Admin, zlog); err != nil {
		zlog.Fatal("failed to ensure admin user exists", zap.Error(err))
	}

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		authed := auth.Middleware(cfg.Security.JWTSecret)
		adminOnly := auth.RequireAdmin()

		// Auth routes (public)
		authHandler := auth.NewHandler(db, cfg.Security)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Catalog admin surface (admin role required)
		skinsHandler := skins.NewHandler(db, zlog)
		skinsHandler.RegisterRoutes(api.Group("", authed, adminOnly))

		weaponsHandler := weapons.NewHandler(db, zlog)
		weaponsHandler.RegisterRoutes(api.Group("", authed, adminOnly))

		// Upload completion callback (uploader must be an admin)
		uploadsHandler := uploads.NewHandler(db, zlog)
		uploadsHandler.RegisterRoutes(api.Group("/uploads", authed, adminOnly))

		// Purchase ledger. Confirmation is called cross-origin from the
		// storefront, so it carries CORS alongside the JWT requirement.
		purchasesHandler := purchases.NewHandler(db, zlog)
		purchased := api.Group("", middleware.CORS())
		purchased.OPTIONS("/purchased", middleware.Preflight)
		purchasesHandler.RegisterRecordRoute(purchased.Group("", authed))
		purchasesHandler.RegisterAdminRoutes(api.Group("/admin", authed, adminOnly))

		// Public surface: permissive CORS, rate limited outside debug mode
		publicGroup := api.Group("/public")
		publicGroup.Use(middleware.CORS())
		publicGroup.OPTIONS("/*path", middleware.Preflight)
		if cfg.RateLimit.RPS > 0 && !cfg.Server.Debug {
			publicGroup.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}

		publicHandler := public.NewHandler(db, zlog, cfg.Stream.Interval)
		publicHandler.RegisterRoutes(publicGroup)
		purchasesHandler.RegisterPublicRoutes(publicGroup)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zlog.Info("starting armory server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

// loadConfig reads the YAML config named by ARMORY_CONFIG (default
// config.yaml), falling back to built-in defaults when the file is absent.
func loadConfig() *config.Config {
	path := os.Getenv("ARMORY_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("No config file at %s - using defaults", path)
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", path, err)
	}
	return cfg
}

// ensureAdminExists creates the default admin account if no admin exists.
func ensureAdminExists(db *gorm.DB, seed config.AdminConfig, zlog *zap.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := auth.HashPassword(seed.Password)
	if err != nil {
		return err
	}

	admin := models.User{
		UserID:       auth.NewUserID(),
		Email:        seed.Email,
		PasswordHash: hashedPassword,
		Name:         seed.Name,
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	zlog.Info("created default admin user",
		zap.String("email", admin.Email), zap.String("user_id", admin.UserID))
	return nil
}
