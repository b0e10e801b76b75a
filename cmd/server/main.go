package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/portfolio-cms/internal/config"
	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/mailer"
	"github.com/yukikurage/portfolio-cms/internal/repository"
	"github.com/yukikurage/portfolio-cms/internal/server"
	"github.com/yukikurage/portfolio-cms/internal/services"
	"github.com/yukikurage/portfolio-cms/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Initialize(logger.Options{
		Level:      cfg.LogLevel,
		Path:       cfg.LogPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatalw("failed to connect to database", "error", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatalw("failed to run migrations", "error", err)
	}

	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Log.Fatalw("failed to prepare upload directory", "dir", cfg.UploadDir, "error", err)
	}

	settings := mailer.SettingsFromConfig(cfg)
	if err := settings.Validate(); err != nil {
		logger.Log.Warnw("contact notifications disabled", "reason", err)
	}
	notifier := mailer.NewSMTPMailer(settings)

	// Repositories
	tx := database.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	tagRepo := repository.NewTagRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	messageRepo := repository.NewContactMessageRepository(db)

	// Services
	authService := services.NewAuthService(tx, userRepo, files)
	app := &server.App{
		Config:       cfg,
		Auth:         authService,
		Projects:     services.NewProjectService(tx, projectRepo, tagRepo, categoryRepo, commentRepo, likeRepo, files),
		Categories:   services.NewCategoryService(tx, categoryRepo),
		Achievements: services.NewAchievementService(tx, achievementRepo, files),
		Interactions: services.NewInteractionService(tx, projectRepo, commentRepo, likeRepo),
		Contact:      services.NewContactService(tx, messageRepo, notifier),
		Site:         services.NewSiteService(userRepo, projectRepo, achievementRepo, commentRepo, likeRepo, messageRepo),
		Uploads:      files,
	}

	if err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		logger.Log.Fatalw("failed to create admin account", "error", err)
	}

	r, err := server.NewRouter(app)
	if err != nil {
		logger.Log.Fatalw("failed to build router", "error", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Infow("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("graceful shutdown failed", "error", err)
	}
}
