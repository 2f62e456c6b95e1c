package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MALVV/cms-estrella-sur-sub002/config"
	adminapi "github.com/MALVV/cms-estrella-sur-sub002/internal/api/admin"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/api/content"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/api/donation"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/api/project"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/api/user"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/middleware"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/repository/mysql"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/service"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/storage"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("fatal error during startup", zap.Any("error", r))
		}
	}()

	config.Init()

	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("application starting")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err = db.Ping(); err != nil {
		util.Logger.Fatal("database ping failed", zap.Error(err))
	}
	util.Logger.Info("database connected")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("positive_amount", util.ValidatePositiveAmount)
	}

	ensureUploadsFolder()

	fileStorage := newFileStorage()

	userRepo := mysql.NewUserRepository(db)
	userService := service.NewUserService(userRepo)
	authHandler := user.NewAuthHandler(userService)

	contentRepo := mysql.NewContentRepository(db)
	contentService := service.NewContentService(contentRepo)
	contentHandler := content.NewHandler(contentService, fileStorage)

	donationProjectRepo := mysql.NewDonationProjectRepository(db)
	donationProjectService := service.NewDonationProjectService(donationProjectRepo, contentRepo)
	projectHandler := project.NewHandler(donationProjectService)

	emailService := service.NewEmailService()
	donationRepo := mysql.NewDonationRepository(db)
	donationService := service.NewDonationService(donationRepo, donationProjectRepo, emailService)
	proofService := service.NewProofService(fileStorage, config.AppConfig.MaxUploadSizeMB)

	publicDonationHandler := donation.NewPublicHandler(donationService, donationProjectService)
	adminDonationHandler := donation.NewAdminHandler(donationService, proofService)

	errorMonitor := middleware.NewErrorMonitor()

	statsService := service.NewStatsService(donationRepo, donationProjectRepo, userRepo)
	adminHandler := adminapi.NewHandler(userService, statsService, errorMonitor)

	// Nightly ledger reconciliation: recompute current_amount from the sum of
	// approved donations in case the incremental counter ever drifts.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(config.AppConfig.ReconcileSchedule, func() {
		if err := donationProjectService.ReconcileLedgers(); err != nil {
			util.Logger.Error("ledger reconciliation failed", zap.Error(err))
		}
	})
	if err != nil {
		util.Logger.Fatal("invalid reconciliation schedule", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := gin.Default()

	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}
	r.Use(cors.New(corsConfig))

	// Static uploads need their own CORS headers because the middleware above
	// only covers the API group.
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
		}
		c.Next()
	})

	r.Static("/uploads", config.AppConfig.LocalStoragePath)

	api := r.Group("/api")
	{
		// Public site: no authentication, donors never have accounts.
		public := api.Group("/public")
		{
			public.POST("/donations", publicDonationHandler.SubmitDonation)
			public.GET("/donation-projects", publicDonationHandler.GetDonationProject)
			public.GET("/donation-config", publicDonationHandler.GetDonationConfig)
			public.GET("/projects", contentHandler.ListPublicProjects)
			public.GET("/news", contentHandler.ListPublicNews)
			public.GET("/events", contentHandler.ListPublicEvents)
			public.GET("/transparency-documents", contentHandler.ListPublicDocuments)
		}

		api.POST("/admin/login", authHandler.Login)

		// Everything below requires a valid token.
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware(userService))
		{
			authorized.GET("/me", authHandler.Me)

			authorized.GET("/donations", adminDonationHandler.ListDonations)
			authorized.GET("/donations/:id", adminDonationHandler.GetDonation)
			authorized.PATCH("/donations/:id", adminDonationHandler.UpdateDonationStatus)
			authorized.POST("/donations/upload-proof", adminDonationHandler.UploadProof)

			authorized.GET("/donation-projects", projectHandler.ListProjects)
			authorized.POST("/donation-projects", projectHandler.CreateProject)
			authorized.PUT("/donation-projects/:id", projectHandler.UpdateProject)
			authorized.PATCH("/donation-projects/:id/active", projectHandler.SetProjectActive)

			authorized.GET("/projects", contentHandler.ListProjects)
			authorized.GET("/projects/:id", contentHandler.GetProject)
			authorized.POST("/projects", contentHandler.CreateProject)
			authorized.PUT("/projects/:id", contentHandler.UpdateProject)

			authorized.GET("/news", contentHandler.ListNews)
			authorized.POST("/news", contentHandler.CreateNews)
			authorized.PUT("/news/:id", contentHandler.UpdateNews)
			authorized.PATCH("/news/:id/published", contentHandler.SetNewsPublished)

			authorized.GET("/events", contentHandler.ListEvents)
			authorized.POST("/events", contentHandler.CreateEvent)
			authorized.PUT("/events/:id", contentHandler.UpdateEvent)
			authorized.PATCH("/events/:id/published", contentHandler.SetEventPublished)

			authorized.GET("/transparency-documents", contentHandler.ListDocuments)
			authorized.POST("/transparency-documents", contentHandler.UploadDocument)
			authorized.PATCH("/transparency-documents/:id/published", contentHandler.SetDocumentPublished)
		}

		// User management and stats are restricted to the admin role.
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(userService), middleware.AdminMiddleware(userService))
		{
			adminRoutes.GET("/users", adminHandler.ListUsers)
			adminRoutes.POST("/users", adminHandler.CreateUser)
			adminRoutes.PUT("/users/:id/role", adminHandler.UpdateUserRole)
			adminRoutes.GET("/stats", adminHandler.GetSystemStats)
		}
	}

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.ServerPort,
		Handler: r,
	}

	go func() {
		util.Logger.Info("server listening", zap.String("port", config.AppConfig.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("forced server shutdown", zap.Error(err))
	}

	util.Logger.Info("server stopped")
}

// newFileStorage builds the configured backend. Local storage is the default
// and the only one that needs no credentials.
func newFileStorage() storage.FileStorage {
	switch config.AppConfig.StorageBackend {
	case "s3":
		s3Client, err := storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
		if err != nil {
			util.Logger.Fatal("failed to initialize S3 storage", zap.Error(err))
		}
		return s3Client
	case "gcs":
		gcsClient, err := storage.NewGCSClient(config.AppConfig.GCSBucketName, config.AppConfig.GCSCredentialsFile)
		if err != nil {
			util.Logger.Fatal("failed to initialize GCS storage", zap.Error(err))
		}
		return gcsClient
	default:
		localStorage, err := storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
		if err != nil {
			util.Logger.Fatal("failed to initialize local storage", zap.Error(err))
		}
		return localStorage
	}
}

func ensureUploadsFolder() {
	uploadsPath := config.AppConfig.LocalStoragePath
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("failed to create uploads folder", zap.Error(err), zap.String("path", uploadsPath))
	}
}
