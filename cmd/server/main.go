package main

import (
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"landsale/server/config"
	"landsale/server/internal/api"
	"landsale/server/internal/conversation"
	"landsale/server/internal/database"
	"landsale/server/internal/extractor"
	"landsale/server/internal/geocoding"
	"landsale/server/internal/geometry"
	"landsale/server/internal/models"
	"landsale/server/internal/processor"
	"landsale/server/internal/publish"
	"landsale/server/internal/queue"
	"landsale/server/internal/responder"
	"landsale/server/internal/scheduler"
	"landsale/server/internal/telegram"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	dbPath := cfg.Database.Path
	if !filepath.IsAbs(dbPath) {
		currentDir, err := os.Getwd()
		if err != nil {
			logger.WithError(err).Fatal("Failed to get current directory")
		}
		dbPath = filepath.Join(currentDir, dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", dbPath)

	// Initialize database
	db, err := database.NewDatabase(dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// The bulk import path runs on gorm against the same database file
	gormDB, err := gorm.Open(sqlitedriver.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize gorm")
	}

	// Import queue feeds the background upsert processor
	importQueue := queue.NewListingQueue(cfg.BatchProcessing.QueueSize, logger)
	importQueue.Start()
	defer importQueue.Close()

	batchProcessor := processor.NewBatchProcessor(gormDB, importQueue, cfg, logger)
	batchProcessor.Start()
	defer batchProcessor.Stop()

	// Notify queue fans freshly published listings out to Telegram
	notifyQueue := queue.NewListingQueue(cfg.BatchProcessing.QueueSize, logger)
	notifyQueue.Start()
	defer notifyQueue.Close()

	telegramService := telegram.NewService(logger)
	telegramService.SetDatabase(db)
	if tgConfig, err := db.GetTelegramConfig(); err == nil && tgConfig != nil {
		telegramService.UpdateConfig(tgConfig)
	}
	notifyQueue.Subscribe(func(batch []*models.Listing) error {
		for _, listing := range batch {
			if err := telegramService.NotifyNewListing(listing); err != nil {
				logger.WithError(err).WithField("listing_id", listing.ID).
					Error("Failed to send listing notification")
			}
		}
		return nil
	})

	// Background maintenance: geocoding, listing expiry, district hulls
	cacheDir := cfg.Maintenance.GeocodeCacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "landsale", "geocode_cache")
	}
	geocoder := geocoding.NewGeocoder(logger, cacheDir)
	districtManager := geometry.NewDistrictManager(db.GetDB(), logger)

	maintenance := scheduler.NewScheduler(db, geocoder, districtManager, cfg, logger)
	maintenance.Start()
	defer maintenance.Stop()

	// Conversational listing pipeline
	sessions := conversation.NewManager(logger)
	chatResponder := responder.New(extractor.New(), logger)
	gateway := publish.NewGateway(db, notifyQueue, logger)

	handler := api.NewHandler(
		db,
		sessions,
		chatResponder,
		gateway,
		importQueue,
		telegramService,
		maintenance,
		cfg.BatchProcessing.MaxBatchSize,
		logger,
	)

	router := gin.Default()
	api.SetupRoutes(router, handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if err := server.Close(); err != nil {
		logger.WithError(err).Error("Failed to close server")
	}
}
