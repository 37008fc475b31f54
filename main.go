package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/enyekk7/froth-pet/chain"
	"github.com/enyekk7/froth-pet/handlers"
	"github.com/enyekk7/froth-pet/models"
	"github.com/enyekk7/froth-pet/services"
	"github.com/enyekk7/froth-pet/utils"
	"github.com/enyekk7/froth-pet/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, reading environment variables directly")
	}

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		log.SetFormatter(&log.JSONFormatter{})
	}
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := db.AutoMigrate(
		&models.Pet{},
		&models.Wallet{},
		&models.Bag{},
		&models.LeaderboardEntry{},
		&models.FoodPurchase{},
		&models.ChatMessage{},
	); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	mediaEnabled, err := utils.InitR2()
	if err != nil {
		log.WithError(err).Fatal("failed to initialize R2 client")
	}

	petService := services.NewPetService(db)
	energyService := services.NewEnergyService(db)
	bagService := services.NewBagService(db)
	feedService := services.NewFeedService(db, energyService, bagService)
	leaderboardService := services.NewLeaderboardService(db)
	walletService := services.NewWalletService(db)
	chatService := services.NewChatService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Chain access is optional: without it the API serves the off-chain
	// view only, which is the degraded mode reconciliation falls back to
	// anyway.
	var chainReader services.ChainReader
	rpcURL := os.Getenv("RPC_URL")
	contractAddr := os.Getenv("PET_NFT_ADDRESS")
	if rpcURL != "" && contractAddr != "" {
		chainClient, err := chain.NewClient(rpcURL, contractAddr)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to chain RPC")
		}
		defer chainClient.Close()
		chainReader = chainClient

		syncWorker := workers.NewChainSyncWorker(chainClient, petService)
		go syncWorker.Run(ctx, 15*time.Second)

		refreshWorker := workers.NewWalletRefreshWorker(chainClient, walletService)
		go refreshWorker.Run(ctx, 10*time.Minute, 24*time.Hour)
	} else {
		log.Warn("RPC_URL or PET_NFT_ADDRESS not set, chain sync disabled")
	}
	reconcileService := services.NewReconcileService(petService, chainReader)

	leaderboardService.StartDedupScheduler(1 * time.Hour)

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // pet images stay small
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.SetupHealthRoutes(app, db)
	handlers.SetupNFTRoutes(app, petService, energyService, reconcileService)
	handlers.SetupPetRoutes(app, feedService)
	handlers.SetupShopRoutes(app, bagService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService)
	handlers.SetupWalletRoutes(app, walletService)
	handlers.SetupChatRoutes(app, chatService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Error("server error")
			stop()
		}
	}()

	log.WithFields(log.Fields{
		"port":          port,
		"chain_sync":    chainReader != nil,
		"media_storage": mediaEnabled,
	}).Info("FROTH PET backend running")

	<-ctx.Done()
	log.Info("shutting down server")
	_ = app.Shutdown()
}
