package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/agora-labs/agora-api/internal/config"
	"github.com/agora-labs/agora-api/internal/database"
	"github.com/agora-labs/agora-api/internal/handler"
	"github.com/agora-labs/agora-api/internal/middleware"
	"github.com/agora-labs/agora-api/internal/models"
	"github.com/agora-labs/agora-api/internal/repository"
	"github.com/agora-labs/agora-api/internal/router"
	"github.com/agora-labs/agora-api/internal/service"
	"github.com/agora-labs/agora-api/pkg/ai"
	cloud "github.com/agora-labs/agora-api/pkg/cloudinary"
)

const eventKeepAlive = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Thread{},
		&models.Post{},
		&models.Flag{},
		&models.Reaction{},
		&models.Profile{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn := connectNATS(cfg, logger)
	if natsConn != nil {
		defer natsConn.Close()
	}

	uploader := connectCloudinary(cfg, logger)
	classifier, summarizer := buildAIClients(cfg, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	threadRepo := repository.NewThreadRepository(db)
	postRepo := repository.NewPostRepository(db)
	flagRepo := repository.NewFlagRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	eventService := service.NewEventService(redisClient, natsConn, cfg.EventChannelBase, logger)

	moderationService := service.NewModerationService(postRepo, threadRepo, flagRepo, classifier, eventService, service.ModerationConfig{
		FlagThreshold: cfg.ToxicityFlagThreshold,
		FailOpen:      cfg.ModerationFailOpen,
	}, validate, logger)
	threadService := service.NewThreadService(threadRepo, postRepo, summarizer, moderationService, validate, logger)
	engagementService := service.NewEngagementService(reactionRepo, postRepo, logger)
	dashboardService := service.NewDashboardService(dashboardRepo, flagRepo, profileRepo, redisClient, cfg.DashboardCacheTTL, logger)
	profileService := service.NewProfileService(profileRepo, uploader, logger)

	threadHandler := handler.NewThreadHandler(threadService, logger)
	postHandler := handler.NewPostHandler(moderationService, threadService, logger)
	engagementHandler := handler.NewEngagementHandler(engagementService, logger)
	moderationHandler := handler.NewModerationHandler(moderationService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	eventHandler := handler.NewEventHandler(eventService, logger, eventKeepAlive)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ThreadHandler:     threadHandler,
		PostHandler:       postHandler,
		EngagementHandler: engagementHandler,
		ModerationHandler: moderationHandler,
		DashboardHandler:  dashboardHandler,
		ProfileHandler:    profileHandler,
		EventHandler:      eventHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	bridgeCtx, stopBridge := context.WithCancel(context.Background())
	defer stopBridge()
	eventService.Start(bridgeCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func connectNATS(cfg config.Config, logger zerolog.Logger) *nats.Conn {
	if cfg.NATSURL == "" {
		logger.Warn().Msg("nats url not configured, cross-node event bridge disabled")
		return nil
	}

	conn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to nats, cross-node event bridge disabled")
		return nil
	}

	return conn
}

func connectCloudinary(cfg config.Config, logger zerolog.Logger) service.FileUploader {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		logger.Warn().Msg("cloudinary credentials not configured, avatar uploads disabled")
		return nil
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create cloudinary client, avatar uploads disabled")
		return nil
	}

	return uploader
}

// buildAIClients selects the toxicity classifier by provider and wires the
// summarizer whenever an OpenAI key is present. Missing credentials degrade
// to nil collaborators; the services treat those as classifier outages.
func buildAIClients(cfg config.Config, logger zerolog.Logger) (ai.Classifier, ai.Summarizer) {
	var classifier ai.Classifier
	var summarizer ai.Summarizer

	var openAIClient *ai.OpenAIClient
	if cfg.OpenAIAPIKey != "" {
		client, err := ai.NewOpenAIClient(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Logger: logger,
		})
		if err != nil {
			logger.Error().Err(err).Msg("failed to create openai client")
		} else {
			openAIClient = client
			summarizer = client
		}
	} else {
		logger.Warn().Msg("openai api key not configured, summaries disabled")
	}

	switch strings.ToLower(cfg.AIProvider) {
	case "openai":
		if openAIClient != nil {
			classifier = openAIClient
		} else {
			logger.Warn().Msg("openai provider selected without credentials, toxicity scoring disabled")
		}
	default:
		if cfg.PerspectiveAPIKey == "" {
			logger.Warn().Msg("perspective api key not configured, toxicity scoring disabled")
			break
		}
		perspective, err := ai.NewPerspectiveClassifier(ai.PerspectiveConfig{
			APIKey:  cfg.PerspectiveAPIKey,
			APIURL:  cfg.PerspectiveAPIURL,
			Timeout: cfg.AIRequestTimeout,
			Logger:  logger,
		})
		if err != nil {
			logger.Error().Err(err).Msg("failed to create perspective classifier")
			break
		}
		classifier = perspective
	}

	return classifier, summarizer
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
