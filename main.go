package main

import (
	"context"
	"log"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	api "friendlychat-backend/cmd/api"
	"friendlychat-backend/internal/events"
	"friendlychat-backend/internal/fanout"
	messagedomain "friendlychat-backend/internal/message/domain"
	messageRepo "friendlychat-backend/internal/message/repository"
	messageUsecase "friendlychat-backend/internal/message/usecase"
	"friendlychat-backend/internal/moderation"
	"friendlychat-backend/internal/onboarding"
	tokendomain "friendlychat-backend/internal/token/domain"
	tokenRepo "friendlychat-backend/internal/token/repository"
	"friendlychat-backend/pkg/config"
	"friendlychat-backend/pkg/database"
	"friendlychat-backend/pkg/fcm"
	"friendlychat-backend/pkg/gcs"
	"friendlychat-backend/pkg/vision"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&messagedomain.Message{}, &tokendomain.DeviceToken{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	messageRepository := messageRepo.NewMessageRepository(db)
	tokenRepository := tokenRepo.NewTokenRepository(db)

	ctx := context.Background()

	// Initialize Google Cloud clients
	if cfg.GoogleProjectID == "" {
		log.Fatal("GOOGLE_PROJECT_ID is not configured")
	}

	var opts []option.ClientOption
	if cfg.GoogleCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentials))
	}
	pubsubClient, err := pubsub.NewClient(ctx, cfg.GoogleProjectID, opts...)
	if err != nil {
		log.Fatal("Failed to create pubsub client:", err)
	}

	fcmClient, err := fcm.NewClient(ctx, cfg.GoogleCredentials)
	if err != nil {
		log.Fatal("Failed to initialize FCM client:", err)
	}

	classifier, err := vision.NewClassifier(ctx, cfg.GoogleCredentials)
	if err != nil {
		log.Fatal("Failed to initialize vision classifier:", err)
	}

	objectStore, err := gcs.NewClient(ctx, cfg.GoogleCredentials)
	if err != nil {
		log.Fatal("Failed to initialize storage client:", err)
	}

	// Initialize event publisher and use cases
	publisher := events.NewPublisher(pubsubClient, cfg.MessageWriteTopic)
	messageUsecaseInstance := messageUsecase.NewMessageUsecase(messageRepository, publisher)

	// Initialize handlers
	onboardingHandler := onboarding.NewHandler(messageUsecaseInstance)
	moderationHandler := moderation.NewHandler(classifier, objectStore, messageUsecaseInstance)
	fanoutHandler := fanout.NewHandler(tokenRepository, fcmClient)

	// Register handlers against their subscriptions
	dispatcher := events.NewDispatcher(pubsubClient)
	dispatcher.Register(cfg.AccountCreatedSub, onboardingHandler.HandleMessage)
	dispatcher.Register(cfg.ObjectChangeSub, moderationHandler.HandleMessage)
	dispatcher.Register(cfg.MessageWriteSub, fanoutHandler.HandleMessage)
	go dispatcher.Start(ctx)

	// Initialize HTTP handler
	handler := api.NewHandler(messageUsecaseInstance, tokenRepository)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
