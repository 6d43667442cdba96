package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"card_game_server/config"
	"card_game_server/models"
	"card_game_server/routes"
	"card_game_server/services"
	"card_game_server/utils/logger"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func main() {
	if err := run(); err != nil {
		// The logger may not be built yet when config loading fails
		fmt.Fprintf(os.Stderr, "server exited: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogEncoding); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize the card store
	logger.Infof("Initializing %s card store...", cfg.StoreBackend)
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Errorf("Failed to close card store: %v", err)
		}
	}()
	logger.Infof("%s card store initialized.", cfg.StoreBackend)

	// Initialize services
	cardService := services.NewCardService(store)

	var imageService *services.CardImageService
	if cfg.S3BucketName != "" {
		awsCfg, err := services.LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return err
		}
		imageService = services.NewCardImageService(s3.NewFromConfig(awsCfg), cfg.S3BucketName)
		logger.Infof("Card image uploads enabled for bucket %s", cfg.S3BucketName)
	} else {
		logger.Info("S3_BUCKET_NAME not set, card image routes disabled")
	}

	handler := routes.NewRouter(routes.Options{
		CardService:    cardService,
		ImageService:   imageService,
		Backend:        cfg.StoreBackend,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-stop:
		logger.Infof("Received %s, shutting down...", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// openStore connects the backend named by STORE_BACKEND
func openStore(ctx context.Context, cfg config.Config) (services.CardStore, error) {
	switch cfg.StoreBackend {
	case models.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		ms, err := services.InitializeMongoService(connectCtx, cfg.MongoURI, cfg.Collections.Cards)
		if err != nil {
			return nil, err
		}
		return ms, nil
	case models.BackendDynamoDB:
		awsCfg, err := services.LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return &services.DynamoService{
			Client:    services.InitializeDynamoDBClient(awsCfg),
			TableName: cfg.DynamoDBTable,
		}, nil
	case models.BackendSQLite:
		ss, err := services.OpenSQLite(cfg.SQLitePath, cfg.Collections.Cards)
		if err != nil {
			return nil, err
		}
		return ss, nil
	case models.BackendMemory:
		return services.NewMemoryService(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
