package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"marketplace/internal/adapter/api/handler"
	apimiddleware "marketplace/internal/adapter/api/middleware"
	"marketplace/internal/adapter/api/router"
	"marketplace/internal/adapter/repository"
	domainrepo "marketplace/internal/domain/repository"
	"marketplace/internal/infrastructure/auth"
	"marketplace/internal/infrastructure/metrics"
	"marketplace/internal/infrastructure/ratelimit"
	"marketplace/internal/infrastructure/websocket"
	"marketplace/internal/usecase"
	"marketplace/pkg/config"
	"marketplace/pkg/logger"
)

const tokenTTL = 30 * 24 * time.Hour

type stores struct {
	products domainrepo.ProductRepository
	chats    domainrepo.ChatRepository
	pinger   handler.Pinger
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open stores: %v", err)
		os.Exit(1)
	}
	defer st.close()

	if cfg.IsDevelopment() {
		if err := seedDemo(ctx, st.products); err != nil {
			logger.Warn("Failed to seed demo products: %v", err)
		}
	}

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine(ctx.Done())

	tokens := auth.NewTokenService(cfg.JWTSecret, tokenTTL)

	productUseCase := usecase.NewProductUseCase(st.products)
	chatUseCase := usecase.NewChatUseCase(st.chats, nil, limiter)

	wsManager := websocket.NewManager(chatUseCase)
	wsManager.Start(ctx)
	chatUseCase.SetNotifier(wsManager)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(metrics.Middleware)
	e.Use(apimiddleware.RateLimit(limiter))

	e.Validator = handler.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(tokens)

	handlers := router.Handlers{
		Product:   handler.NewProductHandler(productUseCase),
		Chat:      handler.NewChatHandler(chatUseCase),
		WebSocket: handler.NewWebSocketHandler(wsManager, nil),
		Health:    handler.NewHealthHandler(st.pinger),
		DevToken:  handler.NewDevTokenHandler(tokens),
	}
	router.Setup(e, handlers, authMiddleware, cfg.Environment)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Info("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down server: %v", err)
	}
}

// openStores uses Firestore when a project is configured and a local SQLite
// file otherwise.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.FirebaseProject == "" {
		return openSQLite(cfg.SQLitePath)
	}

	var opt option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./firebase-service-account.json"
		}
		if _, err := os.Stat(serviceAccountPath); err != nil {
			return nil, err
		}
		logger.Info("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		return nil, err
	}

	return &stores{
		products: repository.NewFirestoreProductRepository(client),
		chats:    repository.NewFirestoreChatRepository(client),
		close:    func() { client.Close() },
	}, nil
}

func openSQLite(path string) (*stores, error) {
	db, err := repository.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Using SQLite store at %s", path)

	return &stores{
		products: repository.NewSQLiteProductRepository(db),
		chats:    repository.NewSQLiteChatRepository(db),
		pinger:   db,
		close:    func() { closeDB(db) },
	}, nil
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.Warn("Failed to close database: %v", err)
	}
}
