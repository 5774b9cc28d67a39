package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"staynest/internal/adapter/api"
	"staynest/internal/adapter/api/handler"
	apimiddleware "staynest/internal/adapter/api/middleware"
	"staynest/internal/adapter/api/router"
	"staynest/internal/adapter/repository"
	"staynest/internal/domain/plan"
	"staynest/internal/infrastructure/cache"
	"staynest/internal/infrastructure/email"
	"staynest/internal/infrastructure/firebase"
	"staynest/internal/infrastructure/ratelimit"
	"staynest/internal/infrastructure/storage"
	"staynest/internal/infrastructure/websocket"
	"staynest/internal/usecase"
	"staynest/pkg/config"
	"staynest/pkg/logger"
)

const uploadsDir = "uploads"

type backend struct {
	repos    *repository.Repositories
	verifier apimiddleware.TokenVerifier
	uploader usecase.ImageUploader
	checks   map[string]handler.Pinger
	closers  []func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "staynest-api",
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog := plan.MustDefault()
	if cfg.PlansFile != "" {
		catalog, err = plan.Load(cfg.PlansFile)
		if err != nil {
			zlog.Fatal("Failed to load plan catalog", zap.String("path", cfg.PlansFile), zap.Error(err))
		}
	}

	be, err := newBackend(ctx, cfg)
	if err != nil {
		zlog.Fatal("Failed to initialize storage backend", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer be.close()

	var subscriptionCache usecase.SubscriptionCache = cache.Noop{}
	var limiterStore ratelimit.Store
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			zlog.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		be.closers = append(be.closers, redisClient.Close)
		be.checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		subscriptionCache = cache.NewSubscriptionCache(redisClient)
		limiterStore = ratelimit.NewRedisStore(redisClient)
	} else {
		memoryLimiter := ratelimit.NewMemoryStore()
		memoryLimiter.StartCleanupRoutine(ctx, time.Minute)
		limiterStore = memoryLimiter
	}

	var mailer usecase.Mailer = email.Disabled{}
	if cfg.EmailAPIURL != "" {
		mailer = email.NewClient(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailSender)
	} else {
		zlog.Warn("EMAIL_API_URL not set, booking receipts are disabled")
	}

	wsManager := websocket.NewManager()
	repos := be.repos

	notificationUseCase := usecase.NewNotificationUseCase(repos.Notifications, wsManager)
	subscriptionUseCase := usecase.NewSubscriptionUseCase(repos.Users, catalog, subscriptionCache, notificationUseCase, cfg.FreeTrialDays)
	hostStatusUseCase := usecase.NewHostStatusUseCase(repos.Users, repos.HostStatus, repos.Properties,
		subscriptionUseCase, catalog, subscriptionCache, notificationUseCase, cfg.RevokeDisableDays, cfg.FreeTrialDays)
	walletUseCase := usecase.NewWalletUseCase(repos.Wallet, repos.Users, notificationUseCase, usecase.WalletConfig{
		MinWithdrawal:     cfg.WalletMinWithdrawal,
		FeePercent:        cfg.WalletFeePercent,
		HouseAccountEmail: cfg.HouseAccountEmail,
		HouseEntry:        cfg.WalletHouseEntry,
	})
	listingUseCase := usecase.NewListingUseCase(repos.Properties, repos.Drafts, repos.Users, subscriptionUseCase, be.uploader)
	bookingUseCase := usecase.NewBookingUseCase(repos.Bookings, repos.Properties, mailer, notificationUseCase)
	reviewUseCase := usecase.NewReviewUseCase(repos.Reviews, repos.Bookings, repos.Users, notificationUseCase)
	userUseCase := usecase.NewUserUseCase(repos.Users, subscriptionUseCase, catalog)

	subscriptionUseCase.StartReconcileJob(ctx, cfg.ReconcileInterval)

	window := cfg.RateLimitWindow
	limiter := ratelimit.NewRateLimiter(limiterStore, ratelimit.Rule{Limit: cfg.RateLimitRequests, Window: window}).
		WithRule(ratelimit.ActionWrite, ratelimit.Rule{Limit: max(cfg.RateLimitRequests/2, 1), Window: window}).
		WithRule(ratelimit.ActionWallet, ratelimit.Rule{Limit: 10, Window: window})

	e := api.NewEcho()
	if cfg.StorageDriver == "memory" || cfg.StorageBucket == "" {
		e.Static("/uploads", uploadsDir)
	}

	router.Setup(e, &router.Handlers{
		Health:       handler.NewHealthHandler(be.checks),
		User:         handler.NewUserHandler(userUseCase),
		Subscription: handler.NewSubscriptionHandler(subscriptionUseCase),
		Admin:        handler.NewAdminHandler(hostStatusUseCase, subscriptionUseCase),
		Wallet:       handler.NewWalletHandler(walletUseCase),
		Property:     handler.NewPropertyHandler(listingUseCase),
		Booking:      handler.NewBookingHandler(bookingUseCase),
		Review:       handler.NewReviewHandler(reviewUseCase),
		Notification: handler.NewNotificationHandler(notificationUseCase),
		WebSocket:    handler.NewWebSocketHandler(wsManager),
	}, &router.Middlewares{
		Auth:      apimiddleware.NewAuthMiddleware(be.verifier),
		Admin:     apimiddleware.NewAdminMiddleware(repos.Users),
		Host:      apimiddleware.NewHostMiddleware(repos.Users),
		RateLimit: apimiddleware.NewRateLimitMiddleware(limiter),
	})

	go func() {
		zlog.Info("Starting server", zap.String("port", cfg.ServerPort), zap.String("storage", cfg.StorageDriver))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.StorageDriver == "memory" {
		logger.Get().Warn("Using in-memory storage and dev tokens, data is lost on restart")
		return &backend{
			repos:    repository.NewMemoryStore().Repositories(),
			verifier: firebase.DevVerifier{},
			uploader: &storage.LocalUploader{Dir: uploadsDir, BaseURL: "http://localhost:" + cfg.ServerPort + "/uploads"},
			checks:   map[string]handler.Pinger{},
		}, nil
	}

	opts := firebase.ClientOptions(cfg.FirebaseServiceAccountJSON, cfg.FirebaseServiceAccountPath)
	app, err := firebase.NewApp(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return nil, err
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return nil, err
	}

	be := &backend{
		repos:    repository.NewFirestoreRepositories(firestoreClient),
		verifier: firebase.NewFirebaseAuthClient(authClient),
		closers:  []func() error{firestoreClient.Close},
		checks: map[string]handler.Pinger{
			"firestore": func(ctx context.Context) error {
				_, err := firestoreClient.Collection("users").Limit(1).Documents(ctx).Next()
				if errors.Is(err, iterator.Done) {
					return nil
				}
				return err
			},
		},
	}

	if cfg.StorageBucket == "" {
		logger.Get().Warn("STORAGE_BUCKET not set, images are stored on local disk")
		be.uploader = &storage.LocalUploader{Dir: uploadsDir, BaseURL: "http://localhost:" + cfg.ServerPort + "/uploads"}
		return be, nil
	}

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
	if err != nil {
		be.close()
		return nil, err
	}
	be.uploader = storageClient
	be.closers = append(be.closers, storageClient.Close)
	return be, nil
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			logger.Get().Warn("Failed to close client", zap.Error(err))
		}
	}
}
