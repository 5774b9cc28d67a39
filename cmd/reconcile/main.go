// Command reconcile reverts host subscriptions whose cancellation period has
// ended. It runs once and exits, for use from a scheduler.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"staynest/internal/adapter/repository"
	"staynest/internal/domain/plan"
	"staynest/internal/infrastructure/cache"
	"staynest/internal/infrastructure/firebase"
	"staynest/internal/usecase"
	"staynest/pkg/config"
	"staynest/pkg/logger"
)

func main() {
	dryRun := pflag.Bool("dry-run", false, "list the hosts that would be reverted without writing")
	project := pflag.String("project", "", "Firebase project id, overrides FIREBASE_PROJECT_ID")
	timeout := pflag.Duration("timeout", 5*time.Minute, "give up after this long")
	pflag.Parse()

	if *project != "" {
		if err := os.Setenv("FIREBASE_PROJECT_ID", *project); err != nil {
			log.Fatalf("Failed to set project: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StorageDriver != "firestore" {
		log.Fatalf("reconcile needs STORAGE_DRIVER=firestore, got %q", cfg.StorageDriver)
	}

	if err := logger.Init(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "staynest-reconcile",
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	catalog := plan.MustDefault()
	if cfg.PlansFile != "" {
		if catalog, err = plan.Load(cfg.PlansFile); err != nil {
			zlog.Fatal("Failed to load plan catalog", zap.Error(err))
		}
	}

	opts := firebase.ClientOptions(cfg.FirebaseServiceAccountJSON, cfg.FirebaseServiceAccountPath)
	client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		zlog.Fatal("Failed to create Firestore client", zap.Error(err))
	}
	defer client.Close()

	repos := repository.NewFirestoreRepositories(client)
	notifications := usecase.NewNotificationUseCase(repos.Notifications, nil)
	subscriptions := usecase.NewSubscriptionUseCase(repos.Users, catalog, cache.Noop{}, notifications, cfg.FreeTrialDays)

	if *dryRun {
		hosts, err := subscriptions.ExpiredCancellations(ctx)
		if err != nil {
			zlog.Fatal("Failed to list expired cancellations", zap.Error(err))
		}
		for _, host := range hosts {
			fmt.Printf("%s\t%s\t%s\n", host.ID, host.Email, host.Subscription.PlanID)
		}
		zlog.Info("Dry run finished", zap.Int("would_revert", len(hosts)))
		return
	}

	reverted, err := subscriptions.ReconcileExpired(ctx)
	if err != nil {
		zlog.Fatal("Reconcile failed", zap.Error(err))
	}
	zlog.Info("Reconcile finished", zap.Int("reverted", reverted))
}
