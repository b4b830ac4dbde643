package main

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/azurelens/backend-go/internal/analyzer/naming"
	"github.com/azurelens/backend-go/internal/collector"
	"github.com/azurelens/backend-go/internal/config"
	"github.com/azurelens/backend-go/internal/db"
	"github.com/azurelens/backend-go/internal/engine"
	"github.com/azurelens/backend-go/internal/handler"
	"github.com/azurelens/backend-go/internal/observability"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	// Database. The API degrades to ad-hoc analysis when unavailable.
	var store *db.Store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, logger)
	cancel()
	if err != nil {
		logger.Warn("database unavailable, assessment persistence disabled", zap.Error(err))
	} else {
		store = db.NewStore(pool)
		defer pool.Close()
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := store.Migrate(migrateCtx); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
		}
		cancel()
	}

	// Azure. Assessments run against empty inventories without credentials.
	var col collector.Collector
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		logger.Warn("no Azure credential, resource collection disabled", zap.Error(err))
	} else {
		rg, err := collector.NewResourceGraphCollector(cred, logger)
		if err != nil {
			logger.Warn("failed to create resource graph collector", zap.Error(err))
		} else {
			col = rg
		}
	}

	metrics := observability.NewMetrics(nil)

	namingCfg := naming.DefaultConfig()
	namingCfg.PrefixThreshold = cfg.NamingPrefixThreshold

	runner := engine.NewRunner(col, storeOrNil(store), metrics, logger, engine.Config{
		TimeoutSeconds:         cfg.AssessmentTimeoutSeconds,
		Naming:                 namingCfg,
		DefaultSubscriptionIDs: cfg.AzureSubscriptionIDs,
	})

	assessmentHandler := handler.NewAssessmentHandler(runner, handlerStoreOrNil(store), logger)
	analysisHandler := handler.NewAnalysisHandler(runner, namingCfg, logger)
	preferencesHandler := handler.NewPreferencesHandler(handlerStoreOrNil(store), logger)

	r := handler.SetupRouter(assessmentHandler, analysisHandler, preferencesHandler, metrics, cfg.CORSAllowOrigin)

	logger.Info("azurelens backend starting", zap.String("port", cfg.ServerPort))
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// storeOrNil keeps a typed-nil *db.Store out of the engine.Store interface
func storeOrNil(store *db.Store) engine.Store {
	if store == nil {
		return nil
	}
	return store
}

func handlerStoreOrNil(store *db.Store) handler.Store {
	if store == nil {
		return nil
	}
	return store
}
