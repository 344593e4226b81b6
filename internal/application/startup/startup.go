// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/application/container"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/providers"
	"github.com/AtRiskMedia/tractstack-seo/internal/presentation/http/server"
	"github.com/AtRiskMedia/tractstack-seo/pkg/config"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 30 * time.Second

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + "tractstack seo insights" + "\033[97m" + "  made by At Risk Media" + "\033[0m")

	// Step 1: Channeled logger
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Channeled logging initialized", "level", config.LogLevel, "toFile", config.LogToFile)

	// Step 2: Vocabulary and weight overrides
	phaseStart := time.Now()
	vocab, err := config.LoadVocabulary(config.VocabularyFile)
	if err != nil {
		logger.LogStartupPhase("vocabulary", time.Since(phaseStart), false, map[string]any{"file": config.VocabularyFile})
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}
	logger.LogStartupPhase("vocabulary", time.Since(phaseStart), true, map[string]any{"file": config.VocabularyFile})

	// Step 3: Content store
	phaseStart = time.Now()
	store, err := OpenContentStore(ctx, config.ContentDBDriver, config.ContentDBDSN, config.SeedDemoContent, logger)
	if err != nil {
		logger.LogStartupPhase("content-store", time.Since(phaseStart), false, map[string]any{"driver": config.ContentDBDriver})
		return fmt.Errorf("failed to open content store: %w", err)
	}
	logger.LogStartupPhase("content-store", time.Since(phaseStart), true, map[string]any{"driver": store.Driver, "seeded": config.SeedDemoContent})

	// Step 4: Metric providers
	phaseStart = time.Now()
	providerSet, err := newProviders(ctx, vocab, logger)
	if err != nil {
		logger.LogStartupPhase("providers", time.Since(phaseStart), false, nil)
		return err
	}
	logger.LogStartupPhase("providers", time.Since(phaseStart), true, map[string]any{"synthetic": providerSet.Synthetic})

	// Step 5: Dependency injection container
	phaseStart = time.Now()
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())
	appContainer, err := container.NewContainer(logger, perfTracker, providerSet, store.Articles, vocab)
	if err != nil {
		logger.LogStartupPhase("container", time.Since(phaseStart), false, nil)
		return fmt.Errorf("failed to create container: %w", err)
	}
	logger.LogStartupPhase("container", time.Since(phaseStart), true, map[string]any{"adminAuth": appContainer.AuthService.Enabled()})

	// Step 6: Cache warming
	phaseStart = time.Now()
	if result, err := appContainer.WarmingService.Warm(ctx); err != nil {
		logger.Startup().Error("Cache warming failed", "error", err.Error(), "duration", time.Since(phaseStart))
	} else {
		logger.LogStartupPhase("warming", time.Since(phaseStart), true, map[string]any{
			"items":     result.Items,
			"reports":   result.Reports,
			"synthetic": result.Synthetic,
		})
	}

	// Step 7: Background cleanup worker
	cleanupWorker := cleanup.NewWorker(appContainer.ScoreStore, appContainer.ReportStore, cleanup.NewConfig(), logger)
	go cleanupWorker.Start(ctx)
	logger.Startup().Info("Background cleanup worker started", "interval", config.CacheCleanupInterval)

	// Step 8: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	if err := store.Close(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error closing content store", "error", err.Error())
	} else {
		logger.Shutdown().Info("Content store closed successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

func newLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.JSONFormat = config.LogJSON
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	return logging.NewChanneledLogger(cfg)
}

func newProviders(ctx context.Context, vocab *config.Vocabulary, logger *logging.ChanneledLogger) (providers.Set, error) {
	creds, err := providers.CredentialsFrom(config.GoogleCredentialsJSON, config.GoogleCredentialsFile)
	if err != nil {
		return providers.Set{}, fmt.Errorf("failed to read google credentials: %w", err)
	}

	conversions := config.ConversionPaths
	if len(vocab.ConversionPaths) > 0 {
		conversions = vocab.ConversionPaths
	}

	return providers.New(ctx, providers.Config{
		SiteURL:         config.GSCSiteURL,
		PropertyID:      config.GA4PropertyID,
		CredentialsJSON: creds,
		PathPrefix:      config.ContentPathPrefix,
		ConversionPaths: conversions,
		WindowDays:      config.MetricsWindowDays,
		RowLimit:        config.ProviderRowLimit,
	}, logger), nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
