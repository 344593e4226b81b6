// Package container provides dependency injection for the SEO insights engine.
package container

import (
	"fmt"

	"github.com/AtRiskMedia/tractstack-seo/internal/application/services"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/scoring"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/style"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/monitoring"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/providers"
	"github.com/AtRiskMedia/tractstack-seo/pkg/config"
)

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
	CacheMonitor *monitoring.CachePerformanceMonitor
	ScoreStore   *stores.ScoreStore
	ReportStore  *stores.ReportStore
	Providers    providers.Set
	Articles     repositories.ArticleRepository

	// Application services
	FusionService     *services.FusionService
	ScoreService      *services.ScoreService
	SuccessSetService *services.SuccessSetService
	PatternService    *services.PatternService
	StyleService      *services.StyleService
	QueryService      *services.QueryService
	InsightsService   *services.InsightsService
	AuthService       *services.AuthService
	WarmingService    *services.WarmingService
}

// NewContainer wires every service over the given providers and content
// store. vocab may be nil.
func NewContainer(
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
	providerSet providers.Set,
	articles repositories.ArticleRepository,
	vocab *config.Vocabulary,
) (*Container, error) {
	if vocab == nil {
		vocab = &config.Vocabulary{}
	}

	scoreStore := stores.NewScoreStore(config.ScoreCacheTTL, nil, logger)
	reportStore := stores.NewReportStore(config.ReportCacheTTL, nil, logger)
	cacheMonitor := monitoring.NewCachePerformanceMonitor(nil)
	scoreStore.SetRecorder(cacheMonitor)
	reportStore.SetRecorder(cacheMonitor)

	fusionService := services.NewFusionService(
		providerSet.Ranking,
		providerSet.Engagement,
		articles,
		config.ContentPathPrefix,
		config.ProviderTimeout,
		logger,
		perfTracker,
	)

	scoreService, err := services.NewScoreService(
		fusionService,
		scoreStore,
		WeightsFrom(vocab),
		providerSet.Synthetic,
		logger,
		perfTracker,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create score service: %w", err)
	}

	analyzer := style.NewAnalyzer(style.DefaultVocabulary().Merge(style.Vocabulary{
		BusinessPhrases: vocab.BusinessPhrases,
		TechnicalTerms:  vocab.TechnicalTerms,
	}))

	loader := services.NewDocumentLoader(articles, logger)
	successSetService := services.NewSuccessSetService(scoreService, logger)
	patternService := services.NewPatternService(successSetService, loader, reportStore, logger, perfTracker)
	styleService := services.NewStyleService(successSetService, loader, analyzer, reportStore, logger, perfTracker)
	queryService := services.NewQueryService(providerSet.Queries, reportStore, config.ProviderTimeout, logger, perfTracker)
	insightsService := services.NewInsightsService(scoreService, successSetService, patternService, styleService, queryService, loader, logger)

	return &Container{
		Logger:       logger,
		PerfTracker:  perfTracker,
		CacheMonitor: cacheMonitor,
		ScoreStore:   scoreStore,
		ReportStore:  reportStore,
		Providers:    providerSet,
		Articles:     articles,

		FusionService:     fusionService,
		ScoreService:      scoreService,
		SuccessSetService: successSetService,
		PatternService:    patternService,
		StyleService:      styleService,
		QueryService:      queryService,
		InsightsService:   insightsService,
		AuthService:       services.NewAuthService(config.AdminJWTSecret, config.AdminPasswordHash, config.AdminTokenLifetime, logger),
		WarmingService:    services.NewWarmingService(insightsService, cacheMonitor, logger),
	}, nil
}

// WeightsFrom returns the weight override of vocab, or the default weights.
func WeightsFrom(vocab *config.Vocabulary) scoring.Weights {
	if vocab == nil || vocab.Weights == nil {
		return scoring.DefaultWeights
	}
	return scoring.Weights{
		Rank:       vocab.Weights.Rank,
		CTR:        vocab.Weights.CTR,
		Transition: vocab.Weights.Transition,
		Engagement: vocab.Weights.Engagement,
	}
}
