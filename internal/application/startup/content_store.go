package startup

import (
	"context"
	"fmt"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/repositories"
	tablecreator "github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/database"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/persistence/content"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/providers"
	"github.com/AtRiskMedia/tractstack-seo/pkg/config"
)

// DriverMongo selects the document-store repository.
const DriverMongo = "mongo"

// ContentStore is an opened article repository and its release hook.
type ContentStore struct {
	Articles repositories.ArticleRepository
	Driver   string
	close    func(context.Context) error
}

// Close releases the underlying connection.
func (s *ContentStore) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenContentStore connects to the configured content store. Demo articles
// are seeded when seed is set.
func OpenContentStore(ctx context.Context, driver, dsn string, seed bool, logger *logging.ChanneledLogger) (*ContentStore, error) {
	if driver == DriverMongo {
		return openMongo(ctx, dsn, seed, logger)
	}
	return openSQL(ctx, driver, dsn, seed, logger)
}

func openMongo(ctx context.Context, uri string, seed bool, logger *logging.ChanneledLogger) (*ContentStore, error) {
	repo, err := content.NewMongoArticleRepository(ctx, uri, config.ContentDBName, logger)
	if err != nil {
		return nil, err
	}

	if seed {
		n, err := repo.SeedArticles(ctx, providers.DemoArticles())
		if err != nil {
			_ = repo.Close(ctx)
			return nil, fmt.Errorf("failed to seed demo content: %w", err)
		}
		logger.Database().Info("Demo content seeded", "driver", DriverMongo, "inserted", n)
	}

	return &ContentStore{Articles: repo, Driver: DriverMongo, close: repo.Close}, nil
}

func openSQL(ctx context.Context, driver, dsn string, seed bool, logger *logging.ChanneledLogger) (*ContentStore, error) {
	db, err := database.NewConnectionWithLogger(ctx, driver, dsn, database.Options{
		AuthToken:       config.TursoAuthToken,
		MaxOpenConns:    config.DBMaxOpenConns,
		MaxIdleConns:    config.DBMaxIdleConns,
		ConnMaxLifetime: config.DBConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if seed {
		tc := tablecreator.NewTableCreator()
		if err := tc.CreateSchema(ctx, db.DB); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create content schema: %w", err)
		}
		n, err := tc.SeedArticles(ctx, db.DB, providers.DemoArticles())
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed demo content: %w", err)
		}
		logger.Database().Info("Demo content seeded", "driver", db.Driver, "inserted", n)
	}

	return &ContentStore{
		Articles: content.NewArticleRepository(db.DB, logger),
		Driver:   db.Driver,
		close:    func(context.Context) error { return db.Close() },
	}, nil
}
