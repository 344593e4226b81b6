package content

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/persistence/database"
)

const articleCollection = "articles"

// mongoArticle is the stored document shape.
type mongoArticle struct {
	Slug        string   `bson:"slug"`
	Title       string   `bson:"title"`
	ContentHTML string   `bson:"content_html,omitempty"`
	Categories  []string `bson:"categories,omitempty"`
	Tags        []string `bson:"tags,omitempty"`
	ContentType string   `bson:"content_type,omitempty"`
	IsPublished bool     `bson:"is_published"`
}

// MongoArticleRepository reads articles from a MongoDB collection.
type MongoArticleRepository struct {
	client   *mongo.Client
	articles *mongo.Collection
	logger   *logging.ChanneledLogger
}

// NewMongoArticleRepository connects, pings and ensures the slug index.
func NewMongoArticleRepository(ctx context.Context, uri, dbName string, logger *logging.ChanneledLogger) (*MongoArticleRepository, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	r := &MongoArticleRepository{
		client:   client,
		articles: client.Database(dbName).Collection(articleCollection),
		logger:   logger,
	}

	_, err = r.articles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Database().Warn("Failed to ensure article slug index", "error", err.Error())
	}

	logger.Database().Info("MongoDB article store connected", "database", dbName)
	return r, nil
}

// ListPublished loads every published article without its markup.
func (r *MongoArticleRepository) ListPublished(ctx context.Context) ([]seo.Article, error) {
	start := time.Now()
	opts := options.Find().
		SetProjection(bson.M{"content_html": 0}).
		SetSort(bson.D{{Key: "slug", Value: 1}})

	cursor, err := r.articles.Find(ctx, bson.M{"is_published": true}, opts)
	if err != nil {
		r.logger.Database().Error("Published article find failed", "error", err.Error())
		return nil, fmt.Errorf("failed to find published articles: %w", err)
	}

	var docs []mongoArticle
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode articles: %w", err)
	}

	articles := make([]seo.Article, 0, len(docs))
	for _, d := range docs {
		articles = append(articles, r.toArticle(d))
	}

	duration := time.Since(start)
	r.logger.Database().Info("Published articles loaded", "count", len(articles), "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, "LIST_PUBLISHED_ARTICLES", duration)
	return articles, nil
}

// FindMarkupBySlugs loads published articles with markup, keyed by slug.
func (r *MongoArticleRepository) FindMarkupBySlugs(ctx context.Context, slugs []string) (map[string]seo.Article, error) {
	out := make(map[string]seo.Article, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}

	start := time.Now()
	filter := bson.M{"is_published": true, "slug": bson.M{"$in": slugs}}
	cursor, err := r.articles.Find(ctx, filter)
	if err != nil {
		r.logger.Database().Error("Article markup find failed", "error", err.Error(), "count", len(slugs))
		return nil, fmt.Errorf("failed to find article markup: %w", err)
	}

	var docs []mongoArticle
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode article markup: %w", err)
	}
	for _, d := range docs {
		out[d.Slug] = r.toArticle(d)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Article markup loaded", "requested", len(slugs), "found", len(out), "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, "FIND_ARTICLE_MARKUP", duration)
	return out, nil
}

// SeedArticles upserts articles by slug without touching existing ones.
func (r *MongoArticleRepository) SeedArticles(ctx context.Context, articles []seo.Article) (int, error) {
	inserted := 0
	for _, a := range articles {
		doc := mongoArticle{
			Slug:        a.Slug,
			Title:       a.Title,
			ContentHTML: a.Markup,
			Tags:        a.Facets.Tags,
			ContentType: string(a.Facets.ContentType),
			IsPublished: true,
		}
		if a.Facets.Category != "" {
			doc.Categories = []string{a.Facets.Category}
		}
		res, err := r.articles.UpdateOne(ctx,
			bson.M{"slug": a.Slug},
			bson.M{"$setOnInsert": doc},
			options.Update().SetUpsert(true))
		if err != nil {
			return inserted, fmt.Errorf("failed to seed article %s: %w", a.Slug, err)
		}
		if res.UpsertedCount > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// Close disconnects the client.
func (r *MongoArticleRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoArticleRepository) toArticle(d mongoArticle) seo.Article {
	return buildArticle(r.logger, d.Slug, d.Title, d.ContentHTML, d.Categories, d.Tags, d.ContentType)
}
