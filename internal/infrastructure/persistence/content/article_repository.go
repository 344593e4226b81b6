// Package content provides the article repositories backing the insights
// engine: SQL (sqlite or Turso) and MongoDB.
package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/persistence/database"
)

type ArticleRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewArticleRepository(db *sql.DB, logger *logging.ChanneledLogger) *ArticleRepository {
	return &ArticleRepository{
		db:     db,
		logger: logger,
	}
}

// ListPublished loads every published article without its markup.
func (r *ArticleRepository) ListPublished(ctx context.Context) ([]seo.Article, error) {
	query := `SELECT slug, title, categories, tags, content_type FROM articles WHERE is_published = 1 ORDER BY slug`

	start := time.Now()
	r.logger.Database().Debug("Loading published articles")

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Database().Error("Published article query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to query published articles: %w", err)
	}
	defer rows.Close()

	articles := []seo.Article{}
	for rows.Next() {
		var (
			a                row
			categories, tags sql.NullString
			contentType      sql.NullString
		)
		if err := rows.Scan(&a.slug, &a.title, &categories, &tags, &contentType); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		a.categories, a.tags, a.contentType = categories.String, tags.String, contentType.String
		articles = append(articles, r.toArticle(a))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Published articles loaded", "count", len(articles), "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, "LIST_PUBLISHED_ARTICLES", duration)
	return articles, nil
}

// FindMarkupBySlugs loads published articles with markup, keyed by slug.
func (r *ArticleRepository) FindMarkupBySlugs(ctx context.Context, slugs []string) (map[string]seo.Article, error) {
	out := make(map[string]seo.Article, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}

	args := make([]any, len(slugs))
	for i, s := range slugs {
		args[i] = s
	}
	query := `SELECT slug, title, content_html, categories, tags, content_type
              FROM articles WHERE is_published = 1 AND slug IN (` + database.Placeholders(len(slugs)) + `)`

	start := time.Now()
	r.logger.Database().Debug("Loading article markup", "count", len(slugs))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Database().Error("Article markup query failed", "error", err.Error(), "count", len(slugs))
		return nil, fmt.Errorf("failed to query article markup: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a                        row
			markup, categories, tags sql.NullString
			contentType              sql.NullString
		)
		if err := rows.Scan(&a.slug, &a.title, &markup, &categories, &tags, &contentType); err != nil {
			return nil, fmt.Errorf("failed to scan article markup: %w", err)
		}
		a.markup, a.categories, a.tags, a.contentType = markup.String, categories.String, tags.String, contentType.String
		out[a.slug] = r.toArticle(a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article markup rows: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Article markup loaded", "requested", len(slugs), "found", len(out), "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, "FIND_ARTICLE_MARKUP", duration)
	return out, nil
}

// row is the raw column set of an article.
type row struct {
	slug, title, markup string
	categories, tags    string
	contentType         string
}

func (r *ArticleRepository) toArticle(a row) seo.Article {
	return buildArticle(r.logger, a.slug, a.title, a.markup, decodeList(a.categories), decodeList(a.tags), a.contentType)
}

// buildArticle validates facets; an unknown content type is dropped.
func buildArticle(logger *logging.ChanneledLogger, slug, title, markup string, categories, tags []string, contentType string) seo.Article {
	facets, ok := seo.NewFacets(categories, tags, contentType)
	if !ok {
		logger.Content().Debug("Dropping unknown content type", "slug", slug, "contentType", contentType)
	}
	return seo.Article{Slug: slug, Title: title, Markup: markup, Facets: facets}
}

// decodeList reads a JSON string array column, tolerating NULL and junk.
func decodeList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
