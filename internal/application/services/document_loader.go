package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/markup"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
)

// DocumentLoader resolves scored items to their article markup.
type DocumentLoader struct {
	articles repositories.ArticleRepository
	logger   *logging.ChanneledLogger
}

// NewDocumentLoader creates a loader over the content store.
func NewDocumentLoader(articles repositories.ArticleRepository, logger *logging.ChanneledLogger) *DocumentLoader {
	return &DocumentLoader{articles: articles, logger: logger}
}

// Load returns one document per item with stored markup, in item order.
// Items missing from the store are skipped.
func (l *DocumentLoader) Load(ctx context.Context, items []seo.ContentScore) ([]markup.Document, error) {
	if len(items) == 0 {
		return nil, nil
	}
	start := time.Now()

	slugs := make([]string, 0, len(items))
	for _, it := range items {
		slugs = append(slugs, it.Slug)
	}

	found, err := l.articles.FindMarkupBySlugs(ctx, slugs)
	if err != nil {
		return nil, fmt.Errorf("failed to load article markup: %w", err)
	}

	docs := make([]markup.Document, 0, len(found))
	for _, it := range items {
		a, ok := found[it.Slug]
		if !ok || a.Markup == "" {
			continue
		}
		title := a.Title
		if title == "" {
			title = it.Title
		}
		docs = append(docs, markup.Document{
			Slug:     it.Slug,
			Title:    title,
			SEOScore: it.SEOScore,
			Markup:   a.Markup,
		})
	}

	l.logger.Content().Debug("Article markup loaded",
		"requested", len(slugs),
		"found", len(docs),
		"duration", time.Since(start))
	return docs, nil
}
