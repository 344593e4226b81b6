// Package database provides content-store schema creation and demo seeding
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/security"
)

// TableCreator handles the creation of the article schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the article tables and indexes.
func (tc *TableCreator) CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.ExecContext(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedArticles idempotently inserts published articles, skipping slugs that
// already exist. It returns the number of rows inserted.
func (tc *TableCreator) SeedArticles(ctx context.Context, db *sql.DB, articles []seo.Article) (int, error) {
	inserted := 0
	now := time.Now().UTC()
	for _, a := range articles {
		categories, err := json.Marshal(nonNil([]string{a.Facets.Category}, a.Facets.Category != ""))
		if err != nil {
			return inserted, fmt.Errorf("failed to encode categories for %s: %w", a.Slug, err)
		}
		tags, err := json.Marshal(nonNil(a.Facets.Tags, true))
		if err != nil {
			return inserted, fmt.Errorf("failed to encode tags for %s: %w", a.Slug, err)
		}

		res, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO articles
			(id, slug, title, content_html, categories, tags, content_type, is_published, created, changed)
			VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			security.GenerateULID(), a.Slug, a.Title, a.Markup, string(categories), string(tags),
			string(a.Facets.ContentType), now, now)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert article %s: %w", a.Slug, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	return inserted, nil
}

func nonNil(v []string, keep bool) []string {
	if !keep || v == nil {
		return []string{}
	}
	return v
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS articles (id TEXT PRIMARY KEY, slug TEXT NOT NULL UNIQUE, title TEXT NOT NULL, content_html TEXT NOT NULL DEFAULT '', categories TEXT NOT NULL DEFAULT '[]', tags TEXT NOT NULL DEFAULT '[]', content_type TEXT, is_published BOOLEAN NOT NULL DEFAULT 0, created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(is_published)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_content_type ON articles(content_type)`,
}
