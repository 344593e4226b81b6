package database

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
)

func TestCreateSchemaAndSeed(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	tc := NewTableCreator()
	require.NoError(t, tc.CreateSchema(ctx, db))
	require.NoError(t, tc.CreateSchema(ctx, db), "schema creation is idempotent")

	articles := []seo.Article{
		{Slug: "a", Title: "A", Markup: "<h2>A</h2>", Facets: seo.Facets{Category: "strategy", Tags: []string{"prm"}, ContentType: seo.ContentTypeHowTo}},
		{Slug: "b", Title: "B"},
	}
	n, err := tc.SeedArticles(ctx, db, articles)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = tc.SeedArticles(ctx, db, articles)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var categories, tags, contentType string
	require.NoError(t, db.QueryRow(`SELECT categories, tags, content_type FROM articles WHERE slug = 'a'`).Scan(&categories, &tags, &contentType))
	assert.JSONEq(t, `["strategy"]`, categories)
	assert.JSONEq(t, `["prm"]`, tags)
	assert.Equal(t, "howto", contentType)

	require.NoError(t, db.QueryRow(`SELECT categories, tags FROM articles WHERE slug = 'b'`).Scan(&categories, &tags))
	assert.Equal(t, "[]", categories)
	assert.Equal(t, "[]", tags)
}
