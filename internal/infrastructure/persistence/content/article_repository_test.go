package content

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	schema "github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/database"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/pkg/config"
)

func newTestRepository(t *testing.T) (*ArticleRepository, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, schema.NewTableCreator().CreateSchema(context.Background(), db))
	return NewArticleRepository(db, logging.NewDiscardLogger()), db
}

func TestListPublished(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	_, err := schema.NewTableCreator().SeedArticles(ctx, db, []seo.Article{
		{Slug: "b-guide", Title: "B", Markup: "<h2>B</h2>", Facets: seo.Facets{Category: "strategy", Tags: []string{"prm", " "}, ContentType: seo.ContentTypeKnowledge}},
		{Slug: "a-guide", Title: "A"},
	})
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO articles (id, slug, title, categories, tags, content_type, is_published)
		VALUES ('x1', 'draft', 'Draft', '[]', '[]', NULL, 0),
		       ('x2', 'odd', 'Odd', 'not json', NULL, 'podcast', 1)`)
	require.NoError(t, err)

	got, err := repo.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "a-guide", got[0].Slug)
	assert.Equal(t, "b-guide", got[1].Slug)
	assert.Equal(t, seo.Facets{Category: "strategy", Tags: []string{"prm"}, ContentType: seo.ContentTypeKnowledge}, got[1].Facets)
	assert.Empty(t, got[1].Markup, "listing omits markup")

	assert.Equal(t, "odd", got[2].Slug)
	assert.Equal(t, seo.Facets{}, got[2].Facets, "unknown content type and bad JSON are dropped")
}

func TestFindMarkupBySlugs(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	_, err := schema.NewTableCreator().SeedArticles(ctx, db, []seo.Article{
		{Slug: "one", Title: "One", Markup: "<h2>One</h2>"},
		{Slug: "two", Title: "Two", Markup: "<h2>Two</h2>"},
	})
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE articles SET is_published = 0 WHERE slug = 'two'`)
	require.NoError(t, err)

	got, err := repo.FindMarkupBySlugs(ctx, []string{"one", "two", "missing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "<h2>One</h2>", got["one"].Markup)

	empty, err := repo.FindMarkupBySlugs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecodeList(t *testing.T) {
	assert.Nil(t, decodeList(""))
	assert.Nil(t, decodeList("{"))
	assert.Equal(t, []string{"a", "b"}, decodeList(`["a","b"]`))
}

func TestSlowQueriesLoggedByLabel(t *testing.T) {
	prev := config.SlowQueryThreshold
	t.Cleanup(func() { config.SlowQueryThreshold = prev })
	config.SlowQueryThreshold = -time.Second

	var buf bytes.Buffer
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		Output:        &buf,
		DefaultLevel:  slog.LevelDebug,
		ChannelLevels: make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	_, db := newTestRepository(t)
	repo := NewArticleRepository(db, logger)
	ctx := context.Background()

	_, err = repo.ListPublished(ctx)
	require.NoError(t, err)
	_, err = repo.FindMarkupBySlugs(ctx, []string{"one"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "LIST_PUBLISHED_ARTICLES")
	assert.Contains(t, out, "FIND_ARTICLE_MARKUP")
	assert.NotContains(t, out, "content_html")
}
