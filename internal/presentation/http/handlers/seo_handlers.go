// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/application/services"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/patterns"
	searchqueries "github.com/AtRiskMedia/tractstack-seo/internal/domain/queries"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// SEOHandlers exposes the insights engine to the dashboard and the content
// generator.
type SEOHandlers struct {
	insights    *services.InsightsService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSEOHandlers creates insights handlers with injected dependencies
func NewSEOHandlers(insights *services.InsightsService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SEOHandlers {
	return &SEOHandlers{
		insights:    insights,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetSummary handles GET /api/v1/seo/summary
func (h *SEOHandlers) GetSummary(c *gin.Context) {
	summary, err := h.insights.GetScoreSummary(c.Request.Context())
	if err != nil {
		h.respondError(c, "get_summary", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetScores handles GET /api/v1/seo/scores?refresh=
func (h *SEOHandlers) GetScores(c *gin.Context) {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	if refresh {
		h.PostRefresh(c)
		return
	}

	corpus, err := h.insights.GetScores(c.Request.Context(), false)
	if err != nil {
		h.respondError(c, "get_scores", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"corpus": corpus})
}

// PostRefresh handles POST /api/v1/seo/scores/refresh
func (h *SEOHandlers) PostRefresh(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_refresh_request", "scores")
	defer marker.Complete()

	corpus, err := h.insights.Refresh(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		h.respondError(c, "post_refresh", err)
		return
	}

	marker.SetSuccess(true)
	h.logger.HTTP().Info("Score refresh served", "items", len(corpus.Scores), "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"corpus": corpus})
}

// GetSuccessSet handles GET /api/v1/seo/success
func (h *SEOHandlers) GetSuccessSet(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.respondError(c, "get_success_set", err)
		return
	}

	items, err := h.insights.GetSuccessSet(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "get_success_set", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filter": filter.WithDefaults(),
		"count":  len(items),
		"items":  items,
	})
}

// GetStructuralPattern handles GET /api/v1/seo/patterns/structure
func (h *SEOHandlers) GetStructuralPattern(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.respondError(c, "get_structural_pattern", err)
		return
	}

	pattern, err := h.insights.GetStructuralPattern(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "get_structural_pattern", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pattern": pattern})
}

// GetSuccessPattern handles GET /api/v1/seo/patterns/success?keyword=&includeQueries=
func (h *SEOHandlers) GetSuccessPattern(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.respondError(c, "get_success_pattern", err)
		return
	}

	pattern, err := h.insights.GetSuccessPattern(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "get_success_pattern", err)
		return
	}

	keyword := c.Query("keyword")
	if keyword == "" || c.Query("includeQueries") == "false" {
		c.JSON(http.StatusOK, gin.H{"pattern": pattern})
		return
	}

	queries, err := h.insights.GetRelatedQueries(c.Request.Context(), keyword, 0)
	if err != nil {
		h.respondError(c, "get_success_pattern", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pattern":        pattern,
		"keyword":        keyword,
		"relatedQueries": queries,
		"queriesPrompt":  searchqueries.RenderPrompt(queries),
	})
}

// GetStyleAnalysis handles GET /api/v1/seo/patterns/style
func (h *SEOHandlers) GetStyleAnalysis(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.respondError(c, "get_style_analysis", err)
		return
	}

	analysis, err := h.insights.GetStyleAnalysis(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "get_style_analysis", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"style": analysis})
}

// GetStylePrompt handles GET /api/v1/seo/prompts/style
func (h *SEOHandlers) GetStylePrompt(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.respondError(c, "get_style_prompt", err)
		return
	}

	prompt, err := h.insights.GetStylePromptText(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "get_style_prompt", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}

// GetOutlinePrompt handles GET /api/v1/seo/prompts/outline?topic=
func (h *SEOHandlers) GetOutlinePrompt(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.respondError(c, "get_outline_prompt", err)
		return
	}

	topic := c.Query("topic")
	outline, err := h.insights.GetOutlinePromptText(c.Request.Context(), topic, filter)
	if err != nil {
		h.respondError(c, "get_outline_prompt", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"topic":   topic,
		"outline": outline,
		"prompt":  patterns.RenderOutline(outline),
	})
}

// GetStyleSamples handles GET /api/v1/seo/samples?category=&limit=
func (h *SEOHandlers) GetStyleSamples(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		h.respondError(c, "get_style_samples", err)
		return
	}

	samples, err := h.insights.GetStyleSamples(c.Request.Context(), c.Query("category"), limit)
	if err != nil {
		h.respondError(c, "get_style_samples", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"samples": samples})
}

// GetRelatedQueries handles GET /api/v1/seo/queries?keyword=&limit=
func (h *SEOHandlers) GetRelatedQueries(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		h.respondError(c, "get_related_queries", err)
		return
	}

	queries, err := h.insights.GetRelatedQueries(c.Request.Context(), c.Query("keyword"), limit)
	if err != nil {
		h.respondError(c, "get_related_queries", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keyword": c.Query("keyword"), "count": len(queries), "queries": queries})
}

// GetOptimalQueries handles GET /api/v1/seo/queries/optimal?keyword=&max=&longTail=
func (h *SEOHandlers) GetOptimalQueries(c *gin.Context) {
	maxQueries, err := queryInt(c, "max")
	if err != nil {
		h.respondError(c, "get_optimal_queries", err)
		return
	}
	longTail := true
	if raw := c.Query("longTail"); raw != "" {
		longTail, err = strconv.ParseBool(raw)
		if err != nil {
			h.respondError(c, "get_optimal_queries", fmt.Errorf("%w: bad longTail %q", seo.ErrInvalidFilter, raw))
			return
		}
	}

	queries, err := h.insights.GetOptimalQueries(c.Request.Context(), c.Query("keyword"), maxQueries, longTail)
	if err != nil {
		h.respondError(c, "get_optimal_queries", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keyword": c.Query("keyword"), "count": len(queries), "queries": queries})
}

// GetCategoryQueries handles GET /api/v1/seo/queries/category/:category?limit=
func (h *SEOHandlers) GetCategoryQueries(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		h.respondError(c, "get_category_queries", err)
		return
	}

	category := c.Param("category")
	queries, err := h.insights.GetPopularQueriesByCategory(c.Request.Context(), category, limit)
	if err != nil {
		h.respondError(c, "get_category_queries", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "count": len(queries), "queries": queries})
}

// GetQueriesPrompt handles GET /api/v1/seo/prompts/queries?keyword=
func (h *SEOHandlers) GetQueriesPrompt(c *gin.Context) {
	prompt, err := h.insights.GetQueriesPromptText(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		h.respondError(c, "get_queries_prompt", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keyword": c.Query("keyword"), "prompt": prompt})
}

func (h *SEOHandlers) respondError(c *gin.Context, operation string, err error) {
	if errors.Is(err, seo.ErrInvalidFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.HTTP().Error("Insights request failed", "operation", operation, "error", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "insights request failed"})
}

// parseFilter reads minRank, category, contentType and limit from the query.
func parseFilter(c *gin.Context) (seo.SuccessFilter, error) {
	var filter seo.SuccessFilter

	if raw := c.Query("minRank"); raw != "" {
		rank, err := seo.ParseRank(raw)
		if err != nil {
			return filter, err
		}
		filter.MinRank = rank
	}

	if raw := c.Query("contentType"); raw != "" {
		ct, ok := seo.ParseContentType(raw)
		if !ok {
			return filter, fmt.Errorf("%w: unknown content type %q", seo.ErrInvalidFilter, raw)
		}
		filter.ContentType = ct
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: bad limit %q", seo.ErrInvalidFilter, raw)
		}
		filter.Limit = n
	}

	filter.Category = c.Query("category")
	return filter, nil
}

// queryInt reads a non-negative integer parameter; absent reads as 0.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad %s %q", seo.ErrInvalidFilter, name, raw)
	}
	return n, nil
}
