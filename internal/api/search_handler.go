package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	infracontext "github.com/Hayal27/sininning-pro-sub000/infrastructure/context"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/search"
)

const reindexTimeout = 5 * time.Minute

// searchContent searches published products, articles and postings
// GET /api/v1/search?q=&type=&limit=
func (r *Router) searchContent(c *gin.Context) {
	term := c.Query("q")
	docType := c.Query("type")

	limit := search.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(parsed, search.MaxLimit)
	}

	hits, err := r.search.Search(c.Request.Context(), term, docType, limit)
	switch {
	case errors.Is(err, search.ErrUnknownType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.FromContext(c.Request.Context()).Error("Search failed",
			logger.String("query", term),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   term,
		"type":    docType,
		"results": hits,
		"count":   len(hits),
	})
}

// reindexSearch rebuilds the search index from the database
// POST /api/v1/admin/search/reindex
func (r *Router) reindexSearch(c *gin.Context) {
	if !r.search.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search index is not configured"})
		return
	}

	ctx, cancel := infracontext.Detached(c.Request.Context(), reindexTimeout)
	defer cancel()

	count, err := r.search.Reindex(ctx, r.repos.Products, r.repos.News, r.repos.Careers)
	if err != nil {
		logger.FromContext(ctx).Error("Search reindex failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rebuild search index"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Search index rebuilt", "documents": count})
}

// reindexInBackground rebuilds the index after a bulk write the per-record
// sync does not cover.
func (r *Router) reindexInBackground(parent context.Context) {
	ctx, cancel := infracontext.Detached(parent, reindexTimeout)
	defer cancel()

	if _, err := r.search.Reindex(ctx, r.repos.Products, r.repos.News, r.repos.Careers); err != nil {
		logger.FromContext(ctx).Warn("Background search reindex failed", logger.Error(err))
	}
}
