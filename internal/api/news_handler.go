package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	"github.com/Hayal27/sininning-pro-sub000/internal/cache"
	"github.com/Hayal27/sininning-pro-sub000/internal/content"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
)

// listPublicNews returns published articles, newest first
// GET /api/v1/news?category=&tag=&search=&limit=&offset=
func (r *Router) listPublicNews(c *gin.Context) {
	filter := repository.NewsFilter{
		Page:     parsePage(c),
		Sort:     parseSort(c),
		Search:   c.Query("search"),
		Status:   models.NewsStatusPublished,
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
	}
	r.respondNews(c, filter)
}

// getPublicNews returns a published article and counts the view
// GET /api/v1/news/:slug
func (r *Router) getPublicNews(c *gin.Context) {
	article, err := r.repos.News.ViewPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleRepositoryError(c, err, "article", "get")
		return
	}
	c.JSON(http.StatusOK, article)
}

// listNews returns articles in any status
// GET /api/v1/admin/news?status=&category=&tag=&search=&limit=&offset=
func (r *Router) listNews(c *gin.Context) {
	filter := repository.NewsFilter{
		Page:     parsePage(c),
		Sort:     parseSort(c),
		Search:   c.Query("search"),
		Status:   models.NewsStatus(c.Query("status")),
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
	}
	r.respondNews(c, filter)
}

func (r *Router) respondNews(c *gin.Context, filter repository.NewsFilter) {
	articles, total, err := r.repos.News.List(c.Request.Context(), filter)
	if err != nil {
		handleRepositoryError(c, err, "news", "list")
		return
	}
	c.JSON(http.StatusOK, pageResponse("news", articles, total, filter.Page))
}

// createNews creates an article authored by the caller
// POST /api/v1/admin/news
func (r *Router) createNews(c *gin.Context) {
	var req models.NewsCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	body, err := content.Prepare(req.Content, req.Summary)
	if err != nil {
		handleValidationError(c, err)
		return
	}
	req.Content = body.HTML
	req.Summary = body.Summary

	var author *uuid.UUID
	if id, ok := currentUserID(c); ok {
		author = &id
	}

	article, err := r.repos.News.Create(c.Request.Context(), &req, author, body.ReadingMinutes)
	if err != nil {
		handleRepositoryError(c, err, "article", "create")
		return
	}

	r.search.SyncNews(article)
	r.newsChanged(c, infraevents.ContentCreated, article)
	c.JSON(http.StatusCreated, article)
}

// getNews retrieves an article by ID
// GET /api/v1/admin/news/:id
func (r *Router) getNews(c *gin.Context) {
	id, ok := parseUUID(c, "id", "article")
	if !ok {
		return
	}

	article, err := r.repos.News.GetByID(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err, "article", "get")
		return
	}
	c.JSON(http.StatusOK, article)
}

// updateNews applies a partial update
// PUT /api/v1/admin/news/:id
func (r *Router) updateNews(c *gin.Context) {
	id, ok := parseUUID(c, "id", "article")
	if !ok {
		return
	}

	var req models.NewsUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	var readingMinutes *int
	if req.Content != nil {
		summary := ""
		if req.Summary != nil {
			summary = *req.Summary
		}
		body, err := content.Prepare(*req.Content, summary)
		if err != nil {
			handleValidationError(c, err)
			return
		}
		req.Content = &body.HTML
		if req.Summary != nil {
			req.Summary = &body.Summary
		}
		readingMinutes = &body.ReadingMinutes
	}

	article, err := r.repos.News.Update(c.Request.Context(), id, &req, readingMinutes)
	if err != nil {
		handleRepositoryError(c, err, "article", "update")
		return
	}

	r.search.SyncNews(article)
	r.newsChanged(c, infraevents.ContentUpdated, article)
	c.JSON(http.StatusOK, article)
}

// publishNews publishes an article immediately
// POST /api/v1/admin/news/:id/publish
func (r *Router) publishNews(c *gin.Context) {
	r.setNewsStatus(c, r.repos.News.Publish, "publish")
}

// unpublishNews returns an article to draft
// POST /api/v1/admin/news/:id/unpublish
func (r *Router) unpublishNews(c *gin.Context) {
	r.setNewsStatus(c, r.repos.News.Unpublish, "unpublish")
}

func (r *Router) setNewsStatus(
	c *gin.Context,
	apply func(ctx context.Context, id uuid.UUID) (*models.News, error),
	operation string,
) {
	id, ok := parseUUID(c, "id", "article")
	if !ok {
		return
	}

	article, err := apply(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err, "article", operation)
		return
	}

	r.search.SyncNews(article)
	r.newsChanged(c, infraevents.ContentUpdated, article)
	c.JSON(http.StatusOK, article)
}

// deleteNews removes an article
// DELETE /api/v1/admin/news/:id
func (r *Router) deleteNews(c *gin.Context) {
	id, ok := parseUUID(c, "id", "article")
	if !ok {
		return
	}

	if err := r.repos.News.Delete(c.Request.Context(), id); err != nil {
		handleRepositoryError(c, err, "article", "delete")
		return
	}

	r.search.Remove(models.SearchTypeNews, id)
	r.newsChanged(c, infraevents.ContentDeleted, &models.News{ID: id})
	c.Status(http.StatusNoContent)
}

func (r *Router) newsChanged(c *gin.Context, eventType infraevents.EventType, article *models.News) {
	r.contentChanged(c, contentChange{
		eventType:  eventType,
		entity:     infraevents.EntityNews,
		id:         article.ID,
		slug:       article.Slug,
		title:      article.Title,
		namespaces: []string{cache.NamespaceNews},
	})
}
