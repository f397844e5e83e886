package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/storage"
)

// multipartOverhead leaves room for the form framing around the file.
const multipartOverhead = 1 << 20

// upload stores an image or PDF and returns its public URL
// POST /api/v1/admin/uploads (multipart field "file")
func (r *Router) upload(c *gin.Context) {
	ctx := c.Request.Context()

	if r.uploads == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Uploads are not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, r.uploads.MaxBytes()+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": storage.ErrTooLarge.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file must be uploaded in the \"file\" field"})
		return
	}
	if header.Size > r.uploads.MaxBytes() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": storage.ErrTooLarge.Error()})
		return
	}

	file, err := header.Open()
	if err != nil {
		logger.FromContext(ctx).Error("Failed to open upload", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	stored, err := r.uploads.Save(file)
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	case errors.Is(err, storage.ErrEmptyFile), errors.Is(err, storage.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.FromContext(ctx).Error("Failed to store upload",
			logger.String("file", header.Filename),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	logger.FromContext(ctx).Info("File uploaded",
		logger.String("url", stored.URL),
		logger.String("content_type", stored.ContentType),
		logger.Int64("size", stored.Size),
		logger.String("actor", actor(c)),
	)
	c.JSON(http.StatusCreated, stored)
}
