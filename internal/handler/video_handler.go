package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/vidpass/vidpass/internal/filestore"
	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
	"github.com/vidpass/vidpass/internal/service"
)

type VideoHandler struct {
	videos *service.VideoService
	store  filestore.Store
}

func NewVideoHandler(videos *service.VideoService, store filestore.Store) *VideoHandler {
	return &VideoHandler{videos: videos, store: store}
}

func (h *VideoHandler) Upload(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	if title == "" || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title and description are required!"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Video file is required"})
		return
	}
	opened, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read video file"})
		return
	}
	defer opened.Close()

	video, err := h.videos.Upload(c.Request.Context(), title, description, file.Filename, opened, file.Size)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Video Uploaded Successfully!", "video": video})
	case errors.Is(err, appErr.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title and description are required!"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Upload Error"})
	}
}

func (h *VideoHandler) List(c *gin.Context) {
	videos, err := h.videos.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database Error"})
		return
	}
	c.JSON(http.StatusOK, videos)
}

// Media serves stored bytes for the local backend; S3-backed deployments
// hand out direct object URLs instead.
func (h *VideoHandler) Media(c *gin.Context) {
	key := c.Param("key")
	reader, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer reader.Close()
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
