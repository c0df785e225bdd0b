package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"academy-cms/internal/logger"
	"academy-cms/internal/models"
	"academy-cms/internal/storage"
)

type ImageHandler struct {
	db      *gorm.DB
	storage *storage.Client
	log     *logger.Logger
}

func NewImageHandler(db *gorm.DB, st *storage.Client, log *logger.Logger) *ImageHandler {
	return &ImageHandler{db: db, storage: st, log: log}
}

type imageView struct {
	ID         string    `json:"id"`
	ImageURL   string    `json:"image_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ListImages lists the bucket, newest first.
func (h *ImageHandler) ListImages(c *gin.Context) {
	objects, err := h.storage.ListImages()
	if err != nil {
		h.log.Error("list images failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch images.")
		return
	}
	out := make([]imageView, 0, len(objects))
	for _, o := range objects {
		out = append(out, imageView{ID: o.URL, ImageURL: o.URL, UploadedAt: o.UploadedAt})
	}
	c.JSON(http.StatusOK, out)
}

// Upload stores the multipart "image" field and records it in the
// library table. The table write is best effort.
func (h *ImageHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "No image file provided.")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "No image file provided.")
		return
	}
	defer file.Close()

	url, err := h.storage.UploadImage(fileHeader.Filename, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.log.Error("upload image failed", "filename", fileHeader.Filename, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to upload image.")
		return
	}

	err = h.db.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "image_url"}}, DoNothing: true}).
		Create(&models.LibraryImage{ImageURL: url}).Error
	if err != nil {
		h.log.Warn("save image to library failed", "url", url, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

// Delete removes the blob and its library row.
func (h *ImageHandler) Delete(c *gin.Context) {
	var input struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.URL == "" {
		fail(c, http.StatusBadRequest, "Image URL is required.")
		return
	}

	if err := h.storage.DeleteImage(input.URL); err != nil {
		if errors.Is(err, storage.ErrForeignURL) {
			fail(c, http.StatusBadRequest, "Image URL is not in the library.")
			return
		}
		h.log.Error("delete image failed", "url", input.URL, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to delete image.")
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Where("image_url = ?", input.URL).Delete(&models.LibraryImage{}).Error; err != nil {
		h.log.Error("delete image row failed", "url", input.URL, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to delete image.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Image deleted successfully."})
}
