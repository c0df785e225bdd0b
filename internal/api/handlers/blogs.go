package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"academy-cms/internal/logger"
	"academy-cms/internal/markup"
	"academy-cms/internal/models"
	"academy-cms/internal/utils"
)

type BlogHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlogHandler(db *gorm.DB, log *logger.Logger) *BlogHandler {
	return &BlogHandler{db: db, log: log}
}

type blogInput struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	Content  string `json:"content"`
}

type blogView struct {
	models.Blog
	ContentHTML string `json:"content_html"`
}

// uniqueSlug derives a slug from title, appending -2, -3, ... when another
// post already owns it.
func uniqueSlug(db *gorm.DB, title string, selfID uint) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "post"
	}
	slug := base
	for n := 2; ; n++ {
		var count int64
		q := db.Model(&models.Blog{}).Where("slug = ?", slug)
		if selfID != 0 {
			q = q.Where("id <> ?", selfID)
		}
		if err := q.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

func (h *BlogHandler) ListBlogs(c *gin.Context) {
	var rows []models.Blog
	if err := h.db.WithContext(c.Request.Context()).Order("created_at desc").Find(&rows).Error; err != nil {
		h.log.Error("fetch blogs failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch blogs.")
		return
	}
	views := make([]blogView, len(rows))
	for i, row := range rows {
		views[i] = h.view(row)
	}
	c.JSON(http.StatusOK, views)
}

// view renders content to safe HTML. The raw content field is editor
// source and is never rendered as HTML.
func (h *BlogHandler) view(row models.Blog) blogView {
	html, err := markup.RenderPost(row.Content)
	if err != nil {
		h.log.Warn("render blog failed", "slug", row.Slug, "error", err)
		html = markup.Sanitize(row.Content)
	}
	return blogView{Blog: row, ContentHTML: html}
}

// GetBlog returns one post with its content rendered to safe HTML.
func (h *BlogHandler) GetBlog(c *gin.Context) {
	var row models.Blog
	err := h.db.WithContext(c.Request.Context()).Where("slug = ?", c.Param("slug")).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "Blog not found")
		return
	}
	if err != nil {
		h.log.Error("fetch blog failed", "slug", c.Param("slug"), "error", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch blog.")
		return
	}

	c.JSON(http.StatusOK, h.view(row))
}

func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var input blogInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Title) == "" {
		fail(c, http.StatusBadRequest, "title is required.")
		return
	}

	db := h.db.WithContext(c.Request.Context())
	slug, err := uniqueSlug(db, input.Title, 0)
	if err != nil {
		h.log.Error("slug lookup failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to create blog.")
		return
	}
	row := models.Blog{
		Title:    strings.TrimSpace(input.Title),
		ImageURL: input.ImageURL,
		Content:  input.Content,
		Slug:     slug,
	}
	if err := db.Create(&row).Error; err != nil {
		h.log.Error("create blog failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to create blog.")
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	id, ok := parseID(c, "Invalid blog ID.")
	if !ok {
		return
	}
	var input blogInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Title) == "" {
		fail(c, http.StatusBadRequest, "title is required.")
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var row models.Blog
	if err := db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Blog not found")
			return
		}
		h.log.Error("load blog failed", "id", id, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to update blog.")
		return
	}

	slug, err := uniqueSlug(db, input.Title, row.ID)
	if err != nil {
		h.log.Error("slug lookup failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to update blog.")
		return
	}
	row.Title = strings.TrimSpace(input.Title)
	row.ImageURL = input.ImageURL
	row.Content = input.Content
	row.Slug = slug
	if err := db.Save(&row).Error; err != nil {
		h.log.Error("update blog failed", "id", id, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to update blog.")
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	id, ok := parseID(c, "Invalid blog ID.")
	if !ok {
		return
	}
	result := h.db.WithContext(c.Request.Context()).Delete(&models.Blog{}, id)
	if result.Error != nil {
		h.log.Error("delete blog failed", "id", id, "error", result.Error)
		fail(c, http.StatusInternalServerError, "Failed to delete blog.")
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Blog not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Blog deleted"})
}
