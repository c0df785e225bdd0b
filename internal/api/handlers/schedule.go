package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"academy-cms/internal/logger"
	"academy-cms/internal/models"
	"academy-cms/internal/scheduler"
	"academy-cms/internal/timetable"
)

type ScheduleHandler struct {
	db    *gorm.DB
	today *scheduler.Manager
	log   *logger.Logger
}

func NewScheduleHandler(db *gorm.DB, today *scheduler.Manager, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{db: db, today: today, log: log}
}

type scheduleInput struct {
	Day         string `json:"day"`
	TimeRange   string `json:"time_range"`
	ClassName   string `json:"class_name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (in scheduleInput) toModel() (models.ScheduleEntry, error) {
	day, ok := timetable.CanonicalDay(in.Day)
	if !ok {
		return models.ScheduleEntry{}, errors.New("day must be a weekday name")
	}
	if strings.TrimSpace(in.TimeRange) == "" || strings.TrimSpace(in.ClassName) == "" {
		return models.ScheduleEntry{}, errors.New("time_range and class_name are required")
	}
	return models.ScheduleEntry{
		Day:         day,
		TimeRange:   strings.TrimSpace(in.TimeRange),
		ClassName:   strings.TrimSpace(in.ClassName),
		Description: in.Description,
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
	}, nil
}

func (h *ScheduleHandler) load(c *gin.Context) ([]models.ScheduleEntry, bool) {
	var rows []models.ScheduleEntry
	if err := h.db.WithContext(c.Request.Context()).Order("id asc").Find(&rows).Error; err != nil {
		h.log.Error("fetch schedule failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch schedule.")
		return nil, false
	}
	return rows, true
}

// ListSchedule returns the flat rows in insertion order.
func (h *ScheduleHandler) ListSchedule(c *gin.Context) {
	if rows, ok := h.load(c); ok {
		c.JSON(http.StatusOK, rows)
	}
}

// GetWeek returns the rows grouped into Monday..Sunday.
func (h *ScheduleHandler) GetWeek(c *gin.Context) {
	if rows, ok := h.load(c); ok {
		c.JSON(http.StatusOK, timetable.GroupByWeek(rows))
	}
}

// GetToday returns today's classes and the ones running now.
func (h *ScheduleHandler) GetToday(c *gin.Context) {
	today, err := h.today.Today(c.Request.Context())
	if err != nil {
		h.log.Error("fetch today's schedule failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch schedule.")
		return
	}
	c.JSON(http.StatusOK, today)
}

func (h *ScheduleHandler) CreateEntry(c *gin.Context) {
	var input scheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid schedule payload.")
		return
	}
	row, err := input.toModel()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid schedule item: "+err.Error())
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
		h.log.Error("create schedule item failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to create schedule item.")
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *ScheduleHandler) UpdateEntry(c *gin.Context) {
	id, ok := parseID(c, "Invalid schedule item ID.")
	if !ok {
		return
	}
	var input scheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid schedule payload.")
		return
	}
	update, err := input.toModel()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid schedule item: "+err.Error())
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var row models.ScheduleEntry
	if err := db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Item not found")
			return
		}
		h.log.Error("load schedule item failed", "id", id, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to update schedule item.")
		return
	}

	update.ID = row.ID
	if err := db.Save(&update).Error; err != nil {
		h.log.Error("update schedule item failed", "id", id, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to update schedule item.")
		return
	}
	c.JSON(http.StatusOK, update)
}

func (h *ScheduleHandler) DeleteEntry(c *gin.Context) {
	id, ok := parseID(c, "Invalid schedule item ID.")
	if !ok {
		return
	}
	result := h.db.WithContext(c.Request.Context()).Delete(&models.ScheduleEntry{}, id)
	if result.Error != nil {
		h.log.Error("delete schedule item failed", "id", id, "error", result.Error)
		fail(c, http.StatusInternalServerError, "Failed to delete schedule item.")
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Item not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item deleted"})
}
