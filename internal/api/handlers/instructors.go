package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"academy-cms/internal/logger"
	"academy-cms/internal/markup"
	"academy-cms/internal/models"
	"academy-cms/internal/placement"
)

// instructorSection selects the portrait defaults for instructor photos.
const instructorSection = "instructor"

type InstructorHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInstructorHandler(db *gorm.DB, log *logger.Logger) *InstructorHandler {
	return &InstructorHandler{db: db, log: log}
}

type instructorView struct {
	models.Instructor
	ImagePlacement *placement.Descriptor `json:"image_placement,omitempty"`
}

func viewInstructor(in models.Instructor) instructorView {
	in.Bio = markup.Sanitize(in.Bio)
	v := instructorView{Instructor: in}
	if strings.TrimSpace(in.Image) != "" {
		d, _ := placement.Decode(instructorSection, in.Image)
		v.ImagePlacement = &d
	}
	return v
}

type instructorInput struct {
	Name  string          `json:"name"`
	Bio   json.RawMessage `json:"bio"`
	Image json.RawMessage `json:"image"`
}

// toModel transpiles the bio and normalizes the image into the stored
// string form.
func (in instructorInput) toModel() (models.Instructor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Instructor{}, errors.New("name is required")
	}

	image, _ := flexString(in.Image)
	// A bare URL is stored as written, the same shape legacy rows hold;
	// reads decode it to a centered default placement. Only descriptor
	// objects go through the codec here.
	if strings.HasPrefix(strings.TrimSpace(image), "{") {
		d, err := parseDescriptor(instructorSection, image)
		if err != nil {
			return models.Instructor{}, err
		}
		if image, err = placement.Encode(d); err != nil {
			return models.Instructor{}, err
		}
	}

	return models.Instructor{
		Name:  name,
		Bio:   markup.TranspileRaw(in.Bio),
		Image: image,
	}, nil
}

func (h *InstructorHandler) ListInstructors(c *gin.Context) {
	var rows []models.Instructor
	if err := h.db.WithContext(c.Request.Context()).Order("id asc").Find(&rows).Error; err != nil {
		h.log.Error("fetch instructors failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch instructors.")
		return
	}
	out := make([]instructorView, 0, len(rows))
	for _, r := range rows {
		out = append(out, viewInstructor(r))
	}
	c.JSON(http.StatusOK, out)
}

func (h *InstructorHandler) CreateInstructor(c *gin.Context) {
	var input instructorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid instructor payload.")
		return
	}
	row, err := input.toModel()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid instructor: "+err.Error())
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
		h.log.Error("create instructor failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to create instructor.")
		return
	}
	c.JSON(http.StatusCreated, viewInstructor(row))
}

func (h *InstructorHandler) UpdateInstructor(c *gin.Context) {
	id, ok := parseID(c, "Invalid instructor ID.")
	if !ok {
		return
	}
	var input instructorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid instructor payload.")
		return
	}
	update, err := input.toModel()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid instructor: "+err.Error())
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var row models.Instructor
	if err := db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Instructor not found.")
			return
		}
		h.log.Error("load instructor failed", "id", id, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to update instructor.")
		return
	}

	row.Name, row.Bio, row.Image = update.Name, update.Bio, update.Image
	if err := db.Save(&row).Error; err != nil {
		h.log.Error("update instructor failed", "id", id, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to update instructor.")
		return
	}
	c.JSON(http.StatusOK, viewInstructor(row))
}

func (h *InstructorHandler) DeleteInstructor(c *gin.Context) {
	id, ok := parseID(c, "Invalid instructor ID.")
	if !ok {
		return
	}
	result := h.db.WithContext(c.Request.Context()).Delete(&models.Instructor{}, id)
	if result.Error != nil {
		h.log.Error("delete instructor failed", "id", id, "error", result.Error)
		fail(c, http.StatusInternalServerError, "Failed to delete instructor.")
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Instructor not found.")
		return
	}
	c.Status(http.StatusNoContent)
}
