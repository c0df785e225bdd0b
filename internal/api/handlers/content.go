package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"academy-cms/internal/content"
	"academy-cms/internal/logger"
	"academy-cms/internal/models"
	"academy-cms/internal/placement"
)

type ContentHandler struct {
	store *content.Store
	log   *logger.Logger
}

func NewContentHandler(store *content.Store, log *logger.Logger) *ContentHandler {
	return &ContentHandler{store: store, log: log}
}

// GetContent returns the record for one section as stored.
func (h *ContentHandler) GetContent(c *gin.Context) {
	sectionID := c.Param("section_id")
	rec, err := h.store.Get(c.Request.Context(), sectionID)
	if errors.Is(err, content.ErrNotFound) {
		fail(c, http.StatusNotFound, "Content not found.")
		return
	}
	if err != nil {
		h.log.Error("fetch content failed", "section_id", sectionID, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch content.")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ListContent returns every record under ?prefix=, e.g. "instagram_post_".
func (h *ContentHandler) ListContent(c *gin.Context) {
	recs, err := h.store.List(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		h.log.Error("list content failed", "prefix", c.Query("prefix"), "error", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch content.")
		return
	}
	c.JSON(http.StatusOK, recs)
}

type contentInput struct {
	ContentType  models.ContentType `json:"content_type"`
	ContentValue json.RawMessage    `json:"content_value"`
}

// PutContent creates or replaces a section. Image placements are
// validated and normalized before they are written.
func (h *ContentHandler) PutContent(c *gin.Context) {
	sectionID := c.Param("section_id")

	var input contentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "content_type and content_value are required.")
		return
	}
	if input.ContentType == "" || len(input.ContentValue) == 0 {
		fail(c, http.StatusBadRequest, "content_type and content_value are required.")
		return
	}
	value, _ := flexString(input.ContentValue)

	var (
		rec *models.PageContent
		err error
	)
	switch input.ContentType {
	case models.ContentImageDetails:
		d, perr := parseDescriptor(sectionID, value)
		if perr != nil {
			fail(c, http.StatusBadRequest, "Invalid image placement: "+perr.Error())
			return
		}
		rec, err = h.store.SavePlacement(c.Request.Context(), sectionID, d)
	case models.ContentVideoURL, models.ContentText:
		rec, err = h.store.Upsert(c.Request.Context(), sectionID, input.ContentType, value)
	default:
		fail(c, http.StatusBadRequest, "Unknown content_type.")
		return
	}

	var encErr *placement.EncodeError
	switch {
	case errors.As(err, &encErr):
		fail(c, http.StatusBadRequest, "Invalid image placement: "+encErr.Reason)
		return
	case err != nil:
		h.log.Error("upsert content failed", "section_id", sectionID, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to save content.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rec})
}

// parseDescriptor reads an editor payload. A bare string is a plain URL.
func parseDescriptor(sectionID, value string) (placement.Descriptor, error) {
	if !strings.HasPrefix(strings.TrimSpace(value), "{") {
		return placement.Default(sectionID, strings.TrimSpace(value)), nil
	}
	// Fields the editor left out keep the section defaults.
	d := placement.Default(sectionID, "")
	if err := json.Unmarshal([]byte(value), &d); err != nil {
		return placement.Descriptor{}, errors.New("malformed json")
	}
	if d.AspectRatio == "" {
		d.AspectRatio = placement.DefaultAspectRatio(sectionID)
	}
	return d, nil
}

// GetPlacement returns the decoded descriptor and, when a frame size is
// given, where the asset sits inside that frame.
func (h *ContentHandler) GetPlacement(c *gin.Context) {
	sectionID := c.Param("section_id")

	frameW, stateW := queryFloat(c, "frame_width")
	frameH, stateH := queryFloat(c, "frame_height")
	if stateW == numberInvalid || stateH == numberInvalid {
		fail(c, http.StatusBadRequest, "frame_width and frame_height must be positive numbers.")
		return
	}

	d, err := h.store.GetPlacement(c.Request.Context(), sectionID)
	if errors.Is(err, content.ErrNotFound) {
		fail(c, http.StatusNotFound, "Content not found.")
		return
	}
	if err != nil {
		h.log.Error("fetch placement failed", "section_id", sectionID, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch content.")
		return
	}

	resp := gin.H{"success": true, "placement": d}
	if stateW == numberSet {
		if stateH != numberSet {
			frameH = placement.FrameHeight(frameW, d.AspectRatio)
		}
		resp["frame"] = placement.ComputeFrameOffset(d, frameW, frameH)
	}
	c.JSON(http.StatusOK, resp)
}

type numberState int

const (
	numberUnset numberState = iota
	numberSet
	numberInvalid
)

func queryFloat(c *gin.Context, key string) (float64, numberState) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, numberUnset
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, numberInvalid
	}
	return v, numberSet
}
