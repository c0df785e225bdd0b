package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"academy-cms/internal/integrations"
	"academy-cms/internal/logger"
)

type MessageSender interface {
	Send(ctx context.Context, m integrations.Message) error
}

type ReviewFetcher interface {
	FiveStar(ctx context.Context) ([]integrations.Review, error)
}

// Pinger reports database reachability.
type Pinger interface {
	Ping() error
}

type SiteHandler struct {
	db      Pinger
	contact MessageSender
	reviews ReviewFetcher
	log     *logger.Logger
}

func NewSiteHandler(db Pinger, contact MessageSender, reviews ReviewFetcher, log *logger.Logger) *SiteHandler {
	return &SiteHandler{db: db, contact: contact, reviews: reviews, log: log}
}

// KeepAlive touches the database so serverless hosts keep it warm. It
// answers 200 even when the ping fails.
func (h *SiteHandler) KeepAlive(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		h.log.Warn("keep-alive ping failed", "error", err)
		c.String(http.StatusOK, "Waking up...")
		return
	}
	c.String(http.StatusOK, "Alive")
}

func (h *SiteHandler) SendMessage(c *gin.Context) {
	var input integrations.Message
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid message payload.")
		return
	}

	err := h.contact.Send(c.Request.Context(), input)
	switch {
	case errors.Is(err, integrations.ErrNotConfigured):
		h.log.Error("contact webhook url is not configured")
		fail(c, http.StatusInternalServerError, "Server configuration error.")
	case err != nil:
		h.log.Error("send message failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to send message.")
	default:
		h.log.Info("contact form relayed", "email", input.Email)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message sent successfully!"})
	}
}

func (h *SiteHandler) GoogleReviews(c *gin.Context) {
	reviews, err := h.reviews.FiveStar(c.Request.Context())
	switch {
	case errors.Is(err, integrations.ErrNotConfigured):
		fail(c, http.StatusInternalServerError, "API credentials not configured.")
	case err != nil:
		h.log.Error("fetch google reviews failed", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch reviews.")
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
	}
}
