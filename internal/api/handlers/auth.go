package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"academy-cms/internal/api/middleware"
	"academy-cms/internal/logger"
	"academy-cms/internal/models"
)

type AuthHandler struct {
	db           *gorm.DB
	policy       middleware.Policy
	issuer       *middleware.JWTPolicy
	secureCookie bool
	log          *logger.Logger
}

// NewAuthHandler wires login to a token issuer. issuer may be nil, in
// which case login only checks credentials.
func NewAuthHandler(db *gorm.DB, policy middleware.Policy, issuer *middleware.JWTPolicy, secureCookie bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{db: db, policy: policy, issuer: issuer, secureCookie: secureCookie, log: log}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Username == "" || input.Password == "" {
		fail(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	var user models.Users
	err := h.db.WithContext(c.Request.Context()).Where("username = ?", strings.TrimSpace(input.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}
	if err != nil {
		h.log.Error("login lookup failed", "error", err)
		fail(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		fail(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	resp := gin.H{"success": true, "message": "Logged in successfully."}
	if h.issuer != nil {
		token, expires, err := h.issuer.Issue(user.ID, user.Role)
		if err != nil {
			h.log.Error("issue token failed", "user_id", user.ID, "error", err)
			fail(c, http.StatusInternalServerError, "Internal server error.")
			return
		}
		maxAge := int(h.issuer.TTL.Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", h.secureCookie, true)
		resp["token"] = token
		resp["expires_at"] = expires
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully."})
}

func (h *AuthHandler) CheckAuth(c *gin.Context) {
	d := h.policy.Check(c.Request)
	c.JSON(http.StatusOK, gin.H{"isAuthenticated": d.Allowed})
}
