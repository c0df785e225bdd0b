package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"academy-cms/internal/config"
	"academy-cms/internal/content"
	database "academy-cms/internal/db"
	"academy-cms/internal/integrations"
	"academy-cms/internal/logger"
	"academy-cms/internal/observability"
	"academy-cms/internal/scheduler"
	"academy-cms/internal/storage"

	"academy-cms/internal/api/handlers"
	"academy-cms/internal/api/middleware"
)

type Server struct {
	cfg     *config.Config
	db      *database.Client
	storage *storage.Client
	log     *logger.Logger
	policy  middleware.Policy
	issuer  *middleware.JWTPolicy
	router  *gin.Engine
	http    *http.Server
}

func New(cfg *config.Config, db *database.Client, st *storage.Client, log *logger.Logger) *Server {
	if cfg.Server.LogMode != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		db:      db,
		storage: st,
		log:     log,
		policy:  middleware.AllowAll{},
		router:  gin.New(),
	}
	if cfg.Auth.JWTSecret != "" {
		s.issuer = middleware.NewJWTPolicy(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	}
	if cfg.Auth.Mode == config.AuthJWT && s.issuer != nil {
		s.policy = s.issuer
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.http = &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	if s.cfg.Telemetry.Enabled {
		s.router.Use(otelgin.Middleware(observability.ServiceName))
	}
	s.router.Use(middleware.RequestLogger(s.log))
	s.router.Use(middleware.Metrics())

	// Session cookies need a concrete origin; "*" cannot carry credentials.
	corsConfig := cors.DefaultConfig()
	origin := s.cfg.Server.FrontendURL
	if origin == "" {
		origin = "http://localhost:3000"
	}
	corsConfig.AllowOrigins = []string{origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	store := content.NewStore(s.db.DB, s.log)

	contentHandler := handlers.NewContentHandler(store, s.log)
	instructorHandler := handlers.NewInstructorHandler(s.db.DB, s.log)
	loc, err := s.cfg.Location()
	if err != nil {
		s.log.Warn("unknown timezone, using server local time", "timezone", s.cfg.Server.Timezone)
		loc = time.Local
	}
	scheduleHandler := handlers.NewScheduleHandler(s.db.DB, scheduler.NewManager(s.db.DB, nil, loc), s.log)
	blogHandler := handlers.NewBlogHandler(s.db.DB, s.log)
	imageHandler := handlers.NewImageHandler(s.db.DB, s.storage, s.log)
	authHandler := handlers.NewAuthHandler(s.db.DB, s.policy, s.issuer,
		strings.HasPrefix(s.cfg.Server.FrontendURL, "https://"), s.log)
	siteHandler := handlers.NewSiteHandler(s.db,
		integrations.NewContactRelay(s.cfg.Services.ContactWebhookURL),
		integrations.NewReviewSource(s.cfg.Services.GooglePlacesBaseURL, s.cfg.Services.GooglePlacesAPIKey, s.cfg.Services.GooglePlaceID),
		s.log)

	s.router.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := s.db.Ping(); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "service": "academy-cms"})
	})

	// Uploaded images are served from here when blobs live on local disk.
	if dir, ok := s.storage.LocalDir(); ok {
		s.router.Static(mediaPath(s.cfg.Storage.PublicBaseURL), dir)
	}

	api := s.router.Group("/api")
	{
		// Public routes
		api.GET("/keep-alive", siteHandler.KeepAlive)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.GET("/check-auth", authHandler.CheckAuth)
		api.POST("/send-message", siteHandler.SendMessage)
		api.GET("/google-reviews", siteHandler.GoogleReviews)

		api.GET("/content", contentHandler.ListContent)
		api.GET("/content/:section_id", contentHandler.GetContent)
		api.GET("/content/:section_id/placement", contentHandler.GetPlacement)
		api.GET("/instructors", instructorHandler.ListInstructors)
		api.GET("/schedule", scheduleHandler.ListSchedule)
		api.GET("/schedule/week", scheduleHandler.GetWeek)
		api.GET("/schedule/today", scheduleHandler.GetToday)
		api.GET("/blogs", blogHandler.ListBlogs)
		api.GET("/blogs/:slug", blogHandler.GetBlog)
		api.GET("/images", imageHandler.ListImages)

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.RequireAuth(s.policy), middleware.RequireRole("editor"))
		{
			protected.PUT("/content/:section_id", contentHandler.PutContent)

			protected.POST("/instructors", instructorHandler.CreateInstructor)
			protected.PUT("/instructors/:id", instructorHandler.UpdateInstructor)
			protected.DELETE("/instructors/:id", instructorHandler.DeleteInstructor)

			protected.POST("/schedule", scheduleHandler.CreateEntry)
			protected.PUT("/schedule/:id", scheduleHandler.UpdateEntry)
			protected.DELETE("/schedule/:id", scheduleHandler.DeleteEntry)

			protected.POST("/blogs", blogHandler.CreateBlog)
			protected.PUT("/blogs/:id", blogHandler.UpdateBlog)
			protected.DELETE("/blogs/:id", blogHandler.DeleteBlog)

			protected.POST("/upload", imageHandler.Upload)
			protected.DELETE("/images", imageHandler.Delete)
		}
	}
}

// mediaPath is the URL path under which public blob URLs are served.
func mediaPath(publicBaseURL string) string {
	u, err := url.Parse(publicBaseURL)
	if err != nil || strings.Trim(u.Path, "/") == "" {
		return "/media"
	}
	return "/" + strings.Trim(u.Path, "/")
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on server.port until Shutdown is called.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
