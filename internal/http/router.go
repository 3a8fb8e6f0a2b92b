package http

import (
	"github.com/gin-gonic/gin"

	"github.com/muhsinkutay/mediatrack/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Apply CSRF protection if auth is enabled
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	// Apply session middleware if enabled
	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	healthController := NewHealthController(cfg.Database, cfg.TaskClient, cfg.Version)
	progressController := NewProgressController(cfg.ProgressService, cfg.LibraryService)
	mediaController := NewMediaController(cfg.MediaRepo, cfg.LibraryService, cfg.AuthService)
	collectionsController := NewCollectionsController(cfg.CollectionService)
	reviewsController := NewReviewsController(cfg.LibraryService)
	summaryController := NewSummaryController(cfg.SummaryRepo, cfg.TaskClient)

	router.GET("/health", healthController.Status)

	api := router.Group("/api")
	{
		if cfg.AuthService != nil {
			authController := NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.TaskClient)
			api.POST("/auth/register", authController.Register)
			api.POST("/auth/login", authController.Login)
			api.POST("/auth/logout", authController.Logout)
			api.POST("/auth/token", authController.IssueToken)
			api.GET("/auth/me", authController.Me)
		}

		api.POST("/progress", progressController.RecordProgress)
		api.DELETE("/seen/:id", progressController.DeleteSeenRecord)

		api.GET("/media", mediaController.ListMetadata)
		api.POST("/media", mediaController.CreateCustomMedia)
		api.POST("/media/merge", mediaController.MergeMetadata)
		api.GET("/media/:id", mediaController.GetMetadata)
		api.GET("/media/:id/history", progressController.SeenHistory)
		api.GET("/media/:id/reviews", reviewsController.ListForMetadata)

		api.GET("/collections", collectionsController.List)
		api.POST("/collections", collectionsController.Create)
		api.DELETE("/collections/:name", collectionsController.Delete)
		api.GET("/collections/:name/entries", collectionsController.Entries)
		api.POST("/collections/:name/entries", collectionsController.AddEntry)
		api.DELETE("/collections/:name/entries/:id", collectionsController.RemoveEntry)

		api.POST("/reviews", reviewsController.Post)
		api.DELETE("/reviews/:id", reviewsController.Delete)

		api.GET("/summary", summaryController.Get)
		api.POST("/summary/regenerate", summaryController.Regenerate)
	}

	return router
}
