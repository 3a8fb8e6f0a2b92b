package http

import (
	"github.com/muhsinkutay/mediatrack/internal/auth"
	"github.com/muhsinkutay/mediatrack/internal/collections"
	"github.com/muhsinkutay/mediatrack/internal/config"
	"github.com/muhsinkutay/mediatrack/internal/database"
	"github.com/muhsinkutay/mediatrack/internal/database/media"
	"github.com/muhsinkutay/mediatrack/internal/database/summaries"
	"github.com/muhsinkutay/mediatrack/internal/library"
	"github.com/muhsinkutay/mediatrack/internal/progress"
	"github.com/muhsinkutay/mediatrack/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database    *database.Database
	MediaRepo   *media.Repository
	SummaryRepo *summaries.Repository

	// Domain services
	ProgressService   *progress.Service
	LibraryService    *library.Service
	CollectionService *collections.Service

	// Background tasks
	TaskClient *tasks.Client

	// Authentication; SessionManager and AuthMiddleware are nil when
	// auth is disabled.
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// Application info
	Version string
}
