package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhsinkutay/mediatrack/internal/auth"
	"github.com/muhsinkutay/mediatrack/internal/collections"
	"github.com/muhsinkutay/mediatrack/internal/config"
	"github.com/muhsinkutay/mediatrack/internal/database"
	collectionsdb "github.com/muhsinkutay/mediatrack/internal/database/collections"
	mediadb "github.com/muhsinkutay/mediatrack/internal/database/media"
	reviewsdb "github.com/muhsinkutay/mediatrack/internal/database/reviews"
	seendb "github.com/muhsinkutay/mediatrack/internal/database/seen"
	summariesdb "github.com/muhsinkutay/mediatrack/internal/database/summaries"
	usersdb "github.com/muhsinkutay/mediatrack/internal/database/users"
	http_controllers "github.com/muhsinkutay/mediatrack/internal/http"
	"github.com/muhsinkutay/mediatrack/internal/library"
	"github.com/muhsinkutay/mediatrack/internal/progress"
	"github.com/muhsinkutay/mediatrack/internal/scheduler"
	"github.com/muhsinkutay/mediatrack/internal/summary"
	"github.com/muhsinkutay/mediatrack/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting MediaTrack v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	seenRepo := seendb.NewRepository(db.DB)
	mediaRepo := mediadb.NewRepository(db.DB, cfg.Summaries.MetadataCacheTTL)
	collectionRepo := collectionsdb.NewRepository(db.DB)
	reviewRepo := reviewsdb.NewRepository(db.DB)
	summaryRepo := summariesdb.NewRepository(db.DB)
	userRepo := usersdb.NewRepository(db.DB)

	// Domain services
	collectionSvc := collections.NewService(collectionRepo)
	librarySvc := library.NewService(seenRepo, mediaRepo, reviewRepo, collectionSvc)
	calculator := summary.NewCalculator(summaryRepo, mediaRepo)

	// Task queue. Progress side effects and summary recomputation run here,
	// so the queue is not optional the way it is for purely cosmetic jobs.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewAfterProgressRecordedQueue(collectionSvc),
			tasks.NewRecalculateSummaryQueue(calculator),
			tasks.NewUserCreatedQueue(collectionSvc),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	} else {
		log.Printf("WARNING: task queue disabled; collection side effects and summary recomputation will not run")
	}

	var notifier progress.Notifier
	if taskClient != nil {
		notifier = tasks.NewProgressNotifier(taskClient)
	}
	progressSvc := progress.NewService(seenRepo, mediaRepo, notifier)

	// Authentication
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(userRepo, cfg.Auth, cfg.Users.AllowRegistration)

		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users found. POST /api/auth/register to create an administrator account.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Nightly summary regeneration
	var regenScheduler *scheduler.SummaryRegenerationScheduler
	if taskClient != nil {
		regenScheduler = scheduler.NewSummaryRegenerationScheduler(userRepo, taskClient, cfg.Summaries)
		if err := regenScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start summary regeneration scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:          db,
		MediaRepo:         mediaRepo,
		SummaryRepo:       summaryRepo,
		ProgressService:   progressSvc,
		LibraryService:    librarySvc,
		CollectionService: collectionSvc,
		TaskClient:        taskClient,
		AuthService:       authService,
		AuthMiddleware:    authMiddleware,
		SessionManager:    sessionManager,
		AuthConfig:        cfg.Auth,
		CSRFSecret:        csrfSecret,
		SecureCookies:     cfg.Auth.SecureCookies,
		Version:           version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if regenScheduler != nil {
			regenScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
