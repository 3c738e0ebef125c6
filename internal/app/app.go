package app

import (
	"career_insight_engine/internal/config"
	"career_insight_engine/internal/controller"
	"career_insight_engine/internal/repository"
	"career_insight_engine/internal/service"
	"career_insight_engine/pkg/configwatcher"
	"career_insight_engine/pkg/database"
	"career_insight_engine/pkg/logger"
	"career_insight_engine/pkg/monitoring"
	"career_insight_engine/pkg/security"
	"career_insight_engine/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services

	stopBackground context.CancelFunc
}

type repositories struct {
	user       *repository.UserRepository
	session    *repository.SessionRepository
	invitation *repository.InvitationRepository
	response   *repository.ResponseRepository
	experiment *repository.ExperimentRepository
	insight    *repository.InsightRepository
	report     *repository.ReportRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	email      *service.EmailService
	assessment *service.AssessmentService
	advisor    *service.AdvisorService
	insight    *service.InsightService
	experiment *service.ExperimentService
	report     *service.ReportService
}

type controllers struct {
	auth       *controller.AuthController
	assessment *controller.AssessmentController
	advisor    *controller.AdvisorController
	insight    *controller.InsightController
	experiment *controller.ExperimentController
	report     *controller.ReportController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		session:    repository.NewSessionRepository(db),
		invitation: repository.NewInvitationRepository(db),
		response:   repository.NewResponseRepository(db),
		experiment: repository.NewExperimentRepository(db),
		insight:    repository.NewInsightRepository(db),
		report:     repository.NewReportRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.email = service.NewEmailService(cfg.Email)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.assessment = service.NewAssessmentService(repos.session)

	inviteLimiter := security.NewInvitationLimiter(cfg.Advisor.InviteRateLimit, cfg.Advisor.InviteRateWindow)
	s.advisor = service.NewAdvisorService(repos.invitation, repos.response, s.email, inviteLimiter, rdb, cfg)

	s.insight = service.NewInsightService(repos.session, repos.insight, s.advisor)
	s.experiment = service.NewExperimentService(repos.experiment)
	s.report = service.NewReportService(repos.report, repos.session, repos.insight, repos.experiment, s.advisor, s.storage.Provider)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		assessment: controller.NewAssessmentController(s.assessment),
		advisor:    controller.NewAdvisorController(s.advisor, s.assessment, s.auth),
		insight:    controller.NewInsightController(s.insight, s.assessment),
		experiment: controller.NewExperimentController(s.experiment, s.assessment),
		report:     controller.NewReportController(s.report, s.assessment),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the invitation expiry sweep until the app shuts
// down.
func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				expired, err := s.advisor.ExpireStaleInvitations()
				if err != nil {
					logger.Log.Error("invitation expiry sweep failed", zap.Error(err))
					continue
				}
				if expired > 0 {
					logger.Log.Info("expired stale invitations", zap.Int("count", expired))
				}
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, analytics caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("career-insight-engine", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/artifacts", cfg.Storage.LocalPath)
	}

	backgroundCtx, cancel := context.WithCancel(context.Background())
	app.stopBackground = cancel
	app.startBackgroundTasks(backgroundCtx, services)

	// hot-reload the policy knobs that are safe to change at runtime
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		updated, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		app.Config.Advisor = updated.Advisor
		app.Config.Email = updated.Email
		logger.Log.Info("configuration reloaded")
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.stopBackground != nil {
		a.stopBackground()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
