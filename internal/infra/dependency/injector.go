// Package dependency provides dependency injection for the application.
package dependency

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/procure-match/backend/config"
	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/application/usecase/auth"
	"github.com/procure-match/backend/internal/application/usecase/matching"
	"github.com/procure-match/backend/internal/application/usecase/workflow"
	"github.com/procure-match/backend/internal/domain/valueobject"
	"github.com/procure-match/backend/internal/infra/server/router"
	"github.com/procure-match/backend/internal/integration/adapters"
	"github.com/procure-match/backend/internal/integration/entrypoint/controller"
	"github.com/procure-match/backend/internal/integration/entrypoint/middleware"
	"github.com/procure-match/backend/internal/integration/notification"
	"github.com/procure-match/backend/internal/integration/notification/templates"
	"github.com/procure-match/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
	Worker *notification.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
// The email sender is injected so tests can substitute a mock for Resend.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, emailSender adapter.EmailSender) (*Injector, error) {
	// Create repositories
	reviewerRepo := persistence.NewReviewerRepository(db)
	documentRepo := persistence.NewDocumentRepository(db)
	reconRepo := persistence.NewReconciliationRepository(db)
	notificationQueueRepo := persistence.NewNotificationQueueRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	sessionLock := adapters.NewRedisSessionLock(redisClient)
	summaryCache := adapters.NewRedisSummaryCache(redisClient)
	explainer := adapters.NewGeminiService(cfg.Gemini.APIKey)

	// Create notification service and worker
	notificationService := notification.NewService(notificationQueueRepo)
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}
	worker := notification.NewWorker(notificationQueueRepo, emailSender, renderer, notification.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
	})

	// Tolerance policy and summary thresholds come from configuration
	policy := valueobject.TolerancePolicy{
		QuantityTolerance: cfg.Matching.QuantityTolerance,
		PriceTolerance:    cfg.Matching.PriceTolerance,
	}
	thresholds := valueobject.SummaryThresholds{
		FullMatchPercent:    cfg.Matching.FullMatchPercent,
		PartialMatchPercent: cfg.Matching.PartialMatchPercent,
	}

	// Create auth use cases
	loginUseCase := auth.NewLoginReviewerUseCase(reviewerRepo, passwordService, tokenService)

	// Create matching use cases
	computeSummaryUseCase := matching.NewComputeSummaryUseCase(documentRepo, reconRepo, summaryCache, policy, thresholds)
	explainVarianceUseCase := matching.NewExplainVarianceUseCase(documentRepo, explainer, computeSummaryUseCase)

	// Create workflow use cases
	resolveVarianceUseCase := workflow.NewResolveVarianceUseCase(sessionLock, reconRepo, summaryCache, computeSummaryUseCase)
	acceptAllUseCase := workflow.NewAcceptAllUseCase(sessionLock, documentRepo, reconRepo, summaryCache, notificationService, computeSummaryUseCase)
	generateCreditNoteUseCase := workflow.NewGenerateCreditNoteUseCase(sessionLock, documentRepo, reconRepo, summaryCache, notificationService, computeSummaryUseCase)
	getAuditTrailUseCase := workflow.NewGetAuditTrailUseCase(documentRepo, reconRepo)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	authController := controller.NewAuthController(loginUseCase)

	matchingController := controller.NewMatchingController(
		computeSummaryUseCase,
		explainVarianceUseCase,
		resolveVarianceUseCase,
		acceptAllUseCase,
		generateCreditNoteUseCase,
		getAuditTrailUseCase,
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(healthController, authController, matchingController, loginRateLimiter, authMiddleware)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: r,
		Worker: worker,
	}, nil
}
