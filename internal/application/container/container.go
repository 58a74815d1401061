// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/smartengage/smartengage-go/internal/application/services"
	"github.com/smartengage/smartengage-go/internal/infrastructure/caching"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
	analyticsstore "github.com/smartengage/smartengage-go/internal/infrastructure/persistence/analytics"
	"github.com/smartengage/smartengage-go/internal/infrastructure/persistence/database"
	popupstore "github.com/smartengage/smartengage-go/internal/infrastructure/persistence/popups"
	visitorstore "github.com/smartengage/smartengage-go/internal/infrastructure/persistence/visitors"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	PopupService       *services.PopupService
	TargetingService   *services.TargetingService
	FrequencyService   *services.FrequencyService
	EligibilityService *services.EligibilityService
	TriggerService     *services.TriggerService
	EventService       *services.EventService
	AnalyticsService   *services.AnalyticsService
	SessionService     *services.SessionService
	AuthService        *services.AuthService
	RetentionWorker    *services.RetentionWorker

	// Infrastructure
	DB           *database.DB
	StateManager *caching.VisitorStateManager
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger, tracker *performance.Tracker) *Container {
	stateManager := caching.NewVisitorStateManager(logger)

	popupRepo := popupstore.NewSQLPopupRepository(db, logger)
	eventRepo := analyticsstore.NewSQLEventRepository(db, logger)
	stateRepo := visitorstore.NewSQLStateRepository(db, logger)

	popupService := services.NewPopupService(popupRepo, logger, tracker)
	targetingService := services.NewTargetingService(logger)
	frequencyService := services.NewFrequencyService(stateRepo, stateManager, logger)

	return &Container{
		PopupService:       popupService,
		TargetingService:   targetingService,
		FrequencyService:   frequencyService,
		EligibilityService: services.NewEligibilityService(popupService, targetingService, frequencyService, logger, tracker),
		TriggerService:     services.NewTriggerService(popupService, frequencyService, stateManager, logger, tracker),
		EventService:       services.NewEventService(eventRepo, popupService, logger),
		AnalyticsService:   services.NewAnalyticsService(eventRepo, logger, tracker),
		SessionService:     services.NewSessionService(stateManager, logger),
		AuthService:        services.NewAuthService(logger),
		RetentionWorker:    services.NewRetentionWorker(eventRepo, logger),

		DB:           db,
		StateManager: stateManager,
		Logger:       logger,
		PerfTracker:  tracker,
	}
}
