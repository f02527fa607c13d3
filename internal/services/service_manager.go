package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

// ServiceManagerConfig holds the cross-service settings the manager needs.
type ServiceManagerConfig struct {
	// GeneralTrainingID is the shared training whose published quizzes are
	// visible to everyone. Required.
	GeneralTrainingID string
}

func (c *ServiceManagerConfig) Validate() error {
	if c.GeneralTrainingID == "" {
		return fmt.Errorf("general training id is required")
	}
	return nil
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	db             *gorm.DB
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	config         ServiceManagerConfig

	sessionService      SessionService
	quizService         QuizService
	questionService     QuestionService
	trainingService     TrainingService
	notificationService NotificationEventService
	importExportService ImportExportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:             db,
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		config:         config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := sm.config.Validate(); err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	sm.logger.Info("Initializing service manager")

	sm.notificationService = NewNotificationEventService(sm.repo, sm.eventPublisher, sm.logger, sm.validator)
	sm.logger.Info("Notification event service initialized")

	sm.sessionService = NewSessionService(sm.repo, sm.db, sm.logger, sm.validator, sm.notificationService)
	sm.logger.Info("Session service initialized")

	sm.quizService = NewQuizService(sm.repo, sm.db, sm.logger, sm.validator, sm.config.GeneralTrainingID)
	sm.logger.Info("Quiz service initialized")

	sm.questionService = NewQuestionService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.logger.Info("Question service initialized")

	sm.trainingService = NewTrainingService(sm.repo, sm.logger)
	sm.logger.Info("Training service initialized")

	sm.importExportService = NewImportExportService(sm.repo, sm.logger)
	sm.logger.Info("ImportExport service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters

func (sm *serviceManager) Session() SessionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.sessionService == nil {
		panic("session service not initialized")
	}
	return sm.sessionService
}

func (sm *serviceManager) Quiz() QuizService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.quizService == nil {
		panic("quiz service not initialized")
	}
	return sm.quizService
}

func (sm *serviceManager) Question() QuestionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.questionService == nil {
		panic("question service not initialized")
	}
	return sm.questionService
}

func (sm *serviceManager) Training() TrainingService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.trainingService == nil {
		panic("training service not initialized")
	}
	return sm.trainingService
}

func (sm *serviceManager) Notification() NotificationEventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.notificationService == nil {
		panic("notification event service not initialized")
	}
	return sm.notificationService
}

func (sm *serviceManager) ImportExport() ImportExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.importExportService == nil {
		panic("import/export service not initialized")
	}
	return sm.importExportService
}

// Health and lifecycle

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
