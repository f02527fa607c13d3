package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"gorm.io/gorm"
)

// SessionRepository interface for quiz session operations
type SessionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, session *models.QuizSession) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.QuizSession, error)
	GetByIDWithResponses(ctx context.Context, tx *gorm.DB, id string) (*models.QuizSession, error)
	Update(ctx context.Context, tx *gorm.DB, session *models.QuizSession) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters SessionFilters) ([]*models.QuizSession, int64, error)

	// CountByIdentity counts completed and in-progress sessions one identity
	// (user or guest id) has against a quiz; used for attempt numbering and
	// the attempt cap.
	CountByIdentity(ctx context.Context, tx *gorm.DB, quizID, identityID string) (int64, error)

	// Complete atomically flips is_completed false->true and writes the
	// final scores. It reports false when the session was already
	// completed, making concurrent submissions race-safe: exactly one
	// caller wins.
	Complete(ctx context.Context, tx *gorm.DB, session *models.QuizSession) (bool, error)
}

// ResponseRepository manages per-question answer rows of a session.
type ResponseRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, responses []*models.SessionResponse) error
	GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]*models.SessionResponse, error)
	UpdateBatch(ctx context.Context, tx *gorm.DB, responses []*models.SessionResponse) error
	DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID string) error
}
