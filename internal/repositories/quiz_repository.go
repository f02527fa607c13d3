package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"gorm.io/gorm"
)

// QuizRepository interface for quiz definition operations
type QuizRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error)
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error)
	Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters QuizFilters) ([]*models.Quiz, int64, error)
	GetByCreator(ctx context.Context, tx *gorm.DB, creatorID string, filters QuizFilters) ([]*models.Quiz, int64, error)
	GetByTraining(ctx context.Context, tx *gorm.DB, trainingID string, filters QuizFilters) ([]*models.Quiz, int64, error)

	// State transitions
	UpdatePublishState(ctx context.Context, tx *gorm.DB, id string, published bool) error

	// Statistics
	GetStats(ctx context.Context, tx *gorm.DB, id string) (*QuizStats, error)
}

// QuizQuestionRepository manages quiz manifest rows.
type QuizQuestionRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, rows []*models.QuizQuestion) error
	GetByQuiz(ctx context.Context, tx *gorm.DB, quizID string) ([]*models.QuizQuestion, error)
	DeleteByQuiz(ctx context.Context, tx *gorm.DB, quizID string) error
	ExistsInQuiz(ctx context.Context, tx *gorm.DB, quizID, questionID string) (bool, error)
}
