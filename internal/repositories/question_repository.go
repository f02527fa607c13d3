package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"gorm.io/gorm"
)

// QuestionRepository interface for question catalog operations
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Question, error)
	Update(ctx context.Context, tx *gorm.DB, question *models.Question) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	// Bulk operations
	CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Question, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters QuestionFilters) ([]*models.Question, int64, error)
	GetByChapter(ctx context.Context, tx *gorm.DB, chapterID string, filters QuestionFilters) ([]*models.Question, int64, error)

	// Sampling for generated quizzes
	Sample(ctx context.Context, tx *gorm.DB, filters SampleFilters) ([]*models.Question, error)
	CountEligible(ctx context.Context, tx *gorm.DB, filters SampleFilters) (int64, error)

	// Validation
	IsUsedInQuizzes(ctx context.Context, tx *gorm.DB, id string) (bool, error)
}

// TrainingRepository is the read model over the training registry.
type TrainingRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Training, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Training, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.Training, int64, error)
	GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Training, error)
}

type ChapterRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Chapter, error)
	GetByTraining(ctx context.Context, tx *gorm.DB, trainingID string) ([]*models.Chapter, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Chapter, error)
}

// UserRepository is the read-only user directory.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}
