package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuizPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuizRepository {
	return &QuizPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (q *QuizPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

func (q *QuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(quiz).Error; err != nil {
		return err
	}
	_ = q.cacheManager.InvalidateQuiz(ctx, quiz.ID)
	return nil
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error) {
	db := q.getDB(tx)
	cacheKey := fmt.Sprintf("id:%s", id)
	var quiz models.Quiz

	err := q.cacheManager.Quiz.CacheOrExecute(ctx, cacheKey, &quiz, cache.QuizCacheConfig.TTL, func() (interface{}, error) {
		var dbQuiz models.Quiz
		if err := db.WithContext(ctx).Where("id = ?", id).First(&dbQuiz).Error; err != nil {
			return nil, err
		}
		return &dbQuiz, nil
	})
	if err != nil {
		return nil, err
	}

	return &quiz, nil
}

// GetByIDWithQuestions loads the quiz with its manifest, ordered by
// position. Not cached: sessions snapshot from it and must see fresh data.
func (q *QuizPostgreSQL) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error) {
	db := q.getDB(tx)
	var quiz models.Quiz
	if err := db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.position ASC")
		}).
		Preload("Questions.Question").
		Where("id = ?", id).
		First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Omit("Questions").Save(quiz).Error; err != nil {
		return err
	}
	_ = q.cacheManager.InvalidateQuiz(ctx, quiz.ID)
	return nil
}

func (q *QuizPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Quiz{}).Error; err != nil {
		return err
	}
	_ = q.cacheManager.InvalidateQuiz(ctx, id)
	return nil
}

func (q *QuizPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	db := q.getDB(tx)
	var quizzes []*models.Quiz
	var total int64

	query := db.WithContext(ctx).Model(&models.Quiz{})
	query = q.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&quizzes).Error; err != nil {
		return nil, 0, err
	}

	return quizzes, total, nil
}

func (q *QuizPostgreSQL) GetByCreator(ctx context.Context, tx *gorm.DB, creatorID string, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	filters.CreatedBy = &creatorID
	return q.List(ctx, tx, filters)
}

func (q *QuizPostgreSQL) GetByTraining(ctx context.Context, tx *gorm.DB, trainingID string, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	filters.TrainingID = &trainingID
	return q.List(ctx, tx, filters)
}

func (q *QuizPostgreSQL) UpdatePublishState(ctx context.Context, tx *gorm.DB, id string, published bool) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("id = ?", id).
		Update("is_published", published).Error; err != nil {
		return err
	}
	_ = q.cacheManager.InvalidateQuiz(ctx, id)
	return nil
}

func (q *QuizPostgreSQL) GetStats(ctx context.Context, tx *gorm.DB, id string) (*repositories.QuizStats, error) {
	db := q.getDB(tx)
	stats := &repositories.QuizStats{}

	var totals struct {
		Total     int64
		Completed int64
		Passed    int64
		AvgScore  float64
	}
	err := db.WithContext(ctx).
		Model(&models.QuizSession{}).
		Select(`COUNT(*) as total,
			COUNT(*) FILTER (WHERE is_completed) as completed,
			COUNT(*) FILTER (WHERE pass_status = ?) as passed,
			COALESCE(AVG(final_calculated_score) FILTER (WHERE is_completed), 0) as avg_score`,
			models.PassStatusPassed).
		Where("quiz_id = ?", id).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz stats: %w", err)
	}

	stats.TotalSessions = int(totals.Total)
	stats.CompletedSessions = int(totals.Completed)
	stats.AverageScore = totals.AvgScore
	if totals.Completed > 0 {
		stats.PassRate = float64(totals.Passed) / float64(totals.Completed)
	}

	var questionCount int64
	var maxScore float64
	if err := db.WithContext(ctx).
		Model(&models.QuizQuestion{}).
		Where("quiz_id = ?", id).
		Count(&questionCount).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).
		Model(&models.QuizQuestion{}).
		Where("quiz_id = ?", id).
		Select("COALESCE(SUM(point_value), 0)").
		Scan(&maxScore).Error; err != nil {
		return nil, err
	}
	stats.QuestionCount = int(questionCount)
	stats.MaxPossibleScore = maxScore

	return stats, nil
}

func (q *QuizPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuizFilters) *gorm.DB {
	if filters.TrainingID != nil {
		query = query.Where("training_id = ?", *filters.TrainingID)
	}
	if filters.QuizType != nil {
		query = query.Where("quiz_type = ?", *filters.QuizType)
	}
	if filters.IsPublished != nil {
		query = query.Where("is_published = ?", *filters.IsPublished)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

// QuizQuestionPostgreSQL manages manifest rows.
type QuizQuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuizQuestionPostgreSQL(db *gorm.DB) repositories.QuizQuestionRepository {
	return &QuizQuestionPostgreSQL{db: db}
}

func (r *QuizQuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *QuizQuestionPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*models.QuizQuestion) error {
	if len(rows) == 0 {
		return nil
	}
	db := r.getDB(tx)
	return db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

func (r *QuizQuestionPostgreSQL) GetByQuiz(ctx context.Context, tx *gorm.DB, quizID string) ([]*models.QuizQuestion, error) {
	db := r.getDB(tx)
	var rows []*models.QuizQuestion
	if err := db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("position ASC").
		Preload("Question").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get quiz questions: %w", err)
	}
	return rows, nil
}

func (r *QuizQuestionPostgreSQL) DeleteByQuiz(ctx context.Context, tx *gorm.DB, quizID string) error {
	db := r.getDB(tx)
	return db.WithContext(ctx).Where("quiz_id = ?", quizID).Delete(&models.QuizQuestion{}).Error
}

func (r *QuizQuestionPostgreSQL) ExistsInQuiz(ctx context.Context, tx *gorm.DB, quizID, questionID string) (bool, error) {
	db := r.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.QuizQuestion{}).
		Where("quiz_id = ? AND question_id = ?", quizID, questionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
