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

type QuestionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuestionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(question).Error; err != nil {
		return err
	}
	_ = q.cacheManager.InvalidateQuestion(ctx, question.ID)
	return nil
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Question, error) {
	db := q.getDB(tx)
	cacheKey := fmt.Sprintf("id:%s", id)
	var question models.Question

	err := q.cacheManager.Question.CacheOrExecute(ctx, cacheKey, &question, cache.QuestionCacheConfig.TTL, func() (interface{}, error) {
		var dbQuestion models.Question
		if err := db.WithContext(ctx).Where("id = ?", id).First(&dbQuestion).Error; err != nil {
			return nil, err
		}
		return &dbQuestion, nil
	})
	if err != nil {
		return nil, err
	}

	return &question, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Save(question).Error; err != nil {
		return err
	}
	_ = q.cacheManager.InvalidateQuestion(ctx, question.ID)
	return nil
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Question{}).Error; err != nil {
		return err
	}
	_ = q.cacheManager.InvalidateQuestion(ctx, id)
	return nil
}

func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	db := q.getDB(tx)
	return db.WithContext(ctx).CreateInBatches(questions, 100).Error
}

func (q *QuestionPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := q.getDB(tx)
	var questions []*models.Question
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions by ids: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	db := q.getDB(tx)
	var questions []*models.Question
	var total int64

	query := db.WithContext(ctx).Model(&models.Question{})
	query = q.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (q *QuestionPostgreSQL) GetByChapter(ctx context.Context, tx *gorm.DB, chapterID string, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	filters.ChapterID = &chapterID
	return q.List(ctx, tx, filters)
}

// Sample draws a uniform random sample without replacement from the eligible
// pool using the database's ORDER BY random().
func (q *QuestionPostgreSQL) Sample(ctx context.Context, tx *gorm.DB, filters repositories.SampleFilters) ([]*models.Question, error) {
	db := q.getDB(tx)
	var questions []*models.Question

	query := q.applySampleFilters(db.WithContext(ctx).Model(&models.Question{}), filters)
	if err := query.Order("random()").Limit(filters.Count).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}

	return questions, nil
}

func (q *QuestionPostgreSQL) CountEligible(ctx context.Context, tx *gorm.DB, filters repositories.SampleFilters) (int64, error) {
	db := q.getDB(tx)
	var count int64
	query := q.applySampleFilters(db.WithContext(ctx).Model(&models.Question{}), filters)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (q *QuestionPostgreSQL) IsUsedInQuizzes(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	db := q.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.QuizQuestion{}).
		Where("question_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (q *QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.ChapterID != nil {
		query = query.Where("chapter_id = ?", *filters.ChapterID)
	}
	if filters.Kind != nil {
		query = query.Where("kind = ?", *filters.Kind)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if len(filters.Tags) > 0 {
		query = query.Where("tags @> ?", toJSONArray(filters.Tags))
	}
	return query
}

func (q *QuestionPostgreSQL) applySampleFilters(query *gorm.DB, filters repositories.SampleFilters) *gorm.DB {
	if len(filters.ChapterIDs) > 0 {
		query = query.Where("chapter_id IN ?", filters.ChapterIDs)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.Kind != nil {
		query = query.Where("kind = ?", *filters.Kind)
	}
	if len(filters.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filters.ExcludeIDs)
	}
	return query
}
