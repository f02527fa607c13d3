package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type SessionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSessionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.SessionRepository {
	return &SessionPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (s *SessionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *SessionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, session *models.QuizSession) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Create(session).Error
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.QuizSession, error) {
	db := s.getDB(tx)
	var session models.QuizSession
	if err := db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetByIDWithResponses(ctx context.Context, tx *gorm.DB, id string) (*models.QuizSession, error) {
	db := s.getDB(tx)
	var session models.QuizSession
	if err := db.WithContext(ctx).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("session_responses.position ASC")
		}).
		Where("id = ?", id).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, session *models.QuizSession) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Omit("Responses").Save(session).Error
}

func (s *SessionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Where("id = ?", id).Delete(&models.QuizSession{}).Error
}

func (s *SessionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SessionFilters) ([]*models.QuizSession, int64, error) {
	db := s.getDB(tx)
	var sessions []*models.QuizSession
	var total int64

	query := db.WithContext(ctx).Model(&models.QuizSession{})
	query = s.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (s *SessionPostgreSQL) CountByIdentity(ctx context.Context, tx *gorm.DB, quizID, identityID string) (int64, error) {
	db := s.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.QuizSession{}).
		Where("quiz_id = ? AND (user_id = ? OR guest_id = ?)", quizID, identityID, identityID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Complete flips is_completed with a conditional update so that concurrent
// submissions of the same session resolve to exactly one winner. The
// returned bool is false when another submission got there first.
func (s *SessionPostgreSQL) Complete(ctx context.Context, tx *gorm.DB, session *models.QuizSession) (bool, error) {
	db := s.getDB(tx)
	now := time.Now()

	result := db.WithContext(ctx).
		Model(&models.QuizSession{}).
		Where("id = ? AND is_completed = ?", session.ID, false).
		Updates(map[string]interface{}{
			"is_completed":           true,
			"total_score_earned":     session.TotalScoreEarned,
			"final_calculated_score": session.FinalCalculatedScore,
			"pass_status":            session.PassStatus,
			"duration_seconds":       session.DurationSeconds,
			"completed_at":           now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to complete session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	session.IsCompleted = true
	session.CompletedAt = &now
	return true, nil
}

func (s *SessionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.GuestID != nil {
		query = query.Where("guest_id = ?", *filters.GuestID)
	}
	if filters.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filters.IsCompleted)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

// ResponsePostgreSQL manages session answer rows.
type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

func (r *ResponsePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ResponsePostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, responses []*models.SessionResponse) error {
	if len(responses) == 0 {
		return nil
	}
	db := r.getDB(tx)
	return db.WithContext(ctx).CreateInBatches(responses, 100).Error
}

func (r *ResponsePostgreSQL) GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]*models.SessionResponse, error) {
	db := r.getDB(tx)
	var responses []*models.SessionResponse
	if err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("failed to get session responses: %w", err)
	}
	return responses, nil
}

func (r *ResponsePostgreSQL) UpdateBatch(ctx context.Context, tx *gorm.DB, responses []*models.SessionResponse) error {
	db := r.getDB(tx)
	for _, response := range responses {
		if err := db.WithContext(ctx).Save(response).Error; err != nil {
			return fmt.Errorf("failed to update response %s: %w", response.ID, err)
		}
	}
	return nil
}

func (r *ResponsePostgreSQL) DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID string) error {
	db := r.getDB(tx)
	return db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.SessionResponse{}).Error
}
