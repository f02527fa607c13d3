package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type TrainingPostgreSQL struct {
	db *gorm.DB
}

func NewTrainingPostgreSQL(db *gorm.DB) repositories.TrainingRepository {
	return &TrainingPostgreSQL{db: db}
}

func (t *TrainingPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return t.db
}

func (t *TrainingPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Training, error) {
	db := t.getDB(tx)
	var training models.Training
	if err := db.WithContext(ctx).Where("id = ?", id).First(&training).Error; err != nil {
		return nil, err
	}
	return &training, nil
}

func (t *TrainingPostgreSQL) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Training, error) {
	db := t.getDB(tx)
	var training models.Training
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&training).Error; err != nil {
		return nil, err
	}
	return &training, nil
}

func (t *TrainingPostgreSQL) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.Training, int64, error) {
	db := t.getDB(tx)
	var trainings []*models.Training
	var total int64

	query := db.WithContext(ctx).Model(&models.Training{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "created_at", "desc", limit, offset)
	if err := query.Find(&trainings).Error; err != nil {
		return nil, 0, err
	}

	return trainings, total, nil
}

func (t *TrainingPostgreSQL) GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Training, error) {
	db := t.getDB(tx)
	var trainings []*models.Training
	if err := db.WithContext(ctx).
		Where("teacher_ids @> ?", toJSONArray([]string{teacherID})).
		Find(&trainings).Error; err != nil {
		return nil, fmt.Errorf("failed to get trainings by teacher: %w", err)
	}
	return trainings, nil
}

type ChapterPostgreSQL struct {
	db *gorm.DB
}

func NewChapterPostgreSQL(db *gorm.DB) repositories.ChapterRepository {
	return &ChapterPostgreSQL{db: db}
}

func (c *ChapterPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *ChapterPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Chapter, error) {
	db := c.getDB(tx)
	var chapter models.Chapter
	if err := db.WithContext(ctx).Where("id = ?", id).First(&chapter).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (c *ChapterPostgreSQL) GetByTraining(ctx context.Context, tx *gorm.DB, trainingID string) ([]*models.Chapter, error) {
	db := c.getDB(tx)
	var chapters []*models.Chapter
	if err := db.WithContext(ctx).
		Where("training_id = ?", trainingID).
		Order("position ASC").
		Find(&chapters).Error; err != nil {
		return nil, fmt.Errorf("failed to get chapters by training: %w", err)
	}
	return chapters, nil
}

func (c *ChapterPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Chapter, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := c.getDB(tx)
	var chapters []*models.Chapter
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&chapters).Error; err != nil {
		return nil, fmt.Errorf("failed to get chapters by ids: %w", err)
	}
	return chapters, nil
}
