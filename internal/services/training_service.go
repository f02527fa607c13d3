package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

// trainingService exposes read access to the training catalog. Trainings and
// chapters are owned by an upstream system; this service never mutates them.
type trainingService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewTrainingService(repo repositories.Repository, logger *slog.Logger) TrainingService {
	return &trainingService{repo: repo, logger: logger}
}

func (s *trainingService) GetByID(ctx context.Context, id string) (*models.Training, error) {
	if !validator.IsValidID(id) {
		return nil, ErrInvalidIDFormat
	}

	training, err := s.repo.Training().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTrainingNotFound
		}
		return nil, wrapStorageError("get training", err)
	}
	return training, nil
}

func (s *trainingService) List(ctx context.Context, limit, offset int) ([]*models.Training, int64, error) {
	trainings, total, err := s.repo.Training().List(ctx, nil, limit, offset)
	if err != nil {
		return nil, 0, wrapStorageError("list trainings", err)
	}
	return trainings, total, nil
}

func (s *trainingService) GetChapters(ctx context.Context, trainingID string) ([]*models.Chapter, error) {
	if !validator.IsValidID(trainingID) {
		return nil, ErrInvalidIDFormat
	}

	if _, err := s.repo.Training().GetByID(ctx, nil, trainingID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTrainingNotFound
		}
		return nil, wrapStorageError("get training", err)
	}

	chapters, err := s.repo.Chapter().GetByTraining(ctx, nil, trainingID)
	if err != nil {
		return nil, wrapStorageError("get chapters", err)
	}
	return chapters, nil
}
