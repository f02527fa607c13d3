package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

type questionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	business  *validator.BusinessValidator
}

func NewQuestionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		business:  validator.NewBusinessValidator(),
	}
}

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, actor Actor) (*QuestionResponse, error) {
	if actor.IsGuest || actor.Role == models.RoleStudent {
		return nil, NewPermissionError(actor.UserID, "", "question", "create", "only teachers and staff may author questions")
	}

	if errs := s.business.ValidateQuestionCreate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	chapter, err := s.repo.Chapter().GetByID(ctx, nil, req.ChapterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, wrapStorageError("get chapter", err)
	}

	content, err := json.Marshal(req.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: content is not valid JSON", ErrValidationFailed)
	}

	question := &models.Question{
		ID:          uuid.NewString(),
		ChapterID:   chapter.ID,
		Kind:        req.Kind,
		Prompt:      req.Prompt,
		Difficulty:  req.Difficulty,
		Tags:        req.Tags,
		Content:     content,
		Explanation: req.Explanation,
		CreatedBy:   actor.UserID,
	}
	if req.PointValue != nil {
		question.DefaultPointValue = *req.PointValue
	} else {
		question.DefaultPointValue = 1
	}
	if req.Media != nil {
		media, err := models.NewMedia(req.Media.Kind, req.Media.URL, req.Media.AltText)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
		}
		question.Media = media
	}

	if err := s.repo.Question().Create(ctx, nil, question); err != nil {
		return nil, wrapStorageError("create question", err)
	}

	s.logger.Info("Question created",
		"question_id", question.ID,
		"chapter_id", question.ChapterID,
		"kind", question.Kind,
		"actor_id", actor.UserID)

	return s.toResponse(question, actor), nil
}

func (s *questionService) GetByID(ctx context.Context, id string, actor Actor) (*QuestionResponse, error) {
	if !validator.IsValidID(id) {
		return nil, ErrInvalidIDFormat
	}
	if actor.IsGuest || actor.Role == models.RoleStudent {
		return nil, NewPermissionError(actor.UserID, id, "question", "view", "question bodies carry answer keys")
	}

	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, wrapStorageError("get question", err)
	}

	return s.toResponse(question, actor), nil
}

func (s *questionService) Update(ctx context.Context, id string, req *UpdateQuestionRequest, actor Actor) (*QuestionResponse, error) {
	if !validator.IsValidID(id) {
		return nil, ErrInvalidIDFormat
	}
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, wrapStorageError("get question", err)
	}

	if !s.canManage(question, actor) {
		return nil, NewPermissionError(actor.UserID, id, "question", "update", "only the author or staff may modify a question")
	}

	if len(req.Prompt) > 0 {
		question.Prompt = req.Prompt
	}
	if req.Difficulty != nil {
		question.Difficulty = *req.Difficulty
	}
	if req.Tags != nil {
		question.Tags = req.Tags
	}
	if req.Explanation != nil {
		question.Explanation = req.Explanation
	}
	if req.PointValue != nil {
		question.DefaultPointValue = *req.PointValue
	}
	if req.Media != nil {
		media, err := models.NewMedia(req.Media.Kind, req.Media.URL, req.Media.AltText)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
		}
		question.Media = media
	}
	if req.Content != nil {
		content, err := json.Marshal(req.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: content is not valid JSON", ErrValidationFailed)
		}
		question.Content = content
		if err := question.ValidateContent(); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
		}
	}

	if err := s.repo.Question().Update(ctx, nil, question); err != nil {
		return nil, wrapStorageError("update question", err)
	}

	s.logger.Info("Question updated", "question_id", id, "actor_id", actor.UserID)
	return s.toResponse(question, actor), nil
}

func (s *questionService) Delete(ctx context.Context, id string, actor Actor) error {
	if !validator.IsValidID(id) {
		return ErrInvalidIDFormat
	}

	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return wrapStorageError("get question", err)
	}

	if !s.canManage(question, actor) {
		return NewPermissionError(actor.UserID, id, "question", "delete", "only the author or staff may delete a question")
	}

	// Questions referenced by a quiz manifest stay; deleting them would
	// silently change past and future sessions of that quiz.
	used, err := s.repo.Question().IsUsedInQuizzes(ctx, nil, id)
	if err != nil {
		return wrapStorageError("check question usage", err)
	}
	if used {
		return NewBusinessRuleError("question_in_use", "question is part of at least one quiz")
	}

	if err := s.repo.Question().Delete(ctx, nil, id); err != nil {
		return wrapStorageError("delete question", err)
	}

	s.logger.Info("Question deleted", "question_id", id, "actor_id", actor.UserID)
	return nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters, actor Actor) (*QuestionListResponse, error) {
	if actor.IsGuest || actor.Role == models.RoleStudent {
		return nil, NewPermissionError(actor.UserID, "", "question", "list", "question bodies carry answer keys")
	}

	questions, total, err := s.repo.Question().List(ctx, nil, filters)
	if err != nil {
		return nil, wrapStorageError("list questions", err)
	}

	responses := make([]*QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, s.toResponse(question, actor))
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &QuestionListResponse{
		Questions: responses,
		Total:     total,
		Page:      page,
		Size:      len(responses),
	}, nil
}

func (s *questionService) Sample(ctx context.Context, filters repositories.SampleFilters, actor Actor) ([]*models.Question, error) {
	if actor.IsGuest || actor.Role == models.RoleStudent {
		return nil, NewPermissionError(actor.UserID, "", "question", "sample", "question bodies carry answer keys")
	}
	if filters.Count < 1 {
		return nil, fmt.Errorf("%w: sample count must be at least 1", ErrValidationFailed)
	}

	eligible, err := s.repo.Question().CountEligible(ctx, nil, filters)
	if err != nil {
		return nil, wrapStorageError("count eligible questions", err)
	}
	if eligible < int64(filters.Count) {
		return nil, ErrInsufficientQuestions
	}

	sampled, err := s.repo.Question().Sample(ctx, nil, filters)
	if err != nil {
		return nil, wrapStorageError("sample questions", err)
	}
	return sampled, nil
}

func (s *questionService) canManage(question *models.Question, actor Actor) bool {
	if actor.IsGuest {
		return false
	}
	return actor.IsStaff() || question.CreatedBy == actor.UserID
}

func (s *questionService) toResponse(question *models.Question, actor Actor) *QuestionResponse {
	manage := s.canManage(question, actor)
	return &QuestionResponse{
		Question:  question,
		CanEdit:   manage,
		CanDelete: manage,
	}
}
