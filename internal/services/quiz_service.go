package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

type quizService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	business  *validator.BusinessValidator

	// generalTrainingID is the shared training every student may see
	// published quizzes of, regardless of enrollment. Supplied by
	// configuration at startup.
	generalTrainingID string
}

func NewQuizService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, generalTrainingID string) QuizService {
	return &quizService{
		repo:              repo,
		db:                db,
		logger:            logger,
		validator:         v,
		business:          validator.NewBusinessValidator(),
		generalTrainingID: generalTrainingID,
	}
}

// ===== CREATE =====

func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest, actor Actor) (*QuizResponse, error) {
	s.logger.Info("Creating quiz",
		"training_id", req.TrainingID,
		"quiz_type", req.QuizType,
		"method", req.Method,
		"actor_id", actor.UserID)

	if errs := s.business.ValidateQuizCreate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	if err := checkQuizTypeAllowed(req.QuizType, actor); err != nil {
		return nil, err
	}

	training, err := s.repo.Training().GetByID(ctx, nil, req.TrainingID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTrainingNotFound
		}
		return nil, wrapStorageError("get training", err)
	}

	quiz := &models.Quiz{
		ID:              uuid.NewString(),
		TrainingID:      training.ID,
		CreatedBy:       actor.UserID,
		Title:           req.Title,
		Description:     req.Description,
		QuizType:        req.QuizType,
		IsPublished:     false,
		IsPublic:        req.IsPublic,
		Deadline:        req.Deadline,
		DurationMinutes: req.DurationMinutes,
		AllowedAttempts: req.AllowedAttempts,
		GlobalScore:     req.GlobalScore,
	}

	var manifest []*models.QuizQuestion
	switch req.Method {
	case "select":
		manifest, err = s.buildSelectedManifest(ctx, quiz.ID, req.Questions)
	case "generate":
		manifest, err = s.buildGeneratedManifest(ctx, quiz.ID, req)
	default:
		return nil, fmt.Errorf("%w: unknown manifest method %q", ErrValidationFailed, req.Method)
	}
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Quiz().Create(ctx, nil, quiz); err != nil {
			return fmt.Errorf("failed to create quiz: %w", err)
		}
		if err := txRepo.QuizQuestion().CreateBatch(ctx, nil, manifest); err != nil {
			return fmt.Errorf("failed to create quiz manifest: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorageError("create quiz", err)
	}

	quiz.Questions = make([]models.QuizQuestion, 0, len(manifest))
	for _, row := range manifest {
		quiz.Questions = append(quiz.Questions, *row)
	}

	s.logger.Info("Quiz created",
		"quiz_id", quiz.ID,
		"question_count", len(manifest),
		"max_score", quiz.MaxPossibleScore())

	return s.toResponse(quiz, actor), nil
}

// buildSelectedManifest resolves explicitly chosen questions; every id must
// exist. Point values default to 1 when not overridden.
func (s *quizService) buildSelectedManifest(ctx context.Context, quizID string, reqs []validator.QuizQuestionRequest) ([]*models.QuizQuestion, error) {
	ids := make([]string, 0, len(reqs))
	for _, qr := range reqs {
		if !validator.IsValidID(qr.QuestionID) {
			return nil, ErrInvalidIDFormat
		}
		ids = append(ids, qr.QuestionID)
	}

	questions, err := s.repo.Question().GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, wrapStorageError("get questions", err)
	}
	byID := make(map[string]*models.Question, len(questions))
	for _, question := range questions {
		byID[question.ID] = question
	}

	manifest := make([]*models.QuizQuestion, 0, len(reqs))
	for i, qr := range reqs {
		question, ok := byID[qr.QuestionID]
		if !ok {
			return nil, ErrQuestionNotFound
		}

		pointValue := 1.0
		if qr.PointValue != nil {
			pointValue = *qr.PointValue
		} else if question.DefaultPointValue > 0 {
			pointValue = question.DefaultPointValue
		}

		manifest = append(manifest, &models.QuizQuestion{
			ID:         uuid.NewString(),
			QuizID:     quizID,
			QuestionID: question.ID,
			Position:   i + 1,
			PointValue: pointValue,
		})
	}
	return manifest, nil
}

// buildGeneratedManifest samples the requested number of questions from the
// chapter pool, uniformly and without replacement.
func (s *quizService) buildGeneratedManifest(ctx context.Context, quizID string, req *CreateQuizRequest) ([]*models.QuizQuestion, error) {
	chapters, err := s.repo.Chapter().GetByIDs(ctx, nil, req.ChapterIDs)
	if err != nil {
		return nil, wrapStorageError("get chapters", err)
	}
	if len(chapters) != len(req.ChapterIDs) {
		return nil, ErrChapterNotFound
	}

	filters := repositories.SampleFilters{
		ChapterIDs: req.ChapterIDs,
		Difficulty: req.Difficulty,
		Count:      req.QuestionCount,
	}

	eligible, err := s.repo.Question().CountEligible(ctx, nil, filters)
	if err != nil {
		return nil, wrapStorageError("count eligible questions", err)
	}
	if eligible < int64(req.QuestionCount) {
		return nil, ErrInsufficientQuestions
	}

	sampled, err := s.repo.Question().Sample(ctx, nil, filters)
	if err != nil {
		return nil, wrapStorageError("sample questions", err)
	}
	if len(sampled) < req.QuestionCount {
		return nil, ErrInsufficientQuestions
	}

	pointValue := 1.0
	if req.PointValue != nil {
		pointValue = *req.PointValue
	}

	manifest := make([]*models.QuizQuestion, 0, len(sampled))
	for i, question := range sampled {
		manifest = append(manifest, &models.QuizQuestion{
			ID:         uuid.NewString(),
			QuizID:     quizID,
			QuestionID: question.ID,
			Position:   i + 1,
			PointValue: pointValue,
		})
	}
	return manifest, nil
}

// checkQuizTypeAllowed applies the role policy on quiz types: students may
// only create revision quizzes, teachers anything but revision, staff any.
func checkQuizTypeAllowed(quizType models.QuizType, actor Actor) error {
	if actor.IsGuest {
		return NewPermissionError(actor.UserID, "", "quiz", "create", "guests cannot create quizzes")
	}
	if actor.IsStaff() {
		return nil
	}
	switch actor.Role {
	case models.RoleStudent:
		if quizType != models.QuizRevision {
			return NewPermissionError(actor.UserID, "", "quiz", "create", "students may only create revision quizzes")
		}
	case models.RoleTeacher:
		if quizType == models.QuizRevision {
			return NewPermissionError(actor.UserID, "", "quiz", "create", "teachers may not create revision quizzes")
		}
	default:
		return NewPermissionError(actor.UserID, "", "quiz", "create", "unknown role")
	}
	return nil
}

// ===== READ / UPDATE / DELETE =====

func (s *quizService) GetByID(ctx context.Context, id string, actor Actor) (*QuizResponse, error) {
	if !validator.IsValidID(id) {
		return nil, ErrInvalidIDFormat
	}

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, wrapStorageError("get quiz", err)
	}

	if !s.canSee(ctx, quiz, actor) {
		return nil, NewPermissionError(actor.UserID, id, "quiz", "view", "quiz is not visible to actor")
	}

	return s.toResponse(quiz, actor), nil
}

func (s *quizService) Update(ctx context.Context, id string, req *UpdateQuizRequest, actor Actor) (*QuizResponse, error) {
	if !validator.IsValidID(id) {
		return nil, ErrInvalidIDFormat
	}
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, wrapStorageError("get quiz", err)
	}

	if !s.canManage(quiz, actor) {
		return nil, NewPermissionError(actor.UserID, id, "quiz", "update", "only the creator or staff may modify a quiz")
	}

	if len(req.Title) > 0 {
		quiz.Title = req.Title
	}
	if len(req.Description) > 0 {
		quiz.Description = req.Description
	}
	if req.GlobalScore != nil {
		quiz.GlobalScore = *req.GlobalScore
	}
	if req.Deadline != nil {
		if req.Deadline.Before(time.Now()) {
			return nil, NewBusinessRuleError("deadline", "must be in the future")
		}
		quiz.Deadline = req.Deadline
	}
	if req.DurationMinutes != nil {
		quiz.DurationMinutes = req.DurationMinutes
	}
	if req.AllowedAttempts != nil {
		quiz.AllowedAttempts = req.AllowedAttempts
	}
	if req.IsPublic != nil {
		quiz.IsPublic = *req.IsPublic
	}

	if err := s.repo.Quiz().Update(ctx, nil, quiz); err != nil {
		return nil, wrapStorageError("update quiz", err)
	}

	s.logger.Info("Quiz updated", "quiz_id", id, "actor_id", actor.UserID)
	return s.toResponse(quiz, actor), nil
}

func (s *quizService) Delete(ctx context.Context, id string, actor Actor) error {
	if !validator.IsValidID(id) {
		return ErrInvalidIDFormat
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return wrapStorageError("get quiz", err)
	}

	if !s.canManage(quiz, actor) {
		return NewPermissionError(actor.UserID, id, "quiz", "delete", "only the creator or staff may delete a quiz")
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.QuizQuestion().DeleteByQuiz(ctx, nil, id); err != nil {
			return err
		}
		return txRepo.Quiz().Delete(ctx, nil, id)
	})
	if err != nil {
		return wrapStorageError("delete quiz", err)
	}

	s.logger.Info("Quiz deleted", "quiz_id", id, "actor_id", actor.UserID)
	return nil
}

// ===== PUBLISH =====

func (s *quizService) Publish(ctx context.Context, id string, actor Actor) error {
	if !validator.IsValidID(id) {
		return ErrInvalidIDFormat
	}

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return wrapStorageError("get quiz", err)
	}

	if !s.canManage(quiz, actor) {
		return NewPermissionError(actor.UserID, id, "quiz", "publish", "only the creator or staff may publish a quiz")
	}

	// Revision quizzes never become visible to other takers.
	if quiz.QuizType == models.QuizRevision {
		return ErrRevisionNotPublishable
	}

	if len(quiz.Questions) == 0 || quiz.MaxPossibleScore() <= 0 {
		return ErrInvalidQuiz
	}

	if err := s.repo.Quiz().UpdatePublishState(ctx, nil, id, true); err != nil {
		return wrapStorageError("publish quiz", err)
	}

	s.logger.Info("Quiz published", "quiz_id", id, "actor_id", actor.UserID)
	return nil
}

func (s *quizService) Unpublish(ctx context.Context, id string, actor Actor) error {
	if !validator.IsValidID(id) {
		return ErrInvalidIDFormat
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return wrapStorageError("get quiz", err)
	}

	if !s.canManage(quiz, actor) {
		return NewPermissionError(actor.UserID, id, "quiz", "unpublish", "only the creator or staff may unpublish a quiz")
	}

	if err := s.repo.Quiz().UpdatePublishState(ctx, nil, id, false); err != nil {
		return wrapStorageError("unpublish quiz", err)
	}

	s.logger.Info("Quiz unpublished", "quiz_id", id, "actor_id", actor.UserID)
	return nil
}

// ===== LIST / STATS =====

func (s *quizService) List(ctx context.Context, filters repositories.QuizFilters, actor Actor) (*QuizListResponse, error) {
	// Students and guests only ever see published quizzes; their own
	// creations are listed separately via the creator filter.
	if !actor.IsStaff() && actor.Role != models.RoleTeacher {
		if filters.CreatedBy == nil || *filters.CreatedBy != actor.UserID {
			published := true
			filters.IsPublished = &published
		}
	}

	quizzes, total, err := s.repo.Quiz().List(ctx, nil, filters)
	if err != nil {
		return nil, wrapStorageError("list quizzes", err)
	}

	responses := make([]*QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		if !s.canSee(ctx, quiz, actor) {
			continue
		}
		responses = append(responses, s.toResponse(quiz, actor))
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &QuizListResponse{
		Quizzes: responses,
		Total:   total,
		Page:    page,
		Size:    len(responses),
	}, nil
}

func (s *quizService) GetStats(ctx context.Context, id string, actor Actor) (*repositories.QuizStats, error) {
	if !validator.IsValidID(id) {
		return nil, ErrInvalidIDFormat
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, wrapStorageError("get quiz", err)
	}

	if !s.canManage(quiz, actor) {
		return nil, NewPermissionError(actor.UserID, id, "quiz", "stats", "only the creator or staff may view quiz stats")
	}

	stats, err := s.repo.Quiz().GetStats(ctx, nil, id)
	if err != nil {
		return nil, wrapStorageError("get quiz stats", err)
	}
	return stats, nil
}

// ===== HELPERS =====

// canSee reports whether the quiz shows up for the actor at all. Published
// quizzes are visible when public or when they belong to the general
// training; teachers additionally see published quizzes of trainings they
// teach.
func (s *quizService) canSee(ctx context.Context, quiz *models.Quiz, actor Actor) bool {
	if actor.IsStaff() {
		return true
	}
	if !actor.IsGuest && quiz.CreatedBy == actor.UserID {
		return true
	}
	if !quiz.IsPublished {
		return false
	}
	if actor.IsGuest {
		return quiz.IsPublic
	}
	if quiz.IsPublic || quiz.TrainingID == s.generalTrainingID {
		return true
	}
	if actor.Role == models.RoleTeacher {
		training, err := s.repo.Training().GetByID(ctx, nil, quiz.TrainingID)
		return err == nil && training.HasTeacher(actor.UserID)
	}
	return false
}

func (s *quizService) canManage(quiz *models.Quiz, actor Actor) bool {
	if actor.IsGuest {
		return false
	}
	return actor.IsStaff() || quiz.CreatedBy == actor.UserID
}

func (s *quizService) toResponse(quiz *models.Quiz, actor Actor) *QuizResponse {
	manage := s.canManage(quiz, actor)
	return &QuizResponse{
		Quiz:       quiz,
		CanEdit:    manage,
		CanDelete:  manage,
		CanPublish: manage && quiz.QuizType != models.QuizRevision,
	}
}
