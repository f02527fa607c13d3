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

type sessionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	business  *validator.BusinessValidator
	notifier  NotificationEventService
}

func NewSessionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, notifier NotificationEventService) SessionService {
	return &sessionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		business:  validator.NewBusinessValidator(),
		notifier:  notifier,
	}
}

// ===== START =====

func (s *sessionService) Start(ctx context.Context, req *StartSessionRequest, actor Actor) (*SessionView, error) {
	s.logger.Info("Starting quiz session",
		"quiz_id", req.QuizID,
		"actor_id", actor.UserID,
		"is_guest", actor.IsGuest)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}
	if !validator.IsValidID(req.QuizID) {
		return nil, ErrInvalidIDFormat
	}
	if !actor.IsGuest && !validator.IsValidID(actor.UserID) {
		return nil, ErrInvalidIDFormat
	}

	if !actor.IsGuest {
		if _, err := s.repo.User().GetByID(ctx, actor.UserID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrUserNotFound
			}
			return nil, wrapStorageError("get user", err)
		}
	}

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, nil, req.QuizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, wrapStorageError("get quiz", err)
	}

	if err := s.checkStartAllowed(quiz, actor); err != nil {
		return nil, err
	}

	// Deadline gate
	if quiz.Deadline != nil && time.Now().After(*quiz.Deadline) {
		return nil, ErrQuizDeadlinePassed
	}

	// The scoring scale must be sane before anything is persisted.
	maxScore := quiz.MaxPossibleScore()
	if len(quiz.Questions) == 0 || maxScore <= 0 {
		return nil, ErrInvalidQuiz
	}

	// Attempt cap, counted per identity against this quiz.
	identityID := actor.UserID
	priorCount, err := s.repo.Session().CountByIdentity(ctx, nil, quiz.ID, identityID)
	if err != nil {
		return nil, wrapStorageError("count sessions", err)
	}
	if quiz.AllowedAttempts != nil && priorCount >= int64(*quiz.AllowedAttempts) {
		return nil, ErrAttemptsExceeded
	}

	language := req.Language
	if language == "" {
		language = models.DefaultLanguage
	}

	session := &models.QuizSession{
		ID:               uuid.NewString(),
		QuizID:           quiz.ID,
		Language:         language,
		AttemptNumber:    int(priorCount) + 1,
		MaxPossibleScore: maxScore,
		QuizGlobalScore:  quiz.GlobalScore,
		IsCompleted:      false,
		StartedAt:        time.Now(),
	}
	if actor.IsGuest {
		session.GuestID = &actor.UserID
		if req.GuestName != "" {
			session.GuestName = &req.GuestName
		} else if actor.GuestName != "" {
			session.GuestName = &actor.GuestName
		}
	} else {
		session.UserID = &actor.UserID
	}

	// One placeholder response row per manifest entry.
	responses := make([]*models.SessionResponse, 0, len(quiz.Questions))
	for _, qq := range quiz.Questions {
		responses = append(responses, &models.SessionResponse{
			ID:         uuid.NewString(),
			SessionID:  session.ID,
			QuestionID: qq.QuestionID,
			Position:   qq.Position,
		})
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Session().Create(ctx, nil, session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		if err := txRepo.Response().CreateBatch(ctx, nil, responses); err != nil {
			return fmt.Errorf("failed to create response rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorageError("start session", err)
	}

	questions, err := s.buildRedactedQuestions(quiz, language)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz session started",
		"session_id", session.ID,
		"quiz_id", quiz.ID,
		"attempt_number", session.AttemptNumber)

	return &SessionView{QuizSession: session, Questions: questions}, nil
}

// ===== SUBMIT =====

func (s *sessionService) Submit(ctx context.Context, sessionID string, req *SubmitSessionRequest, actor Actor) (*SessionResult, error) {
	s.logger.Info("Submitting quiz session",
		"session_id", sessionID,
		"actor_id", actor.UserID,
		"responses_count", len(req.Responses))

	if !validator.IsValidID(sessionID) {
		return nil, ErrInvalidIDFormat
	}
	if errs := s.business.ValidateSessionSubmit(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	session, err := s.repo.Session().GetByID(ctx, nil, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, wrapStorageError("get session", err)
	}

	// Only the session owner may submit it, staff included.
	if session.IdentityID() != actor.UserID {
		return nil, NewPermissionError(actor.UserID, sessionID, "session", "submit", "not owned by actor")
	}

	// Early exit; the conditional update below is the authoritative check.
	if session.IsCompleted {
		return nil, ErrSessionAlreadyCompleted
	}

	manifest, err := s.repo.QuizQuestion().GetByQuiz(ctx, nil, session.QuizID)
	if err != nil {
		return nil, wrapStorageError("get quiz manifest", err)
	}
	manifestByQuestion := make(map[string]*models.QuizQuestion, len(manifest))
	for _, row := range manifest {
		manifestByQuestion[row.QuestionID] = row
	}

	// Every submitted answer must target a manifest question.
	for _, response := range req.Responses {
		if _, ok := manifestByQuestion[response.QuestionID]; !ok {
			return nil, ErrInvalidQuestion
		}
	}

	// Grade against the authoritative question content fetched now, not the
	// redacted views handed out at start.
	questionIDs := make([]string, 0, len(req.Responses))
	for _, response := range req.Responses {
		questionIDs = append(questionIDs, response.QuestionID)
	}
	questions, err := s.repo.Question().GetByIDs(ctx, nil, questionIDs)
	if err != nil {
		return nil, wrapStorageError("get questions", err)
	}
	questionByID := make(map[string]*models.Question, len(questions))
	for _, question := range questions {
		questionByID[question.ID] = question
	}

	graded := make([]GradedResponse, 0, len(req.Responses))
	var totalEarned float64
	for _, response := range req.Responses {
		question, ok := questionByID[response.QuestionID]
		if !ok {
			return nil, ErrQuestionNotFound
		}
		pointValue := manifestByQuestion[response.QuestionID].PointValue

		correct, err := gradeAnswer(question, response.Answer, session.Language)
		if err != nil {
			return nil, fmt.Errorf("failed to grade question %s: %w", question.ID, err)
		}

		earned := 0.0
		if correct {
			earned = pointValue
		}
		totalEarned += earned

		graded = append(graded, GradedResponse{
			QuestionID:  response.QuestionID,
			IsCorrect:   correct,
			ScoreEarned: earned,
			PointValue:  pointValue,
		})
	}

	// Project the raw total onto the quiz's global scale.
	var finalScore, ratio float64
	if session.MaxPossibleScore > 0 {
		ratio = totalEarned / session.MaxPossibleScore
		finalScore = ratio * session.QuizGlobalScore
	}

	passStatus := models.PassStatusFailed
	if ratio >= models.PassThreshold {
		passStatus = models.PassStatusPassed
	}

	session.TotalScoreEarned = totalEarned
	session.FinalCalculatedScore = finalScore
	session.PassStatus = &passStatus
	session.DurationSeconds = req.DurationSeconds

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		won, err := txRepo.Session().Complete(ctx, nil, session)
		if err != nil {
			return err
		}
		if !won {
			return ErrSessionAlreadyCompleted
		}
		return s.writeGradedResponses(ctx, txRepo, session.ID, req.Responses, graded)
	})
	if err != nil {
		if err == ErrSessionAlreadyCompleted {
			return nil, err
		}
		return nil, wrapStorageError("complete session", err)
	}

	// Completion notifications never block or fail the submission.
	go s.notifyCompletion(context.WithoutCancel(ctx), session)

	s.logger.Info("Quiz session submitted",
		"session_id", session.ID,
		"total_earned", totalEarned,
		"final_score", finalScore,
		"pass_status", passStatus)

	return &SessionResult{
		SessionID:            session.ID,
		TotalScoreEarned:     totalEarned,
		MaxPossibleScore:     session.MaxPossibleScore,
		FinalCalculatedScore: finalScore,
		QuizGlobalScore:      session.QuizGlobalScore,
		PassStatus:           passStatus,
		Responses:            graded,
	}, nil
}

// ===== READ / DELETE =====

func (s *sessionService) GetByID(ctx context.Context, id string, actor Actor) (*SessionView, error) {
	if !validator.IsValidID(id) {
		return nil, ErrInvalidIDFormat
	}

	session, err := s.repo.Session().GetByIDWithResponses(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, wrapStorageError("get session", err)
	}

	if err := s.checkSessionVisible(ctx, session, actor, "view"); err != nil {
		return nil, err
	}

	view := &SessionView{QuizSession: session}

	// In-progress sessions carry the redacted question views so a taker can
	// resume rendering; completed ones only carry the graded rows.
	if !session.IsCompleted {
		quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, nil, session.QuizID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrQuizNotFound
			}
			return nil, wrapStorageError("get quiz", err)
		}
		questions, err := s.buildRedactedQuestions(quiz, session.Language)
		if err != nil {
			return nil, err
		}
		view.Questions = questions
	}

	return view, nil
}

func (s *sessionService) List(ctx context.Context, filters repositories.SessionFilters, actor Actor) (*SessionListResponse, error) {
	if err := s.scopeListFilters(ctx, &filters, actor); err != nil {
		return nil, err
	}

	sessions, total, err := s.repo.Session().List(ctx, nil, filters)
	if err != nil {
		return nil, wrapStorageError("list sessions", err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &SessionListResponse{
		Sessions: sessions,
		Total:    total,
		Page:     page,
		Size:     len(sessions),
	}, nil
}

func (s *sessionService) Delete(ctx context.Context, id string, actor Actor) error {
	if !validator.IsValidID(id) {
		return ErrInvalidIDFormat
	}

	session, err := s.repo.Session().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return wrapStorageError("get session", err)
	}

	if !actor.IsStaff() {
		if session.IdentityID() != actor.UserID {
			return NewPermissionError(actor.UserID, id, "session", "delete", "not owned by actor")
		}
		if session.IsCompleted {
			return NewPermissionError(actor.UserID, id, "session", "delete", "completed sessions are immutable for takers")
		}
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Response().DeleteBySession(ctx, nil, id); err != nil {
			return err
		}
		return txRepo.Session().Delete(ctx, nil, id)
	})
	if err != nil {
		return wrapStorageError("delete session", err)
	}

	s.logger.Info("Quiz session deleted", "session_id", id, "actor_id", actor.UserID)
	return nil
}
