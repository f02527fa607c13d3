package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

// ===== REDACTION =====

// buildRedactedQuestions renders the quiz manifest as taker-facing views:
// correctness flags, answer formulas and explanations never leave the
// server before submission.
func (s *sessionService) buildRedactedQuestions(quiz *models.Quiz, language string) ([]models.RedactedQuestion, error) {
	views := make([]models.RedactedQuestion, 0, len(quiz.Questions))
	for _, qq := range quiz.Questions {
		if qq.Question == nil {
			return nil, fmt.Errorf("manifest row %s has no loaded question", qq.ID)
		}
		view, err := redactQuestion(qq.Question, qq.Position, qq.PointValue, language)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func redactQuestion(question *models.Question, position int, pointValue float64, language string) (*models.RedactedQuestion, error) {
	view := &models.RedactedQuestion{
		ID:         question.ID,
		Kind:       question.Kind,
		Prompt:     question.Prompt.Resolve(language),
		Position:   position,
		PointValue: pointValue,
		Media:      question.Media,
	}

	switch {
	case question.Kind.UsesChoices():
		content, err := question.ChoiceContent()
		if err != nil {
			return nil, err
		}
		view.Choices = make([]models.RedactedChoice, 0, len(content.Choices))
		for _, choice := range content.Choices {
			view.Choices = append(view.Choices, models.RedactedChoice{
				ID:   choice.ID,
				Text: choice.Text.Resolve(language),
			})
		}
	case question.Kind == models.NumericFormula:
		content, err := question.FormulaContent()
		if err != nil {
			return nil, err
		}
		view.Unit = content.Unit
	}

	return view, nil
}

// ===== GRADING =====

// gradeAnswer dispatches on the question kind. Choice kinds compare the
// submitted set against the correct choice texts resolved in the session
// language; grading is all-or-nothing. Numeric formulas compare the exact
// string. Kinds this engine cannot grade score as incorrect rather than
// failing the submission.
func gradeAnswer(question *models.Question, answer models.AnswerValue, language string) (bool, error) {
	switch {
	case question.Kind.UsesChoices():
		content, err := question.ChoiceContent()
		if err != nil {
			return false, err
		}
		return gradeChoices(content, answer, language), nil
	case question.Kind == models.NumericFormula:
		content, err := question.FormulaContent()
		if err != nil {
			return false, err
		}
		return gradeFormula(content, answer), nil
	default:
		return false, nil
	}
}

func gradeChoices(content *models.ChoiceContent, answer models.AnswerValue, language string) bool {
	expected := content.CorrectTexts(language)
	submitted := answer.AsList()

	if len(expected) == 0 || len(submitted) != len(expected) {
		return false
	}

	expectedSet := make(map[string]bool, len(expected))
	for _, text := range expected {
		expectedSet[text] = true
	}
	// Duplicates in the submission must not fake a full set.
	seen := make(map[string]bool, len(submitted))
	for _, text := range submitted {
		if !expectedSet[text] || seen[text] {
			return false
		}
		seen[text] = true
	}
	return true
}

func gradeFormula(content *models.FormulaContent, answer models.AnswerValue) bool {
	submitted := answer.AsString()
	if submitted == "" {
		return false
	}
	return strings.TrimSpace(submitted) == strings.TrimSpace(content.CorrectAnswerFormula)
}

// writeGradedResponses fills in the placeholder rows created at start.
func (s *sessionService) writeGradedResponses(ctx context.Context, txRepo repositories.Repository, sessionID string, submitted []SessionResponseRequest, graded []GradedResponse) error {
	rows, err := txRepo.Response().GetBySession(ctx, nil, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load response rows: %w", err)
	}
	rowByQuestion := make(map[string]*models.SessionResponse, len(rows))
	for _, row := range rows {
		rowByQuestion[row.QuestionID] = row
	}

	gradedByQuestion := make(map[string]GradedResponse, len(graded))
	for _, g := range graded {
		gradedByQuestion[g.QuestionID] = g
	}

	updates := make([]*models.SessionResponse, 0, len(submitted))
	for _, response := range submitted {
		row, ok := rowByQuestion[response.QuestionID]
		if !ok {
			return fmt.Errorf("no response row for question %s", response.QuestionID)
		}
		result := gradedByQuestion[response.QuestionID]

		answerJSON, err := json.Marshal(response.Answer)
		if err != nil {
			return fmt.Errorf("failed to encode answer for question %s: %w", response.QuestionID, err)
		}

		isCorrect := result.IsCorrect
		row.Answer = answerJSON
		row.IsCorrect = &isCorrect
		row.ScoreEarned = result.ScoreEarned
		row.TimeTakenSeconds = response.TimeTakenSeconds
		updates = append(updates, row)
	}

	return txRepo.Response().UpdateBatch(ctx, nil, updates)
}

// ===== AUTHORIZATION =====

// checkStartAllowed applies the publish and role gates of session start.
func (s *sessionService) checkStartAllowed(quiz *models.Quiz, actor Actor) error {
	if actor.IsGuest {
		if !quiz.IsPublished || !quiz.IsPublic {
			return NewPermissionError(actor.UserID, quiz.ID, "quiz", "start", "quiz is not open to guests")
		}
		return nil
	}

	if actor.IsStaff() || quiz.CreatedBy == actor.UserID {
		return nil
	}

	// Unpublished revision quizzes are a personal study aid of their
	// creator; everyone else needs a published quiz.
	if !quiz.IsPublished {
		return ErrQuizNotPublished
	}
	return nil
}

// checkSessionVisible enforces who may read a session: the owner, staff,
// the quiz creator, and teachers of the quiz's training.
func (s *sessionService) checkSessionVisible(ctx context.Context, session *models.QuizSession, actor Actor, action string) error {
	if actor.IsStaff() {
		return nil
	}
	if session.IdentityID() == actor.UserID {
		return nil
	}
	if actor.IsGuest {
		return NewPermissionError(actor.UserID, session.ID, "session", action, "not owned by guest")
	}
	if actor.Role == models.RoleTeacher {
		visible, err := s.teacherOverseesQuiz(ctx, session.QuizID, actor.UserID)
		if err != nil {
			return err
		}
		if visible {
			return nil
		}
	}
	return NewPermissionError(actor.UserID, session.ID, "session", action, "no visibility over this session")
}

// teacherOverseesQuiz reports whether the teacher created the quiz or
// teaches the training it belongs to. Derived per call, never cached.
func (s *sessionService) teacherOverseesQuiz(ctx context.Context, quizID, teacherID string) (bool, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrQuizNotFound
		}
		return false, wrapStorageError("get quiz", err)
	}
	if quiz.CreatedBy == teacherID {
		return true, nil
	}

	training, err := s.repo.Training().GetByID(ctx, nil, quiz.TrainingID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, wrapStorageError("get training", err)
	}
	return training.HasTeacher(teacherID), nil
}

// scopeListFilters narrows a session listing to what the actor may see.
func (s *sessionService) scopeListFilters(ctx context.Context, filters *repositories.SessionFilters, actor Actor) error {
	if actor.IsStaff() {
		return nil
	}

	if actor.IsGuest {
		filters.GuestID = &actor.UserID
		filters.UserID = nil
		return nil
	}

	if actor.Role == models.RoleTeacher && filters.QuizID != nil {
		if !validator.IsValidID(*filters.QuizID) {
			return ErrInvalidIDFormat
		}
		visible, err := s.teacherOverseesQuiz(ctx, *filters.QuizID, actor.UserID)
		if err != nil {
			return err
		}
		if visible {
			return nil
		}
		return NewPermissionError(actor.UserID, *filters.QuizID, "quiz", "list_sessions", "no visibility over this quiz")
	}

	// Students (and teachers without a quiz scope) see their own sessions.
	filters.UserID = &actor.UserID
	filters.GuestID = nil
	return nil
}

// ===== NOTIFICATIONS =====

// notifyCompletion fans the completion event out to the quiz creator and
// the training's teachers. Errors are logged only.
func (s *sessionService) notifyCompletion(ctx context.Context, session *models.QuizSession) {
	if s.notifier == nil {
		return
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, session.QuizID)
	if err != nil {
		s.logger.Error("Failed to load quiz for completion notification",
			"session_id", session.ID,
			"quiz_id", session.QuizID,
			"error", err)
		return
	}

	if err := s.notifier.NotifySessionCompleted(ctx, session, quiz); err != nil {
		s.logger.Error("Failed to publish session completion notification",
			"session_id", session.ID,
			"error", err)
	}
}
