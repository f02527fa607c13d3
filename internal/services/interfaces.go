package services

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateQuizRequest = validator.QuizCreateRequest
type UpdateQuizRequest = validator.QuizUpdateRequest
type CreateQuestionRequest = validator.QuestionCreateRequest
type UpdateQuestionRequest = validator.QuestionUpdateRequest
type StartSessionRequest = validator.SessionStartRequest
type SubmitSessionRequest = validator.SessionSubmitRequest
type SessionResponseRequest = validator.SessionResponseRequest

// Actor is the authenticated (or guest) identity performing an operation.
type Actor struct {
	UserID    string          `json:"user_id"`
	Role      models.UserRole `json:"role"`
	IsGuest   bool            `json:"is_guest"`
	GuestName string          `json:"guest_name,omitempty"`
}

func (a Actor) IsStaff() bool {
	return !a.IsGuest && a.Role.IsStaff()
}

type QuizResponse struct {
	*models.Quiz
	CanEdit    bool `json:"can_edit"`
	CanDelete  bool `json:"can_delete"`
	CanPublish bool `json:"can_publish"`
}

type QuizListResponse struct {
	Quizzes []*QuizResponse `json:"quizzes"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
}

type QuestionResponse struct {
	*models.Question
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type QuestionListResponse struct {
	Questions []*QuestionResponse `json:"questions"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	Size      int                 `json:"size"`
}

// SessionView is the session as exposed to its taker: question views are
// redacted until completion, grading fields only filled afterwards.
type SessionView struct {
	*models.QuizSession
	Questions []models.RedactedQuestion `json:"questions,omitempty"`
}

type SessionListResponse struct {
	Sessions []*models.QuizSession `json:"sessions"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	Size     int                   `json:"size"`
}

// SessionResult is the graded outcome returned by Submit.
type SessionResult struct {
	SessionID            string            `json:"session_id"`
	TotalScoreEarned     float64           `json:"total_score_earned"`
	MaxPossibleScore     float64           `json:"max_possible_score"`
	FinalCalculatedScore float64           `json:"final_calculated_score"`
	QuizGlobalScore      float64           `json:"quiz_global_score"`
	PassStatus           models.PassStatus `json:"pass_status"`
	Responses            []GradedResponse  `json:"responses"`
}

type GradedResponse struct {
	QuestionID  string  `json:"question_id"`
	IsCorrect   bool    `json:"is_correct"`
	ScoreEarned float64 `json:"score_earned"`
	PointValue  float64 `json:"point_value"`
}

// NotificationRequest describes one notification to dispatch.
type NotificationRequest struct {
	Type     models.NotificationType     `json:"type"`
	Title    string                      `json:"title"`
	Message  string                      `json:"message"`
	Priority models.NotificationPriority `json:"priority"`
	Data     map[string]interface{}      `json:"data,omitempty"`
}

// ===== SERVICE INTERFACES =====

type SessionService interface {
	// Core engine operations
	Start(ctx context.Context, req *StartSessionRequest, actor Actor) (*SessionView, error)
	Submit(ctx context.Context, sessionID string, req *SubmitSessionRequest, actor Actor) (*SessionResult, error)

	// Read operations
	GetByID(ctx context.Context, id string, actor Actor) (*SessionView, error)
	List(ctx context.Context, filters repositories.SessionFilters, actor Actor) (*SessionListResponse, error)

	// Delete is allowed for staff always, and for owners while the session
	// is still in progress.
	Delete(ctx context.Context, id string, actor Actor) error
}

type QuizService interface {
	Create(ctx context.Context, req *CreateQuizRequest, actor Actor) (*QuizResponse, error)
	GetByID(ctx context.Context, id string, actor Actor) (*QuizResponse, error)
	Update(ctx context.Context, id string, req *UpdateQuizRequest, actor Actor) (*QuizResponse, error)
	Delete(ctx context.Context, id string, actor Actor) error

	Publish(ctx context.Context, id string, actor Actor) error
	Unpublish(ctx context.Context, id string, actor Actor) error

	List(ctx context.Context, filters repositories.QuizFilters, actor Actor) (*QuizListResponse, error)
	GetStats(ctx context.Context, id string, actor Actor) (*repositories.QuizStats, error)
}

type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest, actor Actor) (*QuestionResponse, error)
	GetByID(ctx context.Context, id string, actor Actor) (*QuestionResponse, error)
	Update(ctx context.Context, id string, req *UpdateQuestionRequest, actor Actor) (*QuestionResponse, error)
	Delete(ctx context.Context, id string, actor Actor) error

	List(ctx context.Context, filters repositories.QuestionFilters, actor Actor) (*QuestionListResponse, error)
	Sample(ctx context.Context, filters repositories.SampleFilters, actor Actor) ([]*models.Question, error)
}

type TrainingService interface {
	GetByID(ctx context.Context, id string) (*models.Training, error)
	List(ctx context.Context, limit, offset int) ([]*models.Training, int64, error)
	GetChapters(ctx context.Context, trainingID string) ([]*models.Chapter, error)
}

type NotificationEventService interface {
	// NotifySessionCompleted informs the quiz creator and training teachers
	// that a session finished. Failures are logged, never returned to the
	// submit path.
	NotifySessionCompleted(ctx context.Context, session *models.QuizSession, quiz *models.Quiz) error
	SendBulkNotification(ctx context.Context, userIDs []string, notification *NotificationRequest) error
}

type ImportExportService interface {
	ImportQuestions(ctx context.Context, chapterID string, data []byte, actor Actor) (*ImportResult, error)
	ExportQuestions(ctx context.Context, chapterID string, actor Actor) ([]byte, error)
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Session() SessionService
	Quiz() QuizService
	Question() QuestionService
	Training() TrainingService
	Notification() NotificationEventService
	ImportExport() ImportExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
