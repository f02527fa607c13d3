package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

const (
	notificationTopic = "quiz.notifications"

	eventSessionCompleted = "session.completed"
	eventBulkNotification = "system.bulk_notification"
)

// notificationEventService publishes notification events to the message
// broker; an external notification service materializes them for users.
type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewNotificationEventService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) NotificationEventService {
	return &notificationEventService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
	}
}

// SessionCompletedEvent is the payload of a session.completed event.
type SessionCompletedEvent struct {
	SessionID            string             `json:"session_id"`
	QuizID               string             `json:"quiz_id"`
	QuizTitle            string             `json:"quiz_title"`
	TakerID              string             `json:"taker_id"`
	TakerName            string             `json:"taker_name,omitempty"`
	IsGuest              bool               `json:"is_guest"`
	AttemptNumber        int                `json:"attempt_number"`
	FinalCalculatedScore float64            `json:"final_calculated_score"`
	QuizGlobalScore      float64            `json:"quiz_global_score"`
	PassStatus           *models.PassStatus `json:"pass_status"`
	CompletedAt          *time.Time         `json:"completed_at"`
	RecipientIDs         []string           `json:"recipient_ids"`
}

// BulkNotificationEvent is the payload of a system.bulk_notification event.
type BulkNotificationEvent struct {
	UserIDs      []string                    `json:"user_ids"`
	Type         models.NotificationType     `json:"notification_type"`
	Title        string                      `json:"title"`
	Message      string                      `json:"message"`
	Priority     models.NotificationPriority `json:"priority"`
	Data         map[string]interface{}      `json:"data,omitempty"`
	DispatchedAt time.Time                   `json:"dispatched_at"`
}

func (s *notificationEventService) NotifySessionCompleted(ctx context.Context, session *models.QuizSession, quiz *models.Quiz) error {
	recipients, err := s.completionRecipients(ctx, quiz)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		s.logger.DebugContext(ctx, "no recipients for session completion", "session_id", session.ID)
		return nil
	}

	payload := &SessionCompletedEvent{
		SessionID:            session.ID,
		QuizID:               quiz.ID,
		QuizTitle:            quiz.Title.Resolve(session.Language),
		TakerID:              session.IdentityID(),
		TakerName:            s.takerName(ctx, session),
		IsGuest:              session.GuestID != nil,
		AttemptNumber:        session.AttemptNumber,
		FinalCalculatedScore: session.FinalCalculatedScore,
		QuizGlobalScore:      session.QuizGlobalScore,
		PassStatus:           session.PassStatus,
		CompletedAt:          session.CompletedAt,
		RecipientIDs:         recipients,
	}

	event := events.NewEvent(eventSessionCompleted, payload)
	if err := s.eventPublisher.Publish(ctx, notificationTopic, event); err != nil {
		return fmt.Errorf("failed to publish session completion: %w", err)
	}

	s.logger.InfoContext(ctx, "session completion published",
		"session_id", session.ID,
		"quiz_id", quiz.ID,
		"recipients", len(recipients))
	return nil
}

func (s *notificationEventService) SendBulkNotification(ctx context.Context, userIDs []string, notification *NotificationRequest) error {
	if len(userIDs) == 0 {
		return fmt.Errorf("%w: no recipients", ErrValidationFailed)
	}
	if notification == nil || notification.Title == "" {
		return fmt.Errorf("%w: notification title is required", ErrValidationFailed)
	}

	payload := &BulkNotificationEvent{
		UserIDs:      userIDs,
		Type:         notification.Type,
		Title:        notification.Title,
		Message:      notification.Message,
		Priority:     notification.Priority,
		Data:         notification.Data,
		DispatchedAt: time.Now().UTC(),
	}

	event := events.NewEvent(eventBulkNotification, payload)
	if err := s.eventPublisher.Publish(ctx, notificationTopic, event); err != nil {
		return fmt.Errorf("failed to publish bulk notification: %w", err)
	}

	s.logger.InfoContext(ctx, "bulk notification published",
		"type", notification.Type,
		"recipients", len(userIDs))
	return nil
}

// takerName resolves the taker's display name best effort; the event stays
// useful without it.
func (s *notificationEventService) takerName(ctx context.Context, session *models.QuizSession) string {
	if session.GuestID != nil {
		if session.GuestName != nil {
			return *session.GuestName
		}
		return ""
	}
	if session.UserID == nil {
		return ""
	}
	user, err := s.repo.User().GetByID(ctx, *session.UserID)
	if err != nil {
		s.logger.DebugContext(ctx, "taker lookup failed", "user_id", *session.UserID, "error", err)
		return ""
	}
	return user.FullName
}

// completionRecipients collects the quiz creator plus the teachers of its
// training, deduplicated, excluding empty ids.
func (s *notificationEventService) completionRecipients(ctx context.Context, quiz *models.Quiz) ([]string, error) {
	seen := make(map[string]bool)
	var recipients []string

	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		recipients = append(recipients, id)
	}

	add(quiz.CreatedBy)

	training, err := s.repo.Training().GetByID(ctx, nil, quiz.TrainingID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return recipients, nil
		}
		return nil, wrapStorageError("get training", err)
	}
	for _, teacherID := range training.TeacherIDs {
		add(teacherID)
	}

	return recipients, nil
}
