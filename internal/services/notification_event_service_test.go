package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

func TestNotificationEventService_PublishEvents(t *testing.T) {
	logger := testLogger()
	mockPublisher := events.NewMockEventPublisher(logger)
	v := validator.New()

	ctx := context.Background()

	t.Run("SendBulkNotification", func(t *testing.T) {
		service := &notificationEventService{
			repo:           newMockRepository(),
			eventPublisher: mockPublisher,
			logger:         logger,
			validator:      v,
		}

		userIDs := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
		notification := &NotificationRequest{
			Type:     models.NotificationQuizPublished,
			Title:    "New quiz available",
			Message:  "A new quiz was published in your training",
			Priority: models.PriorityHigh,
		}

		err := service.SendBulkNotification(ctx, userIDs, notification)
		if err != nil {
			t.Fatalf("Failed to send bulk notification: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.Type != "system.bulk_notification" {
			t.Errorf("Expected event type 'system.bulk_notification', got %s", event.Type)
		}
		payload, ok := event.Data.(*BulkNotificationEvent)
		if !ok {
			t.Fatalf("Expected BulkNotificationEvent payload, got %T", event.Data)
		}
		if len(payload.UserIDs) != 3 {
			t.Errorf("Expected 3 recipients, got %d", len(payload.UserIDs))
		}
	})

	t.Run("Event_Structure_Validation", func(t *testing.T) {
		mockPublisher.ClearEvents()

		service := &notificationEventService{
			repo:           newMockRepository(),
			eventPublisher: mockPublisher,
			logger:         logger,
			validator:      v,
		}

		notification := &NotificationRequest{
			Type:     models.NotificationQuizDue,
			Title:    "Quiz due soon",
			Message:  "Your quiz is due in 2 hours",
			Priority: models.PriorityNormal,
		}

		err := service.SendBulkNotification(ctx, []string{uuid.NewString()}, notification)
		if err != nil {
			t.Fatalf("Failed to send notification: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.ID == "" {
			t.Error("Event ID should not be empty")
		}
		if event.Source != "quiz-service" {
			t.Errorf("Expected source 'quiz-service', got '%s'", event.Source)
		}
		if event.Version != "1.0" {
			t.Errorf("Expected version '1.0', got '%s'", event.Version)
		}
		if event.Timestamp.IsZero() {
			t.Error("Event timestamp should not be zero")
		}
	})

	t.Run("SendBulkNotification_NoRecipients", func(t *testing.T) {
		mockPublisher.ClearEvents()

		service := &notificationEventService{
			repo:           newMockRepository(),
			eventPublisher: mockPublisher,
			logger:         logger,
			validator:      v,
		}

		err := service.SendBulkNotification(ctx, nil, &NotificationRequest{Title: "x"})
		if err == nil {
			t.Fatal("Expected error for empty recipient list")
		}
		if len(mockPublisher.GetPublishedEvents()) != 0 {
			t.Error("No event should be published without recipients")
		}
	})
}

func TestNotificationEventService_NotifySessionCompleted(t *testing.T) {
	logger := testLogger()
	mockPublisher := events.NewMockEventPublisher(logger)
	ctx := context.Background()

	creatorID := uuid.NewString()
	teacherID := uuid.NewString()

	repo := newMockRepository()
	repo.training.GetByIDFn = func(id string) (*models.Training, error) {
		// The creator also teaches the training; recipients must dedup.
		return &models.Training{ID: id, TeacherIDs: []string{teacherID, creatorID}}, nil
	}

	service := &notificationEventService{
		repo:           repo,
		eventPublisher: mockPublisher,
		logger:         logger,
		validator:      validator.New(),
	}

	passed := models.PassStatusPassed
	userID := uuid.NewString()
	session := &models.QuizSession{
		ID:                   uuid.NewString(),
		QuizID:               uuid.NewString(),
		UserID:               &userID,
		Language:             "en",
		AttemptNumber:        2,
		FinalCalculatedScore: 15,
		QuizGlobalScore:      20,
		PassStatus:           &passed,
	}
	quiz := &models.Quiz{
		ID:         session.QuizID,
		TrainingID: uuid.NewString(),
		CreatedBy:  creatorID,
		Title:      models.LocalizedText{"en": "Physics basics"},
	}

	if err := service.NotifySessionCompleted(ctx, session, quiz); err != nil {
		t.Fatalf("NotifySessionCompleted failed: %v", err)
	}

	published := mockPublisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(published))
	}

	event := published[0]
	if event.Type != "session.completed" {
		t.Errorf("Expected event type 'session.completed', got %s", event.Type)
	}
	payload, ok := event.Data.(*SessionCompletedEvent)
	if !ok {
		t.Fatalf("Expected SessionCompletedEvent payload, got %T", event.Data)
	}
	if payload.SessionID != session.ID {
		t.Errorf("Expected session %s, got %s", session.ID, payload.SessionID)
	}
	if len(payload.RecipientIDs) != 2 {
		t.Fatalf("Expected 2 deduplicated recipients, got %d: %v", len(payload.RecipientIDs), payload.RecipientIDs)
	}
	if payload.RecipientIDs[0] != creatorID {
		t.Errorf("Expected creator first, got %s", payload.RecipientIDs[0])
	}
	if payload.QuizTitle != "Physics basics" {
		t.Errorf("Expected resolved quiz title, got %q", payload.QuizTitle)
	}
}
