package services

import (
	"errors"
	"fmt"
)

// ===== NOT FOUND =====

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrTrainingNotFound = errors.New("training not found")
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrSessionNotFound  = errors.New("session not found")
)

// ===== AUTH =====

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("operation not allowed")
)

// ===== VALIDATION / BUSINESS RULES =====

var (
	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidIDFormat         = errors.New("id must be a UUID or a 24-character hex string")
	ErrInvalidQuiz             = errors.New("quiz is not playable")
	ErrInvalidQuestion         = errors.New("question does not belong to the quiz")
	ErrInsufficientQuestions   = errors.New("not enough questions match the generation criteria")
	ErrRevisionNotPublishable  = errors.New("revision quizzes cannot be published")
	ErrQuizNotPublished        = errors.New("quiz is not published")
	ErrQuizDeadlinePassed      = errors.New("quiz deadline has passed")
	ErrAttemptsExceeded        = errors.New("maximum attempts reached")
	ErrSessionAlreadyCompleted = errors.New("session has already been submitted")
	ErrSessionNotCompleted     = errors.New("session is not completed")
	ErrDuplicateSlug           = errors.New("slug already in use")
	ErrConflict                = errors.New("resource conflict")
)

// ===== INFRASTRUCTURE =====

// ErrStorageUnavailable masks driver failures from callers; the cause stays
// attached for logs via errors.Unwrap.
var ErrStorageUnavailable = errors.New("storage unavailable")

// wrapStorageError attaches the driver cause to ErrStorageUnavailable.
func wrapStorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

// PermissionError carries the who/what/why of a denied operation.
type PermissionError struct {
	UserID     string
	ResourceID string
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %s: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}

// BusinessRuleError is a named rule violation with a human message.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}
