package validator

import (
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// QuizCreateRequest represents the request structure for creating quizzes
type QuizCreateRequest struct {
	TrainingID      string               `json:"training_id" validate:"required,entity_id"`
	Title           models.LocalizedText `json:"title" validate:"required,min=1"`
	Description     models.LocalizedText `json:"description"`
	QuizType        models.QuizType      `json:"quiz_type" validate:"required,quiz_type"`
	GlobalScore     float64              `json:"global_score" validate:"required,global_score"`
	Deadline        *time.Time           `json:"deadline"`
	DurationMinutes *int                 `json:"duration_minutes" validate:"omitempty,min=1,max=600"`
	AllowedAttempts *int                 `json:"allowed_attempts" validate:"omitempty,min=1,max=100"`
	IsPublic        bool                 `json:"is_public"`

	// Method selects how the manifest is built: "select" takes the listed
	// questions, "generate" samples from chapters.
	Method string `json:"method" validate:"required,oneof=select generate"`

	// select
	Questions []QuizQuestionRequest `json:"questions" validate:"omitempty,dive"`

	// generate
	ChapterIDs    []string                `json:"chapter_ids" validate:"omitempty,dive,entity_id"`
	QuestionCount int                     `json:"question_count" validate:"omitempty,min=1,max=200"`
	Difficulty    *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	PointValue    *float64                `json:"point_value" validate:"omitempty,gt=0"`
}

// QuizQuestionRequest binds one question into a quiz manifest
type QuizQuestionRequest struct {
	QuestionID string   `json:"question_id" validate:"required,entity_id"`
	PointValue *float64 `json:"point_value" validate:"omitempty,gt=0"`
}

// QuizUpdateRequest represents the request structure for updating quizzes
type QuizUpdateRequest struct {
	Title           models.LocalizedText `json:"title" validate:"omitempty,min=1"`
	Description     models.LocalizedText `json:"description"`
	GlobalScore     *float64             `json:"global_score" validate:"omitempty,global_score"`
	Deadline        *time.Time           `json:"deadline"`
	DurationMinutes *int                 `json:"duration_minutes" validate:"omitempty,min=1,max=600"`
	AllowedAttempts *int                 `json:"allowed_attempts" validate:"omitempty,min=1,max=100"`
	IsPublic        *bool                `json:"is_public"`
}

// QuestionCreateRequest represents the request structure for creating questions
type QuestionCreateRequest struct {
	ChapterID   string                  `json:"chapter_id" validate:"required,entity_id"`
	Kind        models.QuestionKind     `json:"kind" validate:"required,question_kind"`
	Prompt      models.LocalizedText    `json:"prompt" validate:"required,min=1"`
	Difficulty  models.DifficultyLevel  `json:"difficulty" validate:"required,difficulty_level"`
	Tags        []string                `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
	Content     interface{}             `json:"content" validate:"required"`
	Media       *MediaRequest           `json:"media"`
	Explanation *models.LocalizedText   `json:"explanation"`
	PointValue  *float64                `json:"point_value" validate:"omitempty,gt=0"`
}

// QuestionUpdateRequest represents the request structure for updating questions
type QuestionUpdateRequest struct {
	Prompt      models.LocalizedText    `json:"prompt" validate:"omitempty,min=1"`
	Difficulty  *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Tags        []string                `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
	Content     interface{}             `json:"content"`
	Media       *MediaRequest           `json:"media"`
	Explanation *models.LocalizedText   `json:"explanation"`
	PointValue  *float64                `json:"point_value" validate:"omitempty,gt=0"`
}

// MediaRequest carries a media attachment; the alt-text rule for images is
// enforced by the business validator.
type MediaRequest struct {
	Kind    models.MediaKind `json:"kind" validate:"required,media_kind"`
	URL     string           `json:"url" validate:"required,url,max=500"`
	AltText string           `json:"alt_text" validate:"omitempty,max=255"`
}

// SessionStartRequest represents the request structure for starting a session
type SessionStartRequest struct {
	QuizID    string `json:"quiz_id" validate:"required,entity_id"`
	Language  string `json:"language" validate:"omitempty,min=2,max=10"`
	GuestName string `json:"guest_name" validate:"omitempty,min=1,max=100"`
}

// SessionSubmitRequest represents the request structure for submitting a session
type SessionSubmitRequest struct {
	Responses       []SessionResponseRequest `json:"responses" validate:"required,min=1,dive"`
	DurationSeconds int                      `json:"duration_seconds" validate:"min=0"`
}

// SessionResponseRequest carries one answer of a submission
type SessionResponseRequest struct {
	QuestionID       string             `json:"question_id" validate:"required,entity_id"`
	Answer           models.AnswerValue `json:"answer"`
	TimeTakenSeconds int                `json:"time_taken_seconds" validate:"min=0"`
}
