package repositories

import (
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	TrainingID  *string          `json:"training_id"`
	QuizType    *models.QuizType `json:"quiz_type"`
	IsPublished *bool            `json:"is_published"`
	CreatedBy   *string          `json:"created_by"`
	DateFrom    *time.Time       `json:"date_from"`
	DateTo      *time.Time       `json:"date_to"`
	Limit       int              `json:"limit"`
	Offset      int              `json:"offset"`
	SortBy      string           `json:"sort_by"`    // "created_at", "deadline"
	SortOrder   string           `json:"sort_order"` // "asc", "desc"
}

type QuestionFilters struct {
	ChapterID  *string                 `json:"chapter_id"`
	Kind       *models.QuestionKind    `json:"kind"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	CreatedBy  *string                 `json:"created_by"`
	Tags       []string                `json:"tags"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
	SortBy     string                  `json:"sort_by"`
	SortOrder  string                  `json:"sort_order"`
}

// SampleFilters drives random question sampling for generated quizzes.
type SampleFilters struct {
	ChapterIDs []string                `json:"chapter_ids"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	Kind       *models.QuestionKind    `json:"kind"`
	ExcludeIDs []string                `json:"exclude_ids"`
	Count      int                     `json:"count"`
}

type SessionFilters struct {
	QuizID      *string    `json:"quiz_id"`
	UserID      *string    `json:"user_id"`
	GuestID     *string    `json:"guest_id"`
	IsCompleted *bool      `json:"is_completed"`
	DateFrom    *time.Time `json:"date_from"`
	DateTo      *time.Time `json:"date_to"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
	SortBy      string     `json:"sort_by"`
	SortOrder   string     `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type QuizStats struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	AverageScore      float64 `json:"average_score"`
	PassRate          float64 `json:"pass_rate"`
	QuestionCount     int     `json:"question_count"`
	MaxPossibleScore  float64 `json:"max_possible_score"`
}
