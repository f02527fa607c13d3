package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizType string

const (
	QuizFormative QuizType = "formative"
	QuizSummative QuizType = "summative"
	QuizRevision  QuizType = "revision"
)

func (t QuizType) Valid() bool {
	switch t {
	case QuizFormative, QuizSummative, QuizRevision:
		return true
	}
	return false
}

// PassThreshold is the fraction of the maximum raw score required to pass.
// It applies uniformly to every quiz.
const PassThreshold = 0.70

type Quiz struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	TrainingID string `json:"training_id" gorm:"not null;index;size:36"`
	CreatedBy  string `json:"created_by" gorm:"not null;index;size:36"`

	Title       LocalizedText `json:"title" gorm:"type:jsonb;not null"`
	Description LocalizedText `json:"description" gorm:"type:jsonb"`
	QuizType    QuizType      `json:"quiz_type" gorm:"not null;index;size:20"`

	// Revision quizzes are personal study aids and never leave the
	// unpublished state.
	IsPublished bool `json:"is_published" gorm:"default:false;index"`
	IsPublic    bool `json:"is_public" gorm:"default:false"`

	Deadline        *time.Time `json:"deadline"`
	DurationMinutes *int       `json:"duration_minutes"`

	// AllowedAttempts caps completed sessions per identity; nil means
	// unlimited.
	AllowedAttempts *int `json:"allowed_attempts"`

	// GlobalScore is the scale final session scores are projected onto.
	GlobalScore float64 `json:"global_score" gorm:"not null;default:20"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Training  *Training      `json:"training,omitempty" gorm:"foreignKey:TrainingID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// MaxPossibleScore is the sum of manifest point values.
func (q *Quiz) MaxPossibleScore() float64 {
	var total float64
	for _, qq := range q.Questions {
		total += qq.PointValue
	}
	return total
}

// QuizQuestion is a manifest row binding a question into a quiz with a
// position and a point value.
type QuizQuestion struct {
	ID         string  `json:"id" gorm:"primaryKey;size:36"`
	QuizID     string  `json:"quiz_id" gorm:"not null;index:idx_quiz_question,unique;size:36"`
	QuestionID string  `json:"question_id" gorm:"not null;index:idx_quiz_question,unique;size:36"`
	Position   int     `json:"position" gorm:"not null"`
	PointValue float64 `json:"point_value" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Question *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
