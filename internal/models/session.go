package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PassStatus string

const (
	PassStatusPassed PassStatus = "passed"
	PassStatusFailed PassStatus = "failed"
)

// QuizSession is one attempt of one identity against one quiz. Score scale
// fields are snapshotted at start so later quiz edits cannot change how a
// running session is graded.
type QuizSession struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	QuizID string `json:"quiz_id" gorm:"not null;index;size:36"`

	// Exactly one of UserID and GuestID is set. Guests carry a display
	// name alongside their opaque id.
	UserID    *string `json:"user_id" gorm:"index;size:36"`
	GuestID   *string `json:"guest_id" gorm:"index;size:36"`
	GuestName *string `json:"guest_name" gorm:"size:100"`

	Language      string `json:"language" gorm:"not null;default:en;size:10"`
	AttemptNumber int    `json:"attempt_number" gorm:"not null;default:1"`

	// Snapshot of the quiz's scoring scale at start time.
	MaxPossibleScore float64 `json:"max_possible_score" gorm:"not null"`
	QuizGlobalScore  float64 `json:"quiz_global_score" gorm:"not null"`

	TotalScoreEarned     float64     `json:"total_score_earned"`
	FinalCalculatedScore float64     `json:"final_calculated_score"`
	IsCompleted          bool        `json:"is_completed" gorm:"not null;default:false;index"`
	PassStatus           *PassStatus `json:"pass_status" gorm:"size:10"`
	DurationSeconds      int         `json:"duration_seconds"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Quiz      *Quiz             `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	Responses []SessionResponse `json:"responses,omitempty" gorm:"foreignKey:SessionID"`
}

func (QuizSession) TableName() string {
	return "quiz_sessions"
}

// IdentityID returns the user or guest id owning the session.
func (s *QuizSession) IdentityID() string {
	if s.UserID != nil {
		return *s.UserID
	}
	if s.GuestID != nil {
		return *s.GuestID
	}
	return ""
}

// OwnedBy reports whether the given user owns the session.
func (s *QuizSession) OwnedBy(userID string) bool {
	return s.UserID != nil && *s.UserID == userID
}

// SessionResponse is one answer slot of a session. Rows are created empty at
// start and filled in by submission.
type SessionResponse struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	SessionID  string `json:"session_id" gorm:"not null;index;size:36"`
	QuestionID string `json:"question_id" gorm:"not null;index;size:36"`
	Position   int    `json:"position" gorm:"not null"`

	// Answer is the submitted AnswerValue as JSONB; null until submitted.
	Answer datatypes.JSON `json:"answer" gorm:"type:jsonb"`

	IsCorrect        *bool   `json:"is_correct"`
	ScoreEarned      float64 `json:"score_earned"`
	TimeTakenSeconds int     `json:"time_taken_seconds"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SessionResponse) TableName() string {
	return "session_responses"
}

// RedactedQuestion is the view of a question handed to a test taker at
// session start: prompt and choices with all answer key material removed.
type RedactedQuestion struct {
	ID         string           `json:"id"`
	Kind       QuestionKind     `json:"kind"`
	Prompt     string           `json:"prompt"`
	Position   int              `json:"position"`
	PointValue float64          `json:"point_value"`
	Media      *Media           `json:"media,omitempty"`
	Choices    []RedactedChoice `json:"choices,omitempty"`
	Unit       *string          `json:"unit,omitempty"`
}

type RedactedChoice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
