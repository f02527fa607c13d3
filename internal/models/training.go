package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Training struct {
	ID          string        `json:"id" gorm:"primaryKey;size:36"`
	Title       LocalizedText `json:"title" gorm:"type:jsonb;not null"`
	Slug        string        `json:"slug" gorm:"uniqueIndex;not null;size:120"`
	Description LocalizedText `json:"description" gorm:"type:jsonb"`

	// TeacherIDs is the set of users allowed to see sessions run against
	// quizzes of this training. []string stored as JSONB.
	TeacherIDs datatypes.JSONSlice[string] `json:"teacher_ids" gorm:"type:jsonb"`

	IsPublished bool   `json:"is_published" gorm:"default:false;index"`
	CreatedBy   string `json:"created_by" gorm:"not null;index;size:36"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Chapters []Chapter `json:"chapters,omitempty" gorm:"foreignKey:TrainingID"`
}

func (Training) TableName() string {
	return "trainings"
}

// HasTeacher reports whether userID is listed as a teacher of the training.
func (t *Training) HasTeacher(userID string) bool {
	for _, id := range t.TeacherIDs {
		if id == userID {
			return true
		}
	}
	return false
}

type Chapter struct {
	ID         string        `json:"id" gorm:"primaryKey;size:36"`
	TrainingID string        `json:"training_id" gorm:"not null;index;size:36"`
	Title      LocalizedText `json:"title" gorm:"type:jsonb;not null"`
	Position   int           `json:"position" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Training *Training `json:"training,omitempty" gorm:"foreignKey:TrainingID"`
}

func (Chapter) TableName() string {
	return "chapters"
}
