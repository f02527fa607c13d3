package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionKind string

const (
	MultipleChoice QuestionKind = "multiple_choice"
	TrueFalse      QuestionKind = "true_false"
	NumericFormula QuestionKind = "numeric_formula"
)

func (k QuestionKind) Valid() bool {
	switch k {
	case MultipleChoice, TrueFalse, NumericFormula:
		return true
	}
	return false
}

// UsesChoices reports whether the kind grades against a choice set rather
// than a formula string.
func (k QuestionKind) UsesChoices() bool {
	return k == MultipleChoice || k == TrueFalse
}

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

// Media is an illustration attached to a question. AltText is mandatory for
// images and optional otherwise; NewMedia enforces that once, at
// construction.
type Media struct {
	Kind    MediaKind `json:"kind"`
	URL     string    `json:"url"`
	AltText string    `json:"alt_text,omitempty"`
}

var ErrImageAltTextRequired = errors.New("image media requires alt text")

func NewMedia(kind MediaKind, url, altText string) (*Media, error) {
	if kind == MediaImage && altText == "" {
		return nil, ErrImageAltTextRequired
	}
	return &Media{Kind: kind, URL: url, AltText: altText}, nil
}

type Question struct {
	ID        string       `json:"id" gorm:"primaryKey;size:36"`
	ChapterID string       `json:"chapter_id" gorm:"not null;index;size:36"`
	Kind      QuestionKind `json:"kind" gorm:"not null;index;size:30"`

	Prompt     LocalizedText               `json:"prompt" gorm:"type:jsonb;not null"`
	Difficulty DifficultyLevel             `json:"difficulty" gorm:"default:medium;index;size:10"`
	Tags       datatypes.JSONSlice[string] `json:"tags" gorm:"type:jsonb"`

	// Content carries exactly one schema per kind: ChoiceContent for
	// multiple_choice and true_false, FormulaContent for numeric_formula.
	Content datatypes.JSON `json:"content" gorm:"type:jsonb;not null"`

	Media       *Media         `json:"media,omitempty" gorm:"type:jsonb;serializer:json"`
	Explanation *LocalizedText `json:"explanation,omitempty" gorm:"type:jsonb"`

	// DefaultPointValue is the weight a quiz manifest row gets when the
	// author does not override it.
	DefaultPointValue float64 `json:"default_point_value" gorm:"default:1"`

	CreatedBy string         `json:"created_by" gorm:"not null;index;size:36"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Chapter *Chapter `json:"chapter,omitempty" gorm:"foreignKey:ChapterID"`
}

func (Question) TableName() string {
	return "questions"
}

// ===== QUESTION CONTENT SCHEMAS =====

type Choice struct {
	ID        string        `json:"id"`
	Text      LocalizedText `json:"text"`
	IsCorrect bool          `json:"is_correct"`
}

type ChoiceContent struct {
	Choices []Choice `json:"choices"`
}

// CorrectTexts returns the language-resolved texts of the correct choices.
func (c ChoiceContent) CorrectTexts(lang string) []string {
	var texts []string
	for _, choice := range c.Choices {
		if choice.IsCorrect {
			texts = append(texts, choice.Text.Resolve(lang))
		}
	}
	return texts
}

type FormulaContent struct {
	CorrectAnswerFormula string `json:"correct_answer_formula"`
	Unit                 *string `json:"unit,omitempty"`
}

// ChoiceContent decodes the JSONB content for choice-based kinds.
func (q *Question) ChoiceContent() (*ChoiceContent, error) {
	if !q.Kind.UsesChoices() {
		return nil, fmt.Errorf("question %s has kind %s, not a choice kind", q.ID, q.Kind)
	}
	var content ChoiceContent
	if err := json.Unmarshal(q.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to decode choice content for question %s: %w", q.ID, err)
	}
	return &content, nil
}

// FormulaContent decodes the JSONB content for numeric_formula questions.
func (q *Question) FormulaContent() (*FormulaContent, error) {
	if q.Kind != NumericFormula {
		return nil, fmt.Errorf("question %s has kind %s, not numeric_formula", q.ID, q.Kind)
	}
	var content FormulaContent
	if err := json.Unmarshal(q.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to decode formula content for question %s: %w", q.ID, err)
	}
	return &content, nil
}

// ValidateContent checks that the stored content matches the question kind:
// choice kinds need at least one choice and at least one correct choice,
// true/false exactly two choices, numeric_formula a non-empty formula.
func (q *Question) ValidateContent() error {
	switch {
	case q.Kind.UsesChoices():
		content, err := q.ChoiceContent()
		if err != nil {
			return err
		}
		if len(content.Choices) == 0 {
			return fmt.Errorf("question %s has no choices", q.ID)
		}
		if q.Kind == TrueFalse && len(content.Choices) != 2 {
			return fmt.Errorf("true/false question %s must have exactly 2 choices, got %d", q.ID, len(content.Choices))
		}
		correct := 0
		for _, choice := range content.Choices {
			if choice.IsCorrect {
				correct++
			}
		}
		if correct == 0 {
			return fmt.Errorf("question %s has no correct choice", q.ID)
		}
		return nil
	case q.Kind == NumericFormula:
		content, err := q.FormulaContent()
		if err != nil {
			return err
		}
		if content.CorrectAnswerFormula == "" {
			return fmt.Errorf("question %s has an empty answer formula", q.ID)
		}
		return nil
	default:
		return fmt.Errorf("question %s has unknown kind %q", q.ID, q.Kind)
	}
}
