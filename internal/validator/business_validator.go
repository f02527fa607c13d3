package validator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// BusinessValidator handles rules that plain struct tags cannot express.
type BusinessValidator struct {
	validator *Validator
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{validator: New()}
}

// ValidateQuizCreate validates quiz creation business rules
func (bv *BusinessValidator) ValidateQuizCreate(req *QuizCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.validator.Validate(req)...)

	switch req.Method {
	case "select":
		if len(req.Questions) == 0 {
			errors = append(errors, ValidationError{
				Field:   "questions",
				Message: "at least one question is required",
				Rule:    "business_logic",
			})
		}
	case "generate":
		if len(req.ChapterIDs) == 0 {
			errors = append(errors, ValidationError{
				Field:   "chapter_ids",
				Message: "at least one chapter is required",
				Rule:    "business_logic",
			})
		}
		if req.QuestionCount < 1 {
			errors = append(errors, ValidationError{
				Field:   "question_count",
				Message: "must be at least 1",
				Value:   req.QuestionCount,
				Rule:    "business_logic",
			})
		}
	}

	if req.Deadline != nil && req.Deadline.Before(time.Now()) {
		errors = append(errors, ValidationError{
			Field:   "deadline",
			Message: "must be in the future",
			Value:   req.Deadline,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateQuestionCreate validates question creation business rules
func (bv *BusinessValidator) ValidateQuestionCreate(req *QuestionCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.validator.Validate(req)...)
	errors = append(errors, bv.validateMedia(req.Media)...)
	errors = append(errors, bv.validateContent(req.Kind, req.Content)...)

	for i, tag := range req.Tags {
		if strings.TrimSpace(tag) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("tags[%d]", i),
				Message: "tag cannot be empty",
				Value:   tag,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// validateMedia enforces the image alt-text rule.
func (bv *BusinessValidator) validateMedia(media *MediaRequest) ValidationErrors {
	if media == nil {
		return nil
	}
	if media.Kind == models.MediaImage && strings.TrimSpace(media.AltText) == "" {
		return ValidationErrors{{
			Field:   "media.alt_text",
			Message: "is required for image media",
			Rule:    "business_logic",
		}}
	}
	return nil
}

// validateContent checks the kind-specific content schema.
func (bv *BusinessValidator) validateContent(kind models.QuestionKind, content interface{}) ValidationErrors {
	data, err := json.Marshal(content)
	if err != nil {
		return ValidationErrors{{Field: "content", Message: "is not valid JSON", Rule: "business_logic"}}
	}

	question := &models.Question{Kind: kind, Content: data}
	if err := question.ValidateContent(); err != nil {
		return ValidationErrors{{
			Field:   "content",
			Message: err.Error(),
			Rule:    "business_logic",
		}}
	}
	return nil
}

// ValidateSessionSubmit validates submission shape rules
func (bv *BusinessValidator) ValidateSessionSubmit(req *SessionSubmitRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.validator.Validate(req)...)

	seen := make(map[string]bool, len(req.Responses))
	for i, response := range req.Responses {
		if seen[response.QuestionID] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("responses[%d].question_id", i),
				Message: "duplicate question in submission",
				Value:   response.QuestionID,
				Rule:    "business_logic",
			})
		}
		seen[response.QuestionID] = true
	}

	return errors
}
