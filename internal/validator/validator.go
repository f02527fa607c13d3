package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// hex24Pattern matches legacy 24-character hexadecimal identifiers.
var hex24Pattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValidID reports whether id is a UUID or a 24-hex identifier. Every
// external id is checked with this before it reaches storage.
func IsValidID(id string) bool {
	if id == "" {
		return false
	}
	if _, err := uuid.Parse(id); err == nil {
		return true
	}
	return hex24Pattern.MatchString(id)
}

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator wraps go-playground validator with the service's custom rules.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerRules()

	return v
}

// Validate validates a struct and translates failures.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	return ToValidationErrors(err)
}

// ToValidationErrors converts validator library errors into the service's
// error shape.
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errors = append(errors, ValidationError{
				Field:   fe.Field(),
				Message: errorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errors
	}
	return ValidationErrors{{Field: "", Message: err.Error()}}
}

func (v *Validator) registerRules() {
	v.validate.RegisterValidation("entity_id", func(fl validator.FieldLevel) bool {
		return IsValidID(fl.Field().String())
	})

	v.validate.RegisterValidation("quiz_type", func(fl validator.FieldLevel) bool {
		return models.QuizType(fl.Field().String()).Valid()
	})

	v.validate.RegisterValidation("question_kind", func(fl validator.FieldLevel) bool {
		return models.QuestionKind(fl.Field().String()).Valid()
	})

	v.validate.RegisterValidation("difficulty_level", func(fl validator.FieldLevel) bool {
		level := models.DifficultyLevel(fl.Field().String())
		return level == models.DifficultyEasy || level == models.DifficultyMedium || level == models.DifficultyHard
	})

	// Global score must be a positive scale (e.g. 20 or 100).
	v.validate.RegisterValidation("global_score", func(fl validator.FieldLevel) bool {
		score := fl.Field().Float()
		return score > 0 && score <= 1000
	})

	v.validate.RegisterValidation("media_kind", func(fl validator.FieldLevel) bool {
		kind := models.MediaKind(fl.Field().String())
		return kind == models.MediaImage || kind == models.MediaAudio || kind == models.MediaVideo
	})
}

// errorMessage returns user-friendly error messages
func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "entity_id":
		return "must be a UUID or a 24-character hex id"
	case "quiz_type":
		return "must be formative, summative, or revision"
	case "question_kind":
		return "must be a valid question kind"
	case "difficulty_level":
		return "must be easy, medium, or hard"
	case "global_score":
		return "must be a positive score scale"
	case "media_kind":
		return "must be image, audio, or video"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
