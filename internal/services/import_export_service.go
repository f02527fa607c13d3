package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

const questionSheet = "Questions"

// Spreadsheet layout, one question per row. Choices are encoded as
// "text|correct" pairs separated by ';', e.g. "Paris|1;London|0".
var questionColumns = []string{
	"Kind", "Prompt (en)", "Difficulty", "Point Value",
	"Choices", "Formula", "Unit", "Tags", "Explanation (en)",
}

type importExportService struct {
	repo     repositories.Repository
	logger   *slog.Logger
	business *validator.BusinessValidator
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger) ImportExportService {
	return &importExportService{
		repo:     repo,
		logger:   logger,
		business: validator.NewBusinessValidator(),
	}
}

func (s *importExportService) ImportQuestions(ctx context.Context, chapterID string, data []byte, actor Actor) (*ImportResult, error) {
	if actor.IsGuest || actor.Role == models.RoleStudent {
		return nil, NewPermissionError(actor.UserID, chapterID, "question", "import", "only teachers and staff may import questions")
	}
	if !validator.IsValidID(chapterID) {
		return nil, ErrInvalidIDFormat
	}

	chapter, err := s.repo.Chapter().GetByID(ctx, nil, chapterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, wrapStorageError("get chapter", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid spreadsheet", ErrValidationFailed)
	}
	defer file.Close()

	rows, err := file.GetRows(questionSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q not found", ErrValidationFailed, questionSheet)
	}

	result := &ImportResult{}
	var questions []*models.Question

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		question, err := s.parseRow(row, chapter.ID, actor.UserID)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		questions = append(questions, question)
	}

	if len(questions) > 0 {
		if err := s.repo.Question().CreateBatch(ctx, nil, questions); err != nil {
			return nil, wrapStorageError("create questions", err)
		}
	}
	result.Imported = len(questions)

	s.logger.Info("Questions imported",
		"chapter_id", chapterID,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"actor_id", actor.UserID)
	return result, nil
}

func (s *importExportService) ExportQuestions(ctx context.Context, chapterID string, actor Actor) ([]byte, error) {
	if actor.IsGuest || actor.Role == models.RoleStudent {
		return nil, NewPermissionError(actor.UserID, chapterID, "question", "export", "question bodies carry answer keys")
	}
	if !validator.IsValidID(chapterID) {
		return nil, ErrInvalidIDFormat
	}

	if _, err := s.repo.Chapter().GetByID(ctx, nil, chapterID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, wrapStorageError("get chapter", err)
	}

	questions, _, err := s.repo.Question().GetByChapter(ctx, nil, chapterID, repositories.QuestionFilters{})
	if err != nil {
		return nil, wrapStorageError("get questions", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(questionSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	for col, name := range questionColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(questionSheet, cell, name); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, question := range questions {
		values, err := s.renderRow(question)
		if err != nil {
			return nil, err
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := file.SetCellValue(questionSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

// parseRow builds a question from one spreadsheet row; the content is
// validated the same way API-created questions are.
func (s *importExportService) parseRow(row []string, chapterID, createdBy string) (*models.Question, error) {
	get := func(col int) string {
		if col < len(row) {
			return strings.TrimSpace(row[col])
		}
		return ""
	}

	kind := models.QuestionKind(get(0))
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown question kind %q", get(0))
	}

	prompt := get(1)
	if prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	difficulty := models.DifficultyLevel(get(2))
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	pointValue := 1.0
	if raw := get(3); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid point value %q", raw)
		}
		pointValue = parsed
	}

	var content interface{}
	switch {
	case kind.UsesChoices():
		choices, err := parseChoices(get(4))
		if err != nil {
			return nil, err
		}
		content = models.ChoiceContent{Choices: choices}
	default:
		formula := get(5)
		if formula == "" {
			return nil, fmt.Errorf("formula is required for %s questions", kind)
		}
		fc := models.FormulaContent{CorrectAnswerFormula: formula}
		if unit := get(6); unit != "" {
			fc.Unit = &unit
		}
		content = fc
	}

	data, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content: %w", err)
	}

	question := &models.Question{
		ID:                uuid.NewString(),
		ChapterID:         chapterID,
		Kind:              kind,
		Prompt:            models.LocalizedText{models.DefaultLanguage: prompt},
		Difficulty:        difficulty,
		Content:           data,
		DefaultPointValue: pointValue,
		CreatedBy:         createdBy,
	}

	if tags := get(7); tags != "" {
		for _, tag := range strings.Split(tags, ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				question.Tags = append(question.Tags, tag)
			}
		}
	}
	if explanation := get(8); explanation != "" {
		text := models.LocalizedText{models.DefaultLanguage: explanation}
		question.Explanation = &text
	}

	if err := question.ValidateContent(); err != nil {
		return nil, err
	}
	return question, nil
}

func parseChoices(raw string) ([]models.Choice, error) {
	if raw == "" {
		return nil, fmt.Errorf("choices are required for choice questions")
	}
	var choices []models.Choice
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "|", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("choice %q must be text|correct", pair)
		}
		correct := parts[1] == "1" || strings.EqualFold(parts[1], "true")
		choices = append(choices, models.Choice{
			ID:        uuid.NewString(),
			Text:      models.LocalizedText{models.DefaultLanguage: strings.TrimSpace(parts[0])},
			IsCorrect: correct,
		})
	}
	return choices, nil
}

func (s *importExportService) renderRow(question *models.Question) ([]interface{}, error) {
	values := make([]interface{}, len(questionColumns))
	values[0] = string(question.Kind)
	values[1] = question.Prompt.Resolve(models.DefaultLanguage)
	values[2] = string(question.Difficulty)
	values[3] = question.DefaultPointValue

	switch {
	case question.Kind.UsesChoices():
		content, err := question.ChoiceContent()
		if err != nil {
			return nil, err
		}
		pairs := make([]string, 0, len(content.Choices))
		for _, choice := range content.Choices {
			flag := "0"
			if choice.IsCorrect {
				flag = "1"
			}
			pairs = append(pairs, choice.Text.Resolve(models.DefaultLanguage)+"|"+flag)
		}
		values[4] = strings.Join(pairs, ";")
	default:
		content, err := question.FormulaContent()
		if err != nil {
			return nil, err
		}
		values[5] = content.CorrectAnswerFormula
		if content.Unit != nil {
			values[6] = *content.Unit
		}
	}

	if len(question.Tags) > 0 {
		values[7] = strings.Join(question.Tags, ";")
	}
	if question.Explanation != nil {
		values[8] = question.Explanation.Resolve(models.DefaultLanguage)
	}
	return values, nil
}
