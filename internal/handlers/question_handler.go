package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
	validator       *validator.Validator
}

func NewQuestionHandler(
	questionService services.QuestionService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
		validator:       validator,
	}
}

// CreateQuestion creates a new question
// @Summary Create question
// @Description Creates a question in a chapter
// @Tags questions
// @Accept json
// @Produce json
// @Param question body services.CreateQuestionRequest true "Question data"
// @Success 201 {object} services.QuestionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// GetQuestion retrieves a question by ID
// @Summary Get question
// @Description Retrieves a question with its answer key; staff and teachers only
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} services.QuestionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Getting question", "question_id", id)

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// UpdateQuestion updates a question
// @Summary Update question
// @Description Updates question fields; content is re-validated on change
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param question body services.UpdateQuestionRequest true "Question data"
// @Success 200 {object} services.QuestionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Updating question", "question_id", id)

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion deletes a question
// @Summary Delete question
// @Description Deletes a question; blocked while any quiz manifest references it
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting question", "question_id", id)

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Question deleted successfully",
	})
}

// ListQuestions lists questions with filters
// @Summary List questions
// @Description Lists questions with optional filtering
// @Tags questions
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param chapter_id query string false "Chapter ID"
// @Param kind query string false "Question kind"
// @Param difficulty query string false "Difficulty"
// @Success 200 {object} services.QuestionListResponse
// @Failure 403 {object} ErrorResponse
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	h.LogRequest(c, "Listing questions")

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	filters := h.parseQuestionFilters(c)
	response, err := h.questionService.List(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SampleQuestions samples random questions from chapters
// @Summary Sample questions
// @Description Returns a uniform random sample of eligible questions
// @Tags questions
// @Accept json
// @Produce json
// @Param chapter_ids query string true "Comma-separated chapter IDs"
// @Param count query int true "Sample size"
// @Param difficulty query string false "Difficulty filter"
// @Success 200 {object} SuccessResponse{data=[]models.Question}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /questions/sample [get]
func (h *QuestionHandler) SampleQuestions(c *gin.Context) {
	h.LogRequest(c, "Sampling questions")

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var chapterIDs []string
	for _, id := range strings.Split(c.Query("chapter_ids"), ",") {
		id = strings.TrimSpace(id)
		if validator.IsValidID(id) {
			chapterIDs = append(chapterIDs, id)
		}
	}
	if len(chapterIDs) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "chapter_ids parameter is required",
		})
		return
	}

	filters := repositories.SampleFilters{
		ChapterIDs: chapterIDs,
		Count:      h.parseIntQuery(c, "count", 10),
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		d := models.DifficultyLevel(difficulty)
		filters.Difficulty = &d
	}

	questions, err := h.questionService.Sample(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Questions sampled successfully",
		Data:    questions,
	})
}

func (h *QuestionHandler) parseQuestionFilters(c *gin.Context) repositories.QuestionFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	filters := repositories.QuestionFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if chapterID := strings.TrimSpace(c.Query("chapter_id")); validator.IsValidID(chapterID) {
		filters.ChapterID = &chapterID
	}
	if kind := c.Query("kind"); kind != "" {
		k := models.QuestionKind(kind)
		filters.Kind = &k
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		d := models.DifficultyLevel(difficulty)
		filters.Difficulty = &d
	}
	if tags := c.Query("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filters.Tags = append(filters.Tags, tag)
			}
		}
	}
	if sortBy := c.Query("sort_by"); sortBy != "" {
		filters.SortBy = sortBy
	}
	if sortOrder := c.Query("sort_order"); sortOrder != "" {
		filters.SortOrder = sortOrder
	}

	return filters
}
