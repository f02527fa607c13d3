package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
)

type TrainingHandler struct {
	BaseHandler
	trainingService services.TrainingService
}

func NewTrainingHandler(trainingService services.TrainingService, logger utils.Logger) *TrainingHandler {
	return &TrainingHandler{
		BaseHandler:     NewBaseHandler(logger),
		trainingService: trainingService,
	}
}

// GetTraining retrieves a training by ID
// @Summary Get training
// @Description Retrieves a training by its ID
// @Tags trainings
// @Accept json
// @Produce json
// @Param id path string true "Training ID"
// @Success 200 {object} models.Training
// @Failure 404 {object} ErrorResponse
// @Router /trainings/{id} [get]
func (h *TrainingHandler) GetTraining(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Getting training", "training_id", id)

	training, err := h.trainingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, training)
}

// ListTrainings lists trainings
// @Summary List trainings
// @Description Lists trainings with pagination
// @Tags trainings
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} map[string]interface{}
// @Router /trainings [get]
func (h *TrainingHandler) ListTrainings(c *gin.Context) {
	h.LogRequest(c, "Listing trainings")

	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	trainings, total, err := h.trainingService.List(c.Request.Context(), size, (page-1)*size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"trainings": trainings,
		"total":     total,
		"page":      page,
		"size":      size,
	})
}

// GetTrainingChapters lists the chapters of a training
// @Summary Get training chapters
// @Description Lists the chapters of a training in position order
// @Tags trainings
// @Accept json
// @Produce json
// @Param id path string true "Training ID"
// @Success 200 {object} SuccessResponse{data=[]models.Chapter}
// @Failure 404 {object} ErrorResponse
// @Router /trainings/{id}/chapters [get]
func (h *TrainingHandler) GetTrainingChapters(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Getting training chapters", "training_id", id)

	chapters, err := h.trainingService.GetChapters(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Chapters retrieved successfully",
		Data:    chapters,
	})
}
