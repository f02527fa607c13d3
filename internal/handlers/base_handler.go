package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

// ErrorResponse is the common error payload
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse is the common success payload for operations without a
// dedicated response body
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the logger and the error mapping shared by all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	logger := utils.LoggerFromContext(c.Request.Context(), h.logger)
	logger.Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	logger := utils.LoggerFromContext(c.Request.Context(), h.logger)
	logger.Error(msg, append(args, "error", err)...)
}

// parseIDParam validates a path parameter as a UUID or 24-hex entity id.
// It writes the 400 response itself; callers return on "".
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) string {
	id := c.Param(param)
	if !validator.IsValidID(id) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "id must be a UUID or a 24-character hex string",
		})
		return ""
	}
	return id
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Typed errors first
	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule": businessRuleError.Rule,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	// Not found
	case errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrTrainingNotFound),
		errors.Is(err, services.ErrChapterNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})

	// Auth
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication required",
		})
	case errors.Is(err, services.ErrAttemptsExceeded):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Maximum attempts reached",
		})
	case errors.Is(err, services.ErrQuizNotPublished):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Quiz is not published",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden - insufficient permissions",
		})

	// Conflicts
	case errors.Is(err, services.ErrSessionAlreadyCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Session has already been submitted",
		})
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrDuplicateSlug):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Resource conflict",
		})

	// Gone
	case errors.Is(err, services.ErrQuizDeadlinePassed):
		c.JSON(http.StatusGone, ErrorResponse{
			Message: "Quiz deadline has passed",
		})

	// Unprocessable
	case errors.Is(err, services.ErrRevisionNotPublishable):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Revision quizzes cannot be published",
		})

	// Bad request
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidIDFormat),
		errors.Is(err, services.ErrInvalidQuiz),
		errors.Is(err, services.ErrInvalidQuestion),
		errors.Is(err, services.ErrInsufficientQuestions),
		errors.Is(err, services.ErrSessionNotCompleted):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})

	// Infrastructure
	case errors.Is(err, services.ErrStorageUnavailable):
		h.LogError(c, err, "Storage unavailable")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: "Service temporarily unavailable",
		})

	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
