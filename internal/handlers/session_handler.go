package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *validator.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      validator,
	}
}

// StartSession starts a new quiz session
// @Summary Start quiz session
// @Description Starts a session for a quiz and returns the redacted question set
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.StartSessionRequest true "Start session data"
// @Success 201 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	h.LogRequest(c, "Starting quiz session")

	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if errs := h.validator.Validate(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs,
		})
		return
	}

	actor := actorOrGuestFromContext(c)
	session, err := h.sessionService.Start(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Guests need the minted id to keep their identity across requests.
	if actor.IsGuest {
		c.Header("X-Guest-ID", actor.UserID)
	}

	c.JSON(http.StatusCreated, session)
}

// SubmitSession submits all answers for a session
// @Summary Submit quiz session
// @Description Grades and finalizes a session; a session can be submitted exactly once
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param submission body services.SubmitSessionRequest true "Submission data"
// @Success 200 {object} services.SessionResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Submitting quiz session", "session_id", id)

	var req services.SubmitSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if errs := h.validator.Validate(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs,
		})
		return
	}

	actor := actorOrGuestFromContext(c)
	result, err := h.sessionService.Submit(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSession retrieves a session by ID
// @Summary Get session
// @Description Retrieves a session; takers see redacted questions until completion
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionView
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Getting quiz session", "session_id", id)

	actor := actorOrGuestFromContext(c)
	session, err := h.sessionService.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ListSessions lists sessions visible to the caller
// @Summary List sessions
// @Description Lists sessions with optional filtering
// @Tags sessions
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param quiz_id query string false "Quiz ID"
// @Param completed query bool false "Completion state"
// @Success 200 {object} services.SessionListResponse
// @Failure 401 {object} ErrorResponse
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	h.LogRequest(c, "Listing quiz sessions")

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	filters := h.parseSessionFilters(c)
	response, err := h.sessionService.List(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteSession deletes a session
// @Summary Delete session
// @Description Deletes a session; owners may delete only while in progress
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting quiz session", "session_id", id)

	actor := actorOrGuestFromContext(c)
	if err := h.sessionService.Delete(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session deleted successfully",
	})
}

func (h *SessionHandler) parseSessionFilters(c *gin.Context) repositories.SessionFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	filters := repositories.SessionFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if quizID := strings.TrimSpace(c.Query("quiz_id")); validator.IsValidID(quizID) {
		filters.QuizID = &quizID
	}
	if completedStr := c.Query("completed"); completedStr != "" {
		completed := completedStr == "true"
		filters.IsCompleted = &completed
	}
	if sortBy := c.Query("sort_by"); sortBy != "" {
		filters.SortBy = sortBy
	}
	if sortOrder := c.Query("sort_order"); sortOrder != "" {
		filters.SortOrder = sortOrder
	}

	return filters
}
