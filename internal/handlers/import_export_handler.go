package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
)

const maxImportSize = 10 << 20 // 10 MiB

type ImportExportHandler struct {
	BaseHandler
	importExportService services.ImportExportService
}

func NewImportExportHandler(importExportService services.ImportExportService, logger utils.Logger) *ImportExportHandler {
	return &ImportExportHandler{
		BaseHandler:         NewBaseHandler(logger),
		importExportService: importExportService,
	}
}

// ImportQuestions imports questions from an Excel workbook
// @Summary Import questions
// @Description Imports questions into a chapter from an uploaded .xlsx file
// @Tags import-export
// @Accept multipart/form-data
// @Produce json
// @Param chapter_id path string true "Chapter ID"
// @Param file formData file true "Workbook (.xlsx)"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /chapters/{chapter_id}/questions/import [post]
func (h *ImportExportHandler) ImportQuestions(c *gin.Context) {
	chapterID := h.parseIDParam(c, "chapter_id")
	if chapterID == "" {
		return
	}

	h.LogRequest(c, "Importing questions", "chapter_id", chapterID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "file form field is required",
			Details: err.Error(),
		})
		return
	}
	if fileHeader.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "file too large",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "failed to open uploaded file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "failed to read uploaded file",
			Details: err.Error(),
		})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.importExportService.ImportQuestions(c.Request.Context(), chapterID, data, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportQuestions exports a chapter's questions as an Excel workbook
// @Summary Export questions
// @Description Exports all questions of a chapter as an .xlsx download
// @Tags import-export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param chapter_id path string true "Chapter ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /chapters/{chapter_id}/questions/export [get]
func (h *ImportExportHandler) ExportQuestions(c *gin.Context) {
	chapterID := h.parseIDParam(c, "chapter_id")
	if chapterID == "" {
		return
	}

	h.LogRequest(c, "Exporting questions", "chapter_id", chapterID)

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	data, err := h.importExportService.ExportQuestions(c.Request.Context(), chapterID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("questions-%s.xlsx", chapterID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
