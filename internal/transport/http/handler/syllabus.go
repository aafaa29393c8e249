package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/randyf333/SylliAI/internal/app"
	"github.com/randyf333/SylliAI/internal/pkg/extract"
	"github.com/randyf333/SylliAI/internal/transport/http/middleware"
	"github.com/randyf333/SylliAI/internal/transport/http/response"
)

type SyllabusHandler struct {
	syllabusService *app.SyllabusService
}

type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

func NewSyllabusHandler(syllabusService *app.SyllabusService) *SyllabusHandler {
	return &SyllabusHandler{syllabusService: syllabusService}
}

// List serves the dashboard: every syllabus the caller owns.
func (h *SyllabusHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	syllabi, err := h.syllabusService.List(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list syllabi failed")
		return
	}
	response.OK(c, syllabi)
}

// Create uploads a syllabus, either a file or pasted text, selected by the
// upload_type form field.
func (h *SyllabusHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	courseName := c.PostForm("course_name")

	if c.PostForm("upload_type") == "file" {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no file part")
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read uploaded file failed")
			return
		}
		defer file.Close()

		syllabus, err := h.syllabusService.CreateFile(userID, courseName, fileHeader.Filename, file)
		if err != nil {
			writeSyllabusError(c, err, "upload syllabus failed")
			return
		}
		response.OK(c, syllabus)
		return
	}

	syllabus, err := h.syllabusService.CreateText(userID, courseName, c.PostForm("content"))
	if err != nil {
		writeSyllabusError(c, err, "save syllabus content failed")
		return
	}
	response.OK(c, syllabus)
}

// Get serves the detail view: the syllabus plus its attached documents.
func (h *SyllabusHandler) Get(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	syllabusID := c.Param("id")

	syllabus, err := h.syllabusService.Get(userID, syllabusID)
	if err != nil {
		writeSyllabusError(c, err, "fetch syllabus failed")
		return
	}
	documents, err := h.syllabusService.ListDocuments(userID, syllabusID)
	if err != nil {
		writeSyllabusError(c, err, "fetch documents failed")
		return
	}

	response.OK(c, gin.H{
		"syllabus":  syllabus,
		"documents": documents,
	})
}

func (h *SyllabusHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	syllabusID := c.Param("id")

	if err := h.syllabusService.Delete(userID, syllabusID); err != nil {
		writeSyllabusError(c, err, "delete syllabus failed")
		return
	}
	response.OK(c, gin.H{"deleted_syllabus_id": syllabusID})
}

// Question runs the keyword-coverage heuristic. It is a warning system, not
// question answering; the LLM-backed chat endpoints are separate.
func (h *SyllabusHandler) Question(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	syllabusID := c.Param("id")

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.syllabusService.CheckCoverage(userID, syllabusID, req.Question)
	if err != nil {
		writeSyllabusError(c, err, "check question coverage failed")
		return
	}
	response.OK(c, result)
}

// File serves the raw uploaded syllabus file.
func (h *SyllabusHandler) File(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	syllabusID := c.Param("id")

	path, err := h.syllabusService.FilePath(userID, syllabusID)
	if err != nil {
		writeSyllabusError(c, err, "fetch syllabus file failed")
		return
	}
	c.File(path)
}

func writeSyllabusError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, extract.ErrUnsupportedFormat):
		response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFormat, err.Error())
	case errors.Is(err, app.ErrSyllabusNotFound), errors.Is(err, app.ErrDocumentNotFound), errors.Is(err, app.ErrNoFile):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
