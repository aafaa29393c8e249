package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/randyf333/SylliAI/internal/app"
	"github.com/randyf333/SylliAI/internal/transport/http/middleware"
	"github.com/randyf333/SylliAI/internal/transport/http/response"
)

type DocumentHandler struct {
	syllabusService *app.SyllabusService
}

func NewDocumentHandler(syllabusService *app.SyllabusService) *DocumentHandler {
	return &DocumentHandler{syllabusService: syllabusService}
}

// Create attaches a document to a syllabus, as a file or pasted text.
func (h *DocumentHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	syllabusID := c.Param("id")
	name := c.PostForm("document_name")
	docType := c.PostForm("document_type")

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

		doc, err := h.syllabusService.AddDocumentFile(userID, syllabusID, name, docType, fileHeader.Filename, file)
		if err != nil {
			writeSyllabusError(c, err, "upload document failed")
			return
		}
		response.OK(c, doc)
		return
	}

	doc, err := h.syllabusService.AddDocumentText(userID, syllabusID, name, docType, c.PostForm("content"))
	if err != nil {
		writeSyllabusError(c, err, "save document content failed")
		return
	}
	response.OK(c, doc)
}

// Get returns the document record. File-backed documents are served as their
// stored file.
func (h *DocumentHandler) Get(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	documentID := c.Param("id")

	doc, err := h.syllabusService.GetDocument(userID, documentID)
	if err != nil {
		writeSyllabusError(c, err, "fetch document failed")
		return
	}
	if doc.FileBacked() {
		c.File(doc.FilePath)
		return
	}
	response.OK(c, doc)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	documentID := c.Param("id")

	if err := h.syllabusService.DeleteDocument(userID, documentID); err != nil {
		writeSyllabusError(c, err, "delete document failed")
		return
	}
	response.OK(c, gin.H{"deleted_document_id": documentID})
}
