package app

import (
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/randyf333/SylliAI/internal/model"
	"github.com/randyf333/SylliAI/internal/pkg/extract"
)

var (
	ErrSyllabusNotFound = errors.New("syllabus not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrForbidden        = errors.New("you do not have permission to access this resource")
	ErrNoFile           = errors.New("no file available")
)

// SyllabusStore is the gateway over the syllabi table. Every operation is
// scoped to the owning user at the query level.
type SyllabusStore interface {
	Create(s *model.Syllabus) error
	ListByUserID(userID string) ([]model.Syllabus, error)
	GetByID(id string) (*model.Syllabus, error)
	DeleteCascade(id, userID string) ([]string, error)
}

type DocumentStore interface {
	Create(d *model.Document) error
	GetByID(id string) (*model.Document, error)
	ListBySyllabusID(syllabusID, userID string) ([]model.Document, error)
	DeleteByIDAndUserID(id, userID string) error
}

// FileStore persists uploaded files and removes them on delete.
type FileStore interface {
	Save(filename string, r io.Reader) (string, error)
	Remove(path string) error
}

type SyllabusService struct {
	syllabi   SyllabusStore
	documents DocumentStore
	files     FileStore
}

func NewSyllabusService(syllabi SyllabusStore, documents DocumentStore, files FileStore) *SyllabusService {
	return &SyllabusService{
		syllabi:   syllabi,
		documents: documents,
		files:     files,
	}
}

func (s *SyllabusService) CreateText(userID, courseName, content string) (*model.Syllabus, error) {
	courseName = strings.TrimSpace(courseName)
	if userID == "" || courseName == "" || strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}
	syllabus := &model.Syllabus{
		ID:          uuid.NewString(),
		UserID:      userID,
		CourseName:  courseName,
		Content:     content,
		ContentType: model.ContentTypeText,
	}
	if err := s.syllabi.Create(syllabus); err != nil {
		return nil, err
	}
	return syllabus, nil
}

func (s *SyllabusService) CreateFile(userID, courseName, filename string, r io.Reader) (*model.Syllabus, error) {
	courseName = strings.TrimSpace(courseName)
	if userID == "" || courseName == "" || filename == "" {
		return nil, ErrInvalidInput
	}
	if !extract.Supported(filename) {
		return nil, extract.ErrUnsupportedFormat
	}

	path, err := s.files.Save(filename, r)
	if err != nil {
		return nil, err
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	syllabus := &model.Syllabus{
		ID:          uuid.NewString(),
		UserID:      userID,
		CourseName:  courseName,
		FilePath:    path,
		ContentType: strings.ToUpper(ext) + " File",
	}
	if err := s.syllabi.Create(syllabus); err != nil {
		_ = s.files.Remove(path)
		return nil, err
	}
	return syllabus, nil
}

func (s *SyllabusService) List(userID string) ([]model.Syllabus, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.syllabi.ListByUserID(userID)
}

// Get returns the syllabus if it exists and is owned by userID,
// distinguishing a missing row from one owned by someone else.
func (s *SyllabusService) Get(userID, syllabusID string) (*model.Syllabus, error) {
	if userID == "" || syllabusID == "" {
		return nil, ErrInvalidInput
	}
	syllabus, err := s.syllabi.GetByID(syllabusID)
	if err != nil {
		return nil, err
	}
	if syllabus == nil {
		return nil, ErrSyllabusNotFound
	}
	if syllabus.UserID != userID {
		return nil, ErrForbidden
	}
	return syllabus, nil
}

// Delete removes the syllabus and its documents atomically, then cleans up
// stored files best-effort.
func (s *SyllabusService) Delete(userID, syllabusID string) error {
	if _, err := s.Get(userID, syllabusID); err != nil {
		return err
	}
	paths, err := s.syllabi.DeleteCascade(syllabusID, userID)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := s.files.Remove(path); err != nil {
			log.Printf("remove syllabus file %s failed: %v", path, err)
		}
	}
	return nil
}

func (s *SyllabusService) AddDocumentText(userID, syllabusID, name, docType, content string) (*model.Document, error) {
	if _, err := s.Get(userID, syllabusID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}
	doc := &model.Document{
		ID:           uuid.NewString(),
		UserID:       userID,
		SyllabusID:   syllabusID,
		Name:         name,
		DocumentType: docType,
		Content:      content,
		ContentType:  model.ContentTypeText,
	}
	if err := s.documents.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *SyllabusService) AddDocumentFile(userID, syllabusID, name, docType, filename string, r io.Reader) (*model.Document, error) {
	if _, err := s.Get(userID, syllabusID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || filename == "" {
		return nil, ErrInvalidInput
	}
	if !extract.Supported(filename) {
		return nil, extract.ErrUnsupportedFormat
	}

	path, err := s.files.Save(filename, r)
	if err != nil {
		return nil, err
	}
	doc := &model.Document{
		ID:           uuid.NewString(),
		UserID:       userID,
		SyllabusID:   syllabusID,
		Name:         name,
		DocumentType: docType,
		FilePath:     path,
		ContentType:  "file",
	}
	if err := s.documents.Create(doc); err != nil {
		_ = s.files.Remove(path)
		return nil, err
	}
	return doc, nil
}

func (s *SyllabusService) ListDocuments(userID, syllabusID string) ([]model.Document, error) {
	if _, err := s.Get(userID, syllabusID); err != nil {
		return nil, err
	}
	return s.documents.ListBySyllabusID(syllabusID, userID)
}

func (s *SyllabusService) GetDocument(userID, documentID string) (*model.Document, error) {
	if userID == "" || documentID == "" {
		return nil, ErrInvalidInput
	}
	doc, err := s.documents.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	if doc.UserID != userID {
		return nil, ErrForbidden
	}
	return doc, nil
}

func (s *SyllabusService) DeleteDocument(userID, documentID string) error {
	doc, err := s.GetDocument(userID, documentID)
	if err != nil {
		return err
	}
	if err := s.documents.DeleteByIDAndUserID(documentID, userID); err != nil {
		return err
	}
	if doc.FilePath != "" {
		if err := s.files.Remove(doc.FilePath); err != nil {
			log.Printf("remove document file %s failed: %v", doc.FilePath, err)
		}
	}
	return nil
}

// FilePath returns the stored file path of a file-backed syllabus, for
// serving the raw upload.
func (s *SyllabusService) FilePath(userID, syllabusID string) (string, error) {
	syllabus, err := s.Get(userID, syllabusID)
	if err != nil {
		return "", err
	}
	if !syllabus.FileBacked() {
		return "", ErrNoFile
	}
	return syllabus.FilePath, nil
}

// CoverageResult is the outcome of the keyword-coverage heuristic. It is a
// warning system only, not question answering; the LLM-backed chat endpoints
// are separate.
type CoverageResult struct {
	Covered bool   `json:"covered"`
	Warning string `json:"warning,omitempty"`
}

// CheckCoverage runs a naive substring check: the question is considered
// covered when any keyword longer than three characters appears in the
// syllabus content (inline text, or extracted from the stored file).
func (s *SyllabusService) CheckCoverage(userID, syllabusID, question string) (*CoverageResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidInput
	}
	syllabus, err := s.Get(userID, syllabusID)
	if err != nil {
		return nil, err
	}

	content := strings.ToLower(resolveContent(syllabus.Content, syllabus.FilePath))

	covered := false
	for _, keyword := range strings.Fields(strings.ToLower(question)) {
		if len(keyword) <= 3 {
			continue
		}
		if strings.Contains(content, keyword) {
			covered = true
			break
		}
	}

	result := &CoverageResult{Covered: covered}
	if !covered {
		result.Warning = "This question may not be covered by the available documents. The answer might not be accurate."
	}
	return result, nil
}

// resolveContent returns the inline content when present, otherwise the text
// extracted from the stored file. Extraction failures resolve to no content
// rather than an error; callers degrade by omission.
func resolveContent(content, filePath string) string {
	if strings.TrimSpace(content) != "" {
		return content
	}
	if filePath == "" {
		return ""
	}
	text, err := extract.Text(filePath)
	if err != nil {
		log.Printf("extract %s failed: %v", filePath, err)
		return ""
	}
	return text
}
