package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randyf333/SylliAI/internal/model"
	"github.com/randyf333/SylliAI/internal/pkg/extract"
)

func newSyllabusService() (*SyllabusService, *fakeSyllabusStore, *fakeDocumentStore, *fakeFileStore) {
	syllabi := &fakeSyllabusStore{}
	documents := &fakeDocumentStore{}
	files := newFakeFileStore()
	return NewSyllabusService(syllabi, documents, files), syllabi, documents, files
}

func TestCreateTextRoundTrip(t *testing.T) {
	svc, _, _, _ := newSyllabusService()

	created, err := svc.CreateText("alice", "CS101", "Midterm on March 5.")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.ContentTypeText, created.ContentType)

	got, err := svc.Get("alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Midterm on March 5.", got.Content)
	assert.Equal(t, "CS101", got.CourseName)
}

func TestCreateTextValidation(t *testing.T) {
	svc, _, _, _ := newSyllabusService()

	_, err := svc.CreateText("alice", "   ", "content")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateText("alice", "CS101", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateFileStoresUpload(t *testing.T) {
	svc, _, _, files := newSyllabusService()

	created, err := svc.CreateFile("alice", "CS101", "syllabus.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "PDF File", created.ContentType)
	assert.True(t, created.FileBacked())
	assert.Contains(t, files.saved, created.FilePath)
}

func TestCreateFileUnsupportedExtension(t *testing.T) {
	svc, _, _, files := newSyllabusService()

	_, err := svc.CreateFile("alice", "CS101", "syllabus.exe", strings.NewReader("MZ"))
	assert.ErrorIs(t, err, extract.ErrUnsupportedFormat)
	assert.Empty(t, files.saved)
}

func TestGetDistinguishesMissingFromForeign(t *testing.T) {
	svc, syllabi, _, _ := newSyllabusService()
	syllabi.syllabi = []model.Syllabus{
		{ID: "s1", UserID: "bob", CourseName: "CS101", Content: "bob's"},
	}

	_, err := svc.Get("alice", "nope")
	assert.ErrorIs(t, err, ErrSyllabusNotFound)

	_, err = svc.Get("alice", "s1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListScopedToUser(t *testing.T) {
	svc, syllabi, _, _ := newSyllabusService()
	syllabi.syllabi = []model.Syllabus{
		{ID: "s1", UserID: "alice", CourseName: "CS101"},
		{ID: "s2", UserID: "bob", CourseName: "CS102"},
	}

	got, err := svc.List("alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
}

func TestDeleteCascadesAndRemovesFiles(t *testing.T) {
	svc, syllabi, _, files := newSyllabusService()

	created, err := svc.CreateFile("alice", "CS101", "syllabus.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	_, err = svc.AddDocumentText("alice", created.ID, "Homework 1", "assignment", "due friday")
	require.NoError(t, err)

	require.NoError(t, svc.Delete("alice", created.ID))

	assert.Equal(t, 1, syllabi.deleteCalls)
	assert.Empty(t, files.saved)
	assert.Contains(t, files.removed, created.FilePath)
}

func TestDeleteForeignSyllabusForbidden(t *testing.T) {
	svc, syllabi, _, _ := newSyllabusService()
	syllabi.syllabi = []model.Syllabus{
		{ID: "s1", UserID: "bob", CourseName: "CS101"},
	}

	err := svc.Delete("alice", "s1")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, syllabi.deleteCalls)
}

func TestAddDocumentFileChecksOwnership(t *testing.T) {
	svc, syllabi, _, _ := newSyllabusService()
	syllabi.syllabi = []model.Syllabus{
		{ID: "s1", UserID: "bob", CourseName: "CS101"},
	}

	_, err := svc.AddDocumentFile("alice", "s1", "notes", "lecture", "notes.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListDocumentsScopedToSyllabus(t *testing.T) {
	svc, syllabi, _, _ := newSyllabusService()
	syllabi.syllabi = []model.Syllabus{
		{ID: "s1", UserID: "alice", CourseName: "CS101"},
		{ID: "s2", UserID: "alice", CourseName: "CS102"},
	}

	_, err := svc.AddDocumentText("alice", "s1", "HW1", "assignment", "due friday")
	require.NoError(t, err)
	_, err = svc.AddDocumentText("alice", "s2", "HW2", "assignment", "due monday")
	require.NoError(t, err)

	docs, err := svc.ListDocuments("alice", "s1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "HW1", docs[0].Name)
}

func TestDeleteDocumentRemovesStoredFile(t *testing.T) {
	svc, syllabi, _, files := newSyllabusService()
	syllabi.syllabi = []model.Syllabus{
		{ID: "s1", UserID: "alice", CourseName: "CS101"},
	}

	doc, err := svc.AddDocumentFile("alice", "s1", "notes", "lecture", "notes.txt", strings.NewReader("lecture notes"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument("alice", doc.ID))
	assert.Empty(t, files.saved)

	_, err = svc.GetDocument("alice", doc.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDeleteForeignDocumentForbidden(t *testing.T) {
	svc, syllabi, documents, _ := newSyllabusService()
	syllabi.syllabi = []model.Syllabus{
		{ID: "s1", UserID: "bob", CourseName: "CS101"},
	}
	documents.documents = []model.Document{
		{ID: "d1", UserID: "bob", SyllabusID: "s1", Name: "notes"},
	}

	err := svc.DeleteDocument("alice", "d1")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, documents.deleteCalls)
}

func TestFilePathRequiresFileBacked(t *testing.T) {
	svc, syllabi, _, _ := newSyllabusService()
	syllabi.syllabi = []model.Syllabus{
		{ID: "s1", UserID: "alice", CourseName: "CS101", Content: "inline", ContentType: model.ContentTypeText},
		{ID: "s2", UserID: "alice", CourseName: "CS102", FilePath: "uploads/x.pdf", ContentType: "PDF File"},
	}

	_, err := svc.FilePath("alice", "s1")
	assert.ErrorIs(t, err, ErrNoFile)

	path, err := svc.FilePath("alice", "s2")
	require.NoError(t, err)
	assert.Equal(t, "uploads/x.pdf", path)
}

func TestCheckCoverage(t *testing.T) {
	svc, syllabi, _, _ := newSyllabusService()
	syllabi.syllabi = []model.Syllabus{
		{ID: "s1", UserID: "alice", CourseName: "CS101", Content: "The midterm is on March 5.", ContentType: model.ContentTypeText},
	}

	covered, err := svc.CheckCoverage("alice", "s1", "When is the midterm held?")
	require.NoError(t, err)
	assert.True(t, covered.Covered)
	assert.Empty(t, covered.Warning)

	uncovered, err := svc.CheckCoverage("alice", "s1", "What about attendance policy?")
	require.NoError(t, err)
	assert.False(t, uncovered.Covered)
	assert.NotEmpty(t, uncovered.Warning)
}

func TestCheckCoverageKeywordsKeepPunctuation(t *testing.T) {
	svc, syllabi, _, _ := newSyllabusService()
	syllabi.syllabi = []model.Syllabus{
		{ID: "s1", UserID: "alice", CourseName: "CS101", Content: "Weekly quizzes every Friday.", ContentType: model.ContentTypeText},
	}

	// Keywords are whitespace-split, so "quizzes?" keeps its question mark and
	// misses the substring "quizzes" in the content.
	result, err := svc.CheckCoverage("alice", "s1", "Are there quizzes?")
	require.NoError(t, err)
	assert.False(t, result.Covered)

	result, err = svc.CheckCoverage("alice", "s1", "Are there weekly quizzes here")
	require.NoError(t, err)
	assert.True(t, result.Covered)
}

func TestCheckCoverageIgnoresShortWords(t *testing.T) {
	svc, syllabi, _, _ := newSyllabusService()
	syllabi.syllabi = []model.Syllabus{
		{ID: "s1", UserID: "alice", CourseName: "CS101", Content: "the quick brown fox", ContentType: model.ContentTypeText},
	}

	// Every word in the question is three characters or fewer, so nothing
	// qualifies as a keyword even though "the" appears in the content.
	result, err := svc.CheckCoverage("alice", "s1", "is it in the doc")
	require.NoError(t, err)
	assert.False(t, result.Covered)
}
