package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/randyf333/SylliAI/internal/ai"
	"github.com/randyf333/SylliAI/internal/model"
)

var (
	ErrMessageEmpty = errors.New("message content is empty")
	ErrGeneration   = errors.New("generation service failed")
)

// Generator is the external generation service.
type Generator interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
	StreamComplete(ctx context.Context, messages []ai.ChatMessage, onChunk func(string) error) (string, error)
}

// ChatLogPublisher hands completed exchanges to the async persist worker.
type ChatLogPublisher interface {
	Publish(ctx context.Context, entry model.ChatLog) error
}

type ChatLogStore interface {
	ListByUserID(userID string, limit int) ([]model.ChatLog, error)
}

type ChatService struct {
	syllabi         SyllabusStore
	chatLogs        ChatLogStore
	generator       Generator
	publisher       ChatLogPublisher
	maxContextChars int
}

type ChatResult struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

type SyllabusChatResult struct {
	Response string `json:"response"`
}

func NewChatService(
	syllabi SyllabusStore,
	chatLogs ChatLogStore,
	generator Generator,
	publisher ChatLogPublisher,
	maxContextChars int,
) *ChatService {
	return &ChatService{
		syllabi:         syllabi,
		chatLogs:        chatLogs,
		generator:       generator,
		publisher:       publisher,
		maxContextChars: maxContextChars,
	}
}

// AskAll answers a question against every syllabus the user owns. File-backed
// content is extracted on demand; a syllabus whose content resolves empty
// (including extraction failures) is omitted rather than failing the call.
// Store failures abort the whole call.
func (s *ChatService) AskAll(ctx context.Context, userID, message string) (*ChatResult, error) {
	docs, sources, err := s.collectContext(userID, message)
	if err != nil {
		return nil, err
	}

	prompt := BuildCrossDocumentPrompt(docs, strings.TrimSpace(message), s.maxContextChars)
	answer, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logExchange(ctx, userID, "", message, answer)
	return &ChatResult{Response: answer, Sources: sources}, nil
}

// StreamAll is AskAll with the generation streamed chunk by chunk.
func (s *ChatService) StreamAll(ctx context.Context, userID, message string, onChunk func(string) error) (string, error) {
	docs, _, err := s.collectContext(userID, message)
	if err != nil {
		return "", err
	}

	prompt := BuildCrossDocumentPrompt(docs, strings.TrimSpace(message), s.maxContextChars)
	full, err := s.generator.StreamComplete(ctx, []ai.ChatMessage{{Role: "user", Content: prompt}}, onChunk)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	full = strings.TrimSpace(full)
	if full == "" {
		full = "The model returned an empty response."
	}

	s.logExchange(ctx, userID, "", message, full)
	return full, nil
}

// AskSyllabus answers a question against one syllabus. Inline text takes
// precedence over file extraction.
func (s *ChatService) AskSyllabus(ctx context.Context, userID, syllabusID, message string) (*SyllabusChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrMessageEmpty
	}
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

	inline := strings.TrimSpace(syllabus.Content) != ""
	content := resolveContent(syllabus.Content, syllabus.FilePath)
	extracted := !inline && syllabus.FilePath != ""
	prompt := BuildSyllabusPrompt(syllabus.CourseName, content, strings.TrimSpace(message), extracted, s.maxContextChars)
	answer, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logExchange(ctx, userID, syllabusID, message, answer)
	return &SyllabusChatResult{Response: answer}, nil
}

// History lists the caller's persisted chat exchanges.
func (s *ChatService) History(userID string, limit int) ([]model.ChatLog, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.chatLogs.ListByUserID(userID, limit)
}

// collectContext builds the ordered context document list from the user's
// syllabi. Sources are the course names actually included.
func (s *ChatService) collectContext(userID, message string) ([]ContextDocument, []string, error) {
	if strings.TrimSpace(message) == "" {
		return nil, nil, ErrMessageEmpty
	}
	if userID == "" {
		return nil, nil, ErrInvalidInput
	}

	syllabi, err := s.syllabi.ListByUserID(userID)
	if err != nil {
		return nil, nil, err
	}

	var (
		docs    []ContextDocument
		sources []string
	)
	for _, syllabus := range syllabi {
		content := resolveContent(syllabus.Content, syllabus.FilePath)
		if content == "" {
			continue
		}
		name := syllabus.CourseName
		if name == "" {
			name = "Untitled Course"
		}
		docs = append(docs, ContextDocument{
			Type:    "syllabus",
			Name:    name,
			Content: content,
		})
		sources = append(sources, name)
	}
	return docs, sources, nil
}

func (s *ChatService) complete(ctx context.Context, prompt string) (string, error) {
	answer, err := s.generator.Complete(ctx, []ai.ChatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = "The model returned an empty response."
	}
	return answer, nil
}

// logExchange enqueues the transcript for async persistence. Publish failures
// are logged and never fail the chat.
func (s *ChatService) logExchange(ctx context.Context, userID, syllabusID, question, answer string) {
	if s.publisher == nil {
		return
	}
	entry := model.ChatLog{
		UserID:     userID,
		SyllabusID: syllabusID,
		Question:   strings.TrimSpace(question),
		Answer:     answer,
		CreatedAt:  time.Now(),
	}
	if err := s.publisher.Publish(ctx, entry); err != nil {
		log.Printf("publish chat log failed: %v", err)
	}
}
