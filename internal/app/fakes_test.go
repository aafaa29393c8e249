package app

import (
	"context"
	"fmt"
	"io"

	"github.com/randyf333/SylliAI/internal/ai"
	"github.com/randyf333/SylliAI/internal/model"
	"github.com/randyf333/SylliAI/internal/session"
)

type fakeSyllabusStore struct {
	syllabi     []model.Syllabus
	listErr     error
	deleteCalls int
}

func (f *fakeSyllabusStore) Create(s *model.Syllabus) error {
	f.syllabi = append(f.syllabi, *s)
	return nil
}

func (f *fakeSyllabusStore) ListByUserID(userID string) ([]model.Syllabus, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Syllabus
	for _, s := range f.syllabi {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSyllabusStore) GetByID(id string) (*model.Syllabus, error) {
	for i := range f.syllabi {
		if f.syllabi[i].ID == id {
			s := f.syllabi[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeSyllabusStore) DeleteCascade(id, userID string) ([]string, error) {
	f.deleteCalls++
	var (
		paths []string
		kept  []model.Syllabus
	)
	for _, s := range f.syllabi {
		if s.ID == id && s.UserID == userID {
			if s.FilePath != "" {
				paths = append(paths, s.FilePath)
			}
			continue
		}
		kept = append(kept, s)
	}
	f.syllabi = kept
	return paths, nil
}

type fakeDocumentStore struct {
	documents   []model.Document
	deleteCalls int
}

func (f *fakeDocumentStore) Create(d *model.Document) error {
	f.documents = append(f.documents, *d)
	return nil
}

func (f *fakeDocumentStore) GetByID(id string) (*model.Document, error) {
	for i := range f.documents {
		if f.documents[i].ID == id {
			d := f.documents[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentStore) ListBySyllabusID(syllabusID, userID string) ([]model.Document, error) {
	var out []model.Document
	for _, d := range f.documents {
		if d.SyllabusID == syllabusID && d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentStore) DeleteByIDAndUserID(id, userID string) error {
	f.deleteCalls++
	var kept []model.Document
	for _, d := range f.documents {
		if d.ID == id && d.UserID == userID {
			continue
		}
		kept = append(kept, d)
	}
	f.documents = kept
	return nil
}

type fakeFileStore struct {
	saved   map[string][]byte
	removed []string
	nextID  int
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{saved: map[string][]byte{}}
}

func (f *fakeFileStore) Save(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.nextID++
	path := fmt.Sprintf("uploads/%d_%s", f.nextID, filename)
	f.saved[path] = data
	return path, nil
}

func (f *fakeFileStore) Remove(path string) error {
	delete(f.saved, path)
	f.removed = append(f.removed, path)
	return nil
}

type fakeGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeGenerator) Complete(_ context.Context, messages []ai.ChatMessage) (string, error) {
	for _, m := range messages {
		f.prompts = append(f.prompts, m.Content)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeGenerator) StreamComplete(ctx context.Context, messages []ai.ChatMessage, onChunk func(string) error) (string, error) {
	answer, err := f.Complete(ctx, messages)
	if err != nil {
		return "", err
	}
	if err := onChunk(answer); err != nil {
		return "", err
	}
	return answer, nil
}

type fakePublisher struct {
	entries []model.ChatLog
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, entry model.ChatLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

type fakeSessionStore struct {
	sessions map[string]session.Session
	nextID   int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]session.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, sess session.Session) (string, error) {
	f.nextID++
	id := fmt.Sprintf("sess-%d", f.nextID)
	f.sessions[id] = sess
	return id, nil
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*session.Session, bool, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return nil, false, nil
	}
	return &sess, true, nil
}

func (f *fakeSessionStore) Update(_ context.Context, id string, sess session.Session) error {
	f.sessions[id] = sess
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeChatLogStore struct {
	logs []model.ChatLog
}

func (f *fakeChatLogStore) ListByUserID(userID string, limit int) ([]model.ChatLog, error) {
	var out []model.ChatLog
	for _, l := range f.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
