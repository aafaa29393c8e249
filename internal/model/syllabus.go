package model

import (
	"strings"
	"time"
)

// ContentTypeText marks inline-text rows. File-backed syllabi carry
// "<EXT> File" (e.g. "PDF File"), documents carry "file".
const ContentTypeText = "text"

type Syllabus struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	CourseName  string    `gorm:"size:256;not null" json:"course_name"`
	Content     string    `gorm:"type:text" json:"content"`
	FilePath    string    `gorm:"size:512" json:"file_path,omitempty"`
	ContentType string    `gorm:"size:32;not null" json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileBacked reports whether the row references an uploaded file rather than
// inline text.
func (s *Syllabus) FileBacked() bool {
	return strings.HasSuffix(strings.ToLower(s.ContentType), "file") && s.FilePath != ""
}
