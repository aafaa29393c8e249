package model

import "time"

type Document struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	SyllabusID   string    `gorm:"type:uuid;not null;index" json:"syllabus_id"`
	Name         string    `gorm:"size:256;not null" json:"name"`
	DocumentType string    `gorm:"size:64" json:"document_type"`
	Content      string    `gorm:"type:text" json:"content"`
	FilePath     string    `gorm:"size:512" json:"file_path,omitempty"`
	ContentType  string    `gorm:"size:32;not null" json:"content_type"` // "text" or "file"
	CreatedAt    time.Time `json:"created_at"`
}

func (d *Document) FileBacked() bool {
	return d.ContentType == "file" && d.FilePath != ""
}
