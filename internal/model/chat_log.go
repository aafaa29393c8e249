package model

import "time"

// ChatLog is one question/answer exchange, persisted asynchronously so the
// chat request path never blocks on the store.
type ChatLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	SyllabusID string    `gorm:"size:36;index" json:"syllabus_id,omitempty"` // empty = cross-document chat
	Question   string    `gorm:"type:text;not null" json:"question"`
	Answer     string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
}
