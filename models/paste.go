package models

import (
	"time"
)

// Paste represents a single stored paste. Pastes are immutable: once an id
// has been issued and persisted, its content never changes.
type Paste struct {
	ID        string    `json:"id" bson:"_id"`
	Size      int64     `json:"size" bson:"size"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Content   []byte    `json:"-" bson:"content"`
}

// NewPaste builds a paste record for content about to be persisted.
func NewPaste(id string, content []byte) *Paste {
	return &Paste{
		ID:        id,
		Size:      int64(len(content)),
		CreatedAt: time.Now().UTC(),
		Content:   content,
	}
}
