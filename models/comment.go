package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a relational comment row. Only service comments use this table;
// task and ticket comments are embedded in their parent row (see CommentList).
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ServiceID string    `gorm:"index;not null"`
	Author    string    `gorm:"not null"`
	Text      string    `gorm:"not null"`
	CreatedAt time.Time
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// EmbeddedComment is a single entry of a JSON-encoded comment column.
type EmbeddedComment struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentList is a comments column stored as stringified JSON. Malformed or
// empty payloads decode to an empty list, never to an error.
type CommentList []EmbeddedComment

func (l CommentList) Value() (driver.Value, error) {
	if l == nil {
		l = CommentList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *CommentList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = CommentList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported comments column type")
	}

	var parsed CommentList
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed == nil {
		*l = CommentList{}
		return nil
	}
	*l = parsed
	return nil
}
