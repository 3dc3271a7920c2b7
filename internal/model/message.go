package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 消息类型
const (
	MessageTypeText = "TEXT"
	MessageTypeFile = "FILE"
)

// Message 会话中的一条消息。删除是物理删除，不做软删除
type Message struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	ThreadID        string    `gorm:"type:char(36);not null;index" json:"thread_id"`
	AuthorID        string    `gorm:"type:char(36);not null;index" json:"author_id"`
	Content         string    `gorm:"type:text" json:"content"`
	Type            string    `gorm:"type:varchar(10);not null" json:"type"`
	FileURL         string    `gorm:"type:varchar(500)" json:"file_url"`
	IsEdited        bool      `gorm:"default:false" json:"is_edited"`
	ParentMessageID *string   `gorm:"type:char(36)" json:"parent_message_id"`
	ReadStatus      bool      `gorm:"default:false" json:"read_status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
