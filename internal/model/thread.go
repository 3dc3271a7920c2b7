package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 会话类型
const (
	ThreadTypeDirect = "DIRECT"
	ThreadTypeGroup  = "GROUP"
)

// 未命名群组的占位名称
const DefaultGroupName = "Untitled Group"

// Thread 会话。只创建和更新，不删除
type Thread struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Type        string    `gorm:"type:varchar(10);not null" json:"type"`
	Name        string    `gorm:"type:varchar(255)" json:"name"`
	MemberCount int       `gorm:"default:0" json:"member_count"`
	UnreadCount int       `gorm:"default:0" json:"unread_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Thread) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ThreadParticipant 会话成员，创建后不再变更
type ThreadParticipant struct {
	ThreadID  string    `gorm:"type:char(36);primaryKey" json:"thread_id"`
	UserID    string    `gorm:"type:char(36);primaryKey;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
