package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// File 上传文件的元数据。BucketID是blob存储中的对象名，
// blob本身没有结构化schema，这是唯一的关联键
type File struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(36);not null;index" json:"user_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	AltText   string    `gorm:"type:varchar(255)" json:"alt_text"`
	Type      string    `gorm:"type:varchar(100)" json:"type"`
	Size      int64     `gorm:"default:0" json:"size"`
	Width     int       `gorm:"default:0" json:"width"`
	Height    int       `gorm:"default:0" json:"height"`
	Path      string    `gorm:"type:varchar(500);index" json:"path"`
	BucketID  string    `gorm:"type:varchar(255)" json:"bucket_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
