package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 用户角色
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleUser       = "USER"
)

// 用户状态
const (
	StatusActive  = "ACTIVE"
	StatusBlocked = "BLOCKED"
)

type User struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string    `gorm:"type:varchar(100)" json:"last_name"`
	Email      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"`
	ProfilePic string    `gorm:"type:varchar(500)" json:"profile_pic"`
	Status     string    `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	Role       string    `gorm:"type:varchar(20);default:'USER'" json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
