package model

import (
	"time"
)

type UserRole string

const (
	Admin        UserRole = "admin"
	Collaborator UserRole = "collaborator"
)

// swagger:model User
type User struct {
	BaseModel
	Username string    `gorm:"size:100;not null" json:"username"`
	Email    string    `gorm:"size:100;unique;not null" json:"email"`
	Password string    `gorm:"size:100;not null" json:"-"`
	CBU      string    `gorm:"size:100;not null;index" json:"cbu"` // 所属部门
	Avatar   string    `gorm:"size:255" json:"avatar"`
	Role     UserRole  `gorm:"type:enum('admin','collaborator');default:'collaborator'" json:"role"`
	LastSeen time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`

	Badges []UserBadge `gorm:"foreignKey:UserID" json:"badges,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserBadge 用户已获得的徽章记录
type UserBadge struct {
	BaseModel
	UserID   uint      `gorm:"uniqueIndex:idx_user_badge;not null" json:"userId"`
	BadgeID  uint      `gorm:"uniqueIndex:idx_user_badge;not null" json:"badgeId"`
	EarnedAt time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"earnedAt"`

	Badge *Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
