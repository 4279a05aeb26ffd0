package model

type BadgeType string

const (
	BadgeAchievement BadgeType = "achievement"
	BadgeMilestone   BadgeType = "milestone"
	BadgeSpecial     BadgeType = "special"
)

// swagger:model Badge
type Badge struct {
	BaseModel
	Name        string    `gorm:"size:100;unique;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	Icon        string    `gorm:"size:100" json:"icon"`
	Color       string    `gorm:"size:50" json:"color"`
	Criteria    string    `gorm:"size:500" json:"criteria"`
	Type        BadgeType `gorm:"type:enum('achievement','milestone','special');default:'achievement'" json:"type"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	EarnedBy    int       `gorm:"default:0" json:"earnedBy"` // 获得该徽章的用户数
}

func (Badge) TableName() string {
	return "badges"
}
