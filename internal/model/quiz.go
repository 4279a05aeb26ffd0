package model

type QuizStatus string

const (
	QuizDraft    QuizStatus = "draft"
	QuizActive   QuizStatus = "active"
	QuizArchived QuizStatus = "archived"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title        string     `gorm:"size:200;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Theme        string     `gorm:"size:100;index" json:"theme"`
	Status       QuizStatus `gorm:"type:enum('draft','active','archived');default:'draft';index" json:"status"`
	CBUs         []string   `gorm:"type:json;serializer:json" json:"cbus"` // 可见部门列表，空表示所有部门
	IsReplayable bool       `gorm:"default:false" json:"isReplayable"`
	Difficulty   string     `gorm:"size:50" json:"difficulty"`
	Duration     int        `gorm:"default:0" json:"duration"` // 预计时长（分钟）
	ImageURL     string     `gorm:"size:255" json:"imageUrl"`
	Participants int        `gorm:"default:0" json:"participants"`
	AverageScore float64    `gorm:"default:0" json:"averageScore"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// VisibleTo 判断测验是否对指定部门开放
func (q *Quiz) VisibleTo(cbu string) bool {
	if len(q.CBUs) == 0 {
		return true
	}
	for _, c := range q.CBUs {
		if c == cbu {
			return true
		}
	}
	return false
}
