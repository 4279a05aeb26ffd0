package model

type QuestionType string

const (
	QuestionQCM       QuestionType = "qcm"
	QuestionTrueFalse QuestionType = "vrai-faux"
	QuestionFree      QuestionType = "libre"
)

// swagger:model Question
type Question struct {
	BaseModel
	QuizID        uint         `gorm:"index;not null" json:"quizId"`
	Type          QuestionType `gorm:"type:enum('qcm','vrai-faux','libre');default:'qcm'" json:"type"`
	Text          string       `gorm:"type:text;not null" json:"question"`
	Options       []string     `gorm:"type:json;serializer:json" json:"options"`
	CorrectAnswer string       `gorm:"size:500" json:"correctAnswer"`
	Points        int          `gorm:"default:1" json:"points"`
	Explanation   string       `gorm:"type:text" json:"explanation"`
}

func (Question) TableName() string {
	return "questions"
}
