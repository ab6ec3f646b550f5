package model

import (
	"time"

	"gorm.io/gorm"
)

type Answer struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	InterviewID uint           `json:"interview_id" gorm:"not null;index"`
	QuestionID  uint           `json:"question_id" gorm:"not null;index"`
	Question    Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	AnswerText  string         `json:"answer_text" gorm:"type:text;not null"`
	Score       float64        `json:"score"`
	Feedback    string         `json:"feedback" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
