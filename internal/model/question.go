package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	InterviewID  uint           `json:"interview_id" gorm:"not null;index"`
	QuestionText string         `json:"question_text" gorm:"type:text;not null"`
	QuestionType string         `json:"question_type" gorm:"not null"` // "text", "audio", "code"
	TimeLimit    int            `json:"time_limit" gorm:"not null"`    // seconds
	Difficulty   string         `json:"difficulty" gorm:"not null"`    // "easy", "medium", "hard"
	Position     int            `json:"position" gorm:"not null"`      // 1-based order within the interview
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
