package repository

import (
	"github.com/sk800/ai-interview/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	Create(answer *model.Answer) error
	CountByInterview(interviewID uint) (int64, error)
	FindByInterviewWithQuestions(interviewID uint) ([]model.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(answer *model.Answer) error {
	return r.db.Create(answer).Error
}

func (r *answerRepository) CountByInterview(interviewID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).Where("interview_id = ?", interviewID).Count(&count).Error
	return count, err
}

func (r *answerRepository) FindByInterviewWithQuestions(interviewID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Preload("Question").
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}
