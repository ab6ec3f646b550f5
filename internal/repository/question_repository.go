package repository

import (
	"github.com/sk800/ai-interview/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByIDAndInterview(id, interviewID uint) (*model.Question, error)
	FindByInterview(interviewID uint) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByIDAndInterview(id, interviewID uint) (*model.Question, error) {
	var question model.Question
	err := r.db.Where("id = ? AND interview_id = ?", id, interviewID).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByInterview(interviewID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("interview_id = ?", interviewID).Order("position ASC").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
