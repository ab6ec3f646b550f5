package repository

import (
	"github.com/sk800/ai-interview/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterviewRepository interface {
	Create(interview *model.Interview) error
	Update(interview *model.Interview) error
	FindByIDAndUser(id, userID uint) (*model.Interview, error)
	FindByIDWithAnswers(id, userID uint) (*model.Interview, error)
	// UpdateLocked loads the interview under a row-level lock and applies fn
	// inside the same transaction, so the read-modify-write of the proctoring
	// counters is atomic against duplicate or out-of-order polls.
	UpdateLocked(id, userID uint, fn func(interview *model.Interview) error) (*model.Interview, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *model.Interview) error {
	return r.db.Create(interview).Error
}

func (r *interviewRepository) Update(interview *model.Interview) error {
	return r.db.Save(interview).Error
}

func (r *interviewRepository) FindByIDAndUser(id, userID uint) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&interview).Error
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) FindByIDWithAnswers(id, userID uint) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.
		Preload("Answers.Question").
		Where("id = ? AND user_id = ?", id, userID).
		First(&interview).Error
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) UpdateLocked(id, userID uint, fn func(interview *model.Interview) error) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&interview).Error; err != nil {
			return err
		}
		if err := fn(&interview); err != nil {
			return err
		}
		return tx.Save(&interview).Error
	})
	if err != nil {
		return nil, err
	}
	return &interview, nil
}
