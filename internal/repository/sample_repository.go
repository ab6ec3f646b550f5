package repository

import (
	"errors"

	"github.com/sk800/ai-interview/internal/model"
	"gorm.io/gorm"
)

type SampleRepository interface {
	Create(sample *model.Sample) error
	Update(sample *model.Sample) error
	// FindLatestByUser returns (nil, nil) when the user has no baseline yet.
	FindLatestByUser(userID uint) (*model.Sample, error)
}

type sampleRepository struct {
	db *gorm.DB
}

func NewSampleRepository(db *gorm.DB) SampleRepository {
	return &sampleRepository{db: db}
}

func (r *sampleRepository) Create(sample *model.Sample) error {
	return r.db.Create(sample).Error
}

func (r *sampleRepository) Update(sample *model.Sample) error {
	return r.db.Save(sample).Error
}

func (r *sampleRepository) FindLatestByUser(userID uint) (*model.Sample, error) {
	var sample model.Sample
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").First(&sample).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sample, nil
}
