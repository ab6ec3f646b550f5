package model

import (
	"time"

	"gorm.io/gorm"
)

// Sample is the one-time biometric baseline for a candidate. Immutable once
// both the face reference and the audio reference are stored; an interview
// cannot start without one.
type Sample struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	PhotoPath string         `json:"photo_path" gorm:"not null"`
	AudioPath string         `json:"audio_path" gorm:"not null"`
	// FaceReference is the opaque token handed back by the face verifier
	// during enrollment (an Azure face id).
	FaceReference string         `json:"-" gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
