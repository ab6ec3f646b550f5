package model

import (
	"time"

	"gorm.io/gorm"
)

// Interview lifecycle statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusTerminated = "terminated"
)

// TotalQuestions is the fixed length of a scripted interview.
const TotalQuestions = 10

// Interview is one interview attempt. The proctoring fields
// (Status, AlertCount, ConsecutiveFaceFailures, TerminationReason,
// LastPollSeq, LastPollOutcome) are owned exclusively by the proctoring
// service and must survive restarts.
type Interview struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	UserID        uint   `json:"user_id" gorm:"not null;index"`
	InterviewType string `json:"interview_type" gorm:"not null"` // "ai", "react", "java", ...
	Status        string `json:"status" gorm:"not null;default:'pending';index"`

	// AlertCount is the active alert streak: it resets to zero on a fully
	// clean verification poll, so the ceiling only fires on bursts.
	AlertCount              int     `json:"alert_count" gorm:"not null;default:0"`
	ConsecutiveFaceFailures int     `json:"consecutive_face_failures" gorm:"not null;default:0"`
	TerminationReason       *string `json:"termination_reason,omitempty"` // write-once: first writer wins

	// LastPollSeq and LastPollOutcome make duplicate/out-of-order poll
	// retries idempotent: a replayed sequence number returns the stored
	// outcome without mutating counters.
	LastPollSeq     int64  `json:"-" gorm:"not null;default:0"`
	LastPollOutcome string `json:"-" gorm:"type:text"`

	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:InterviewID"`
	Answers     []Answer       `json:"answers,omitempty" gorm:"foreignKey:InterviewID"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Finalized reports whether the interview reached a terminal status.
// Completion and termination are mutually exclusive; whichever happened
// first froze the session.
func (i *Interview) Finalized() bool {
	return i.Status == StatusCompleted || i.Status == StatusTerminated
}
