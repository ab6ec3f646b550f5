// Package proctor implements the proctoring state machine: it consumes
// face/voice verdicts on the polling cadence and decides, deterministically
// and statefully, whether to alert and when to terminate an interview.
//
// The transition function is pure apart from mutating the Interview counters
// it is handed. Persistence, locking and verifier I/O belong to the caller.
package proctor

import (
	"fmt"

	"github.com/sk800/ai-interview/internal/model"
)

// Policy holds the tunable thresholds of the alert policy. Both values come
// from configuration; nothing else duplicates them.
//
// FaceDebounce is the number of consecutive failing face checks required
// before a face alert fires, absorbing single-frame misdetections. Audio
// mismatches alert immediately: audio checks already run against a stable
// pre-recorded baseline. AlertCeiling is the alert streak at which the
// interview is force-terminated.
type Policy struct {
	AlertCeiling int
	FaceDebounce int
}

// DefaultPolicy is the policy of record: a 3-poll face debounce with a
// ceiling of 3 consecutive alerts.
func DefaultPolicy() Policy {
	return Policy{AlertCeiling: 3, FaceDebounce: 3}
}

// NewPolicy builds a Policy, falling back to defaults for non-positive
// values so a missing config entry cannot disable termination.
func NewPolicy(alertCeiling, faceDebounce int) Policy {
	p := DefaultPolicy()
	if alertCeiling > 0 {
		p.AlertCeiling = alertCeiling
	}
	if faceDebounce > 0 {
		p.FaceDebounce = faceDebounce
	}
	return p
}

// Outcome is the per-poll verdict returned to the client. Verified is true
// iff no violation was raised this poll.
type Outcome struct {
	Verified      bool          `json:"verified"`
	Alert         bool          `json:"alert"`
	AlertCount    int           `json:"alert_count"`
	ViolationType ViolationType `json:"violation_type,omitempty"`
	Terminated    bool          `json:"terminated"`
	AlertReset    bool          `json:"alert_reset,omitempty"`
	Message       string        `json:"message,omitempty"`
}

// Evaluate applies one verification poll to the interview. It is the single
// mutation entry point for AlertCount, ConsecutiveFaceFailures, Status and
// TerminationReason; callers must run it inside a per-interview transaction.
//
// Finalized interviews are never mutated and yield a frozen outcome.
func (p Policy) Evaluate(iv *model.Interview, faceReason FaceReason, audioMatch bool) Outcome {
	if iv.Finalized() {
		return p.Frozen(iv)
	}

	faceViolation := faceReason.Violation()
	if faceViolation {
		iv.ConsecutiveFaceFailures++
	} else {
		iv.ConsecutiveFaceFailures = 0
	}

	// Face takes precedence; at most one violation type per poll.
	violation := ViolationNone
	switch {
	case faceViolation && iv.ConsecutiveFaceFailures >= p.FaceDebounce:
		violation = ViolationFace
	case !audioMatch:
		violation = ViolationAudio
	}

	if violation != ViolationNone {
		iv.AlertCount++
		if iv.AlertCount >= p.AlertCeiling {
			iv.Status = model.StatusTerminated
			if iv.TerminationReason == nil {
				reason := string(violation)
				iv.TerminationReason = &reason
			}
			return Outcome{
				Alert:         true,
				AlertCount:    iv.AlertCount,
				ViolationType: violation,
				Terminated:    true,
				Message:       fmt.Sprintf("Interview terminated after %d violations: %s", iv.AlertCount, violation.Human()),
			}
		}
		return Outcome{
			Alert:         true,
			AlertCount:    iv.AlertCount,
			ViolationType: violation,
			Message:       fmt.Sprintf("Identity verification failed: %s (Alert %d/%d)", violation.Human(), iv.AlertCount, p.AlertCeiling),
		}
	}

	// A fully clean poll (face ok AND audio ok) forgives prior alerts, so
	// the ceiling only fires on bursts of consecutive bad polls.
	if !faceViolation && audioMatch && iv.AlertCount > 0 {
		iv.AlertCount = 0
		return Outcome{
			Verified:   true,
			AlertReset: true,
			Message:    "Verification successful - alert count reset",
		}
	}

	return Outcome{Verified: true, AlertCount: iv.AlertCount}
}

// Frozen returns the idempotent outcome for an interview that already
// reached a terminal status. It performs no mutation.
func (p Policy) Frozen(iv *model.Interview) Outcome {
	if iv.Status == model.StatusTerminated {
		violation := ViolationNone
		if iv.TerminationReason != nil {
			violation = ViolationType(*iv.TerminationReason)
		}
		return Outcome{
			AlertCount:    iv.AlertCount,
			ViolationType: violation,
			Terminated:    true,
			Message:       "Interview already terminated",
		}
	}
	return Outcome{
		Verified:   true,
		AlertCount: iv.AlertCount,
		Message:    "Interview already completed",
	}
}
