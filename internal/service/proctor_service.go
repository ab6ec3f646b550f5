package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sk800/ai-interview/internal/model"
	"github.com/sk800/ai-interview/internal/proctor"
	"github.com/sk800/ai-interview/internal/repository"
)

// ProctorService is the transactional shell around the proctoring state
// machine. Verifier network calls happen before the machine runs, so the
// transition itself stays synchronous; the read-modify-write of the session
// counters is serialized by the repository's row lock.
type ProctorService interface {
	// VerifyIdentity runs one full verification poll: face check, audio
	// check, then the state machine.
	VerifyIdentity(ctx context.Context, interviewID, userID uint, pollSeq int64, snapshotPath, audioClipPath string) (proctor.Outcome, error)
	// EvaluatePoll applies pre-computed verifier verdicts to the session.
	EvaluatePoll(interviewID, userID uint, pollSeq int64, faceReason proctor.FaceReason, audioMatch bool) (proctor.Outcome, error)
	// Terminate finalizes the interview from an external signal, e.g. a tab
	// switch. Idempotent; never overwrites an existing termination reason.
	Terminate(interviewID, userID uint, reason proctor.ViolationType) (*model.Interview, error)
}

type proctorService struct {
	interviews repository.InterviewRepository
	samples    SampleService
	faces      FaceVerificationService
	voices     VoiceVerificationService
	policy     proctor.Policy
}

func NewProctorService(
	interviews repository.InterviewRepository,
	samples SampleService,
	faces FaceVerificationService,
	voices VoiceVerificationService,
	policy proctor.Policy,
) ProctorService {
	return &proctorService{
		interviews: interviews,
		samples:    samples,
		faces:      faces,
		voices:     voices,
		policy:     policy,
	}
}

func (s *proctorService) VerifyIdentity(ctx context.Context, interviewID, userID uint, pollSeq int64, snapshotPath, audioClipPath string) (proctor.Outcome, error) {
	sample, err := s.samples.LatestFor(userID)
	if err != nil {
		return proctor.Outcome{}, fmt.Errorf("failed to load biometric sample: %w", err)
	}
	if sample == nil {
		return proctor.Outcome{}, ErrNoSample
	}

	faceMatch, faceReason := s.faces.Verify(ctx, snapshotPath, sample.FaceReference)
	if faceReason.Violation() {
		log.Info().Uint("interviewID", interviewID).Str("reason", string(faceReason)).Msg("Face violation detected")
	} else {
		log.Debug().Uint("interviewID", interviewID).Bool("match", faceMatch).Str("reason", string(faceReason)).Msg("Face verification passed")
	}

	audioMatch := true
	if audioClipPath != "" {
		audioMatch = s.voices.Verify(ctx, audioClipPath, sample.AudioPath)
	}

	return s.EvaluatePoll(interviewID, userID, pollSeq, faceReason, audioMatch)
}

func (s *proctorService) EvaluatePoll(interviewID, userID uint, pollSeq int64, faceReason proctor.FaceReason, audioMatch bool) (proctor.Outcome, error) {
	var outcome proctor.Outcome

	_, err := s.interviews.UpdateLocked(interviewID, userID, func(iv *model.Interview) error {
		// Finalized sessions are frozen: answer with the terminal view,
		// mutate nothing.
		if iv.Finalized() {
			outcome = s.terminalOutcome(iv)
			return nil
		}
		// Duplicate or out-of-order retry of an already processed poll.
		if pollSeq > 0 && pollSeq <= iv.LastPollSeq {
			log.Debug().Uint("interviewID", iv.ID).Int64("pollSeq", pollSeq).Int64("lastPollSeq", iv.LastPollSeq).
				Msg("Stale poll sequence, replaying last outcome")
			outcome = s.replayOutcome(iv)
			return nil
		}

		outcome = s.policy.Evaluate(iv, faceReason, audioMatch)

		if pollSeq > 0 {
			iv.LastPollSeq = pollSeq
		}
		if encoded, err := json.Marshal(outcome); err == nil {
			iv.LastPollOutcome = string(encoded)
		} else {
			log.Error().Err(err).Uint("interviewID", iv.ID).Msg("Failed to encode poll outcome for replay")
		}

		if outcome.Terminated {
			log.Warn().Uint("interviewID", iv.ID).Str("violation", string(outcome.ViolationType)).
				Int("alertCount", outcome.AlertCount).Msg("Interview terminated by proctoring policy")
		} else if outcome.Alert {
			log.Info().Uint("interviewID", iv.ID).Str("violation", string(outcome.ViolationType)).
				Int("alertCount", outcome.AlertCount).Msg("Proctoring alert raised")
		}
		return nil
	})
	if err != nil {
		return proctor.Outcome{}, err
	}
	return outcome, nil
}

// replayOutcome returns the stored last outcome when one exists, otherwise a
// frozen view of the current state. Only for in-progress sessions answering
// a stale poll sequence.
func (s *proctorService) replayOutcome(iv *model.Interview) proctor.Outcome {
	if iv.LastPollOutcome != "" {
		var stored proctor.Outcome
		if err := json.Unmarshal([]byte(iv.LastPollOutcome), &stored); err == nil {
			return stored
		}
	}
	return s.policy.Frozen(iv)
}

// terminalOutcome answers a poll against a finalized session. The stored
// last outcome is replayed only when it already reflects the termination; a
// manual terminate or a completion leaves a pre-terminal outcome behind,
// which must not resurface as verified:true.
func (s *proctorService) terminalOutcome(iv *model.Interview) proctor.Outcome {
	if iv.Status == model.StatusTerminated && iv.LastPollOutcome != "" {
		var stored proctor.Outcome
		if err := json.Unmarshal([]byte(iv.LastPollOutcome), &stored); err == nil && stored.Terminated {
			return stored
		}
	}
	return s.policy.Frozen(iv)
}

func (s *proctorService) Terminate(interviewID, userID uint, reason proctor.ViolationType) (*model.Interview, error) {
	return s.interviews.UpdateLocked(interviewID, userID, func(iv *model.Interview) error {
		if iv.Finalized() {
			// First writer wins, including a completed interview.
			return nil
		}
		iv.Status = model.StatusTerminated
		if iv.TerminationReason == nil {
			r := string(reason)
			iv.TerminationReason = &r
		}
		log.Warn().Uint("interviewID", iv.ID).Str("reason", string(reason)).Msg("Interview terminated by external signal")
		return nil
	})
}
