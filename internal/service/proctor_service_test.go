package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sk800/ai-interview/internal/model"
	"github.com/sk800/ai-interview/internal/proctor"
	"gorm.io/gorm"
)

type stubInterviewRepo struct {
	interview *model.Interview
	saves     int
}

func (r *stubInterviewRepo) Create(iv *model.Interview) error {
	if iv.ID == 0 {
		iv.ID = 7
	}
	r.interview = iv
	return nil
}

func (r *stubInterviewRepo) Update(iv *model.Interview) error {
	r.interview = iv
	return nil
}

func (r *stubInterviewRepo) FindByIDAndUser(id, userID uint) (*model.Interview, error) {
	if r.interview == nil || r.interview.ID != id || r.interview.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return r.interview, nil
}

func (r *stubInterviewRepo) FindByIDWithAnswers(id, userID uint) (*model.Interview, error) {
	return r.FindByIDAndUser(id, userID)
}

func (r *stubInterviewRepo) UpdateLocked(id, userID uint, fn func(iv *model.Interview) error) (*model.Interview, error) {
	iv, err := r.FindByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(iv); err != nil {
		return nil, err
	}
	r.saves++
	return iv, nil
}

type stubSampleService struct {
	sample *model.Sample
}

func (s *stubSampleService) StoreBaseline(ctx context.Context, userID uint, photo, audio io.Reader) (*model.Sample, error) {
	return s.sample, nil
}

func (s *stubSampleService) LatestFor(userID uint) (*model.Sample, error) {
	return s.sample, nil
}

type stubFaceService struct {
	match  bool
	reason proctor.FaceReason
}

func (s *stubFaceService) Available() bool { return true }
func (s *stubFaceService) Enroll(ctx context.Context, photoPath string) (string, error) {
	return "face-ref", nil
}
func (s *stubFaceService) Verify(ctx context.Context, snapshotPath, storedFaceID string) (bool, proctor.FaceReason) {
	return s.match, s.reason
}

type stubVoiceService struct {
	match bool
}

func (s *stubVoiceService) Verify(ctx context.Context, clipPath, referencePath string) bool {
	return s.match
}

func newTestProctorService(repo *stubInterviewRepo, faces *stubFaceService, voices *stubVoiceService) ProctorService {
	samples := &stubSampleService{sample: &model.Sample{UserID: 1, FaceReference: "face-ref", AudioPath: "ref.webm"}}
	return NewProctorService(repo, samples, faces, voices, proctor.DefaultPolicy())
}

func inProgressInterview() *model.Interview {
	iv := &model.Interview{UserID: 1, Status: model.StatusInProgress}
	iv.ID = 7
	return iv
}

func TestEvaluatePollRaisesAlertAndPersists(t *testing.T) {
	repo := &stubInterviewRepo{interview: inProgressInterview()}
	svc := newTestProctorService(repo, nil, nil)

	outcome, err := svc.EvaluatePoll(7, 1, 1, proctor.FaceMatch, false)
	if err != nil {
		t.Fatalf("EvaluatePoll() error = %v", err)
	}
	if !outcome.Alert || outcome.ViolationType != proctor.ViolationAudio {
		t.Fatalf("expected audio alert, got %+v", outcome)
	}
	if repo.saves != 1 {
		t.Errorf("expected one locked save, got %d", repo.saves)
	}
	if repo.interview.AlertCount != 1 {
		t.Errorf("AlertCount = %d, want 1", repo.interview.AlertCount)
	}
	if repo.interview.LastPollSeq != 1 {
		t.Errorf("LastPollSeq = %d, want 1", repo.interview.LastPollSeq)
	}
	if repo.interview.LastPollOutcome == "" {
		t.Error("expected outcome to be persisted for replay")
	}
}

func TestEvaluatePollReplaysStaleSequence(t *testing.T) {
	repo := &stubInterviewRepo{interview: inProgressInterview()}
	svc := newTestProctorService(repo, nil, nil)

	first, err := svc.EvaluatePoll(7, 1, 1, proctor.FaceNoFace, true)
	if err != nil {
		t.Fatalf("EvaluatePoll() error = %v", err)
	}
	streakAfterFirst := repo.interview.ConsecutiveFaceFailures

	// A retry of the same poll must not advance any counter.
	replayed, err := svc.EvaluatePoll(7, 1, 1, proctor.FaceNoFace, true)
	if err != nil {
		t.Fatalf("EvaluatePoll() replay error = %v", err)
	}
	if replayed != first {
		t.Errorf("replay outcome = %+v, want %+v", replayed, first)
	}
	if repo.interview.ConsecutiveFaceFailures != streakAfterFirst {
		t.Errorf("ConsecutiveFaceFailures advanced on replay: %d, want %d",
			repo.interview.ConsecutiveFaceFailures, streakAfterFirst)
	}

	// An out-of-order sequence behind the watermark is also a replay.
	if _, err := svc.EvaluatePoll(7, 1, 3, proctor.FaceNoFace, true); err != nil {
		t.Fatalf("EvaluatePoll() error = %v", err)
	}
	stale, err := svc.EvaluatePoll(7, 1, 2, proctor.FaceNoFace, true)
	if err != nil {
		t.Fatalf("EvaluatePoll() error = %v", err)
	}
	if repo.interview.LastPollSeq != 3 {
		t.Errorf("LastPollSeq = %d, want 3", repo.interview.LastPollSeq)
	}
	if stale.AlertCount != repo.interview.AlertCount {
		t.Errorf("stale poll outcome AlertCount = %d, want %d", stale.AlertCount, repo.interview.AlertCount)
	}
}

func TestEvaluatePollFrozenAfterFinalization(t *testing.T) {
	repo := &stubInterviewRepo{interview: inProgressInterview()}
	svc := newTestProctorService(repo, nil, nil)

	// Drive to termination with unmatched audio on every poll.
	var last proctor.Outcome
	seq := int64(0)
	for !last.Terminated {
		seq++
		var err error
		last, err = svc.EvaluatePoll(7, 1, seq, proctor.FaceMatch, false)
		if err != nil {
			t.Fatalf("EvaluatePoll() error = %v", err)
		}
		if seq > 10 {
			t.Fatal("interview never terminated")
		}
	}
	if repo.interview.Status != model.StatusTerminated {
		t.Fatalf("Status = %q, want terminated", repo.interview.Status)
	}
	reason := *repo.interview.TerminationReason

	// Any later poll replays the terminal outcome without mutation.
	savesBefore := repo.saves
	after, err := svc.EvaluatePoll(7, 1, seq+1, proctor.FaceDifferent, false)
	if err != nil {
		t.Fatalf("EvaluatePoll() error = %v", err)
	}
	if !after.Terminated {
		t.Errorf("post-termination poll = %+v, want terminated outcome", after)
	}
	if *repo.interview.TerminationReason != reason {
		t.Errorf("termination reason changed from %q to %q", reason, *repo.interview.TerminationReason)
	}
	if repo.interview.LastPollSeq != seq {
		t.Errorf("LastPollSeq advanced after finalization: %d, want %d", repo.interview.LastPollSeq, seq)
	}
	// The locked update still runs, it just writes nothing new.
	if repo.saves != savesBefore+1 {
		t.Errorf("saves = %d, want %d", repo.saves, savesBefore+1)
	}
}

func TestPollAfterManualTerminateReportsTerminated(t *testing.T) {
	repo := &stubInterviewRepo{interview: inProgressInterview()}
	svc := newTestProctorService(repo, nil, nil)

	// A clean poll leaves a verified outcome in the replay slot.
	clean, err := svc.EvaluatePoll(7, 1, 1, proctor.FaceMatch, true)
	if err != nil {
		t.Fatalf("EvaluatePoll() error = %v", err)
	}
	if !clean.Verified {
		t.Fatalf("setup poll not verified: %+v", clean)
	}

	if _, err := svc.Terminate(7, 1, proctor.ViolationTabSwitch); err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}

	// The next poll must not replay the pre-termination outcome.
	after, err := svc.EvaluatePoll(7, 1, 2, proctor.FaceMatch, true)
	if err != nil {
		t.Fatalf("EvaluatePoll() error = %v", err)
	}
	if !after.Terminated || after.Verified {
		t.Fatalf("post-terminate poll = %+v, want a terminated outcome", after)
	}
	if after.ViolationType != proctor.ViolationTabSwitch {
		t.Errorf("ViolationType = %q, want tab_switch", after.ViolationType)
	}
	if repo.interview.LastPollSeq != 1 {
		t.Errorf("LastPollSeq advanced after finalization: %d, want 1", repo.interview.LastPollSeq)
	}
}

func TestPollAfterCompletionReportsCompleted(t *testing.T) {
	repo := &stubInterviewRepo{interview: inProgressInterview()}
	svc := newTestProctorService(repo, nil, nil)

	if _, err := svc.EvaluatePoll(7, 1, 1, proctor.FaceMatch, true); err != nil {
		t.Fatalf("EvaluatePoll() error = %v", err)
	}
	repo.interview.Status = model.StatusCompleted

	after, err := svc.EvaluatePoll(7, 1, 2, proctor.FaceMatch, true)
	if err != nil {
		t.Fatalf("EvaluatePoll() error = %v", err)
	}
	if !after.Verified || after.Terminated {
		t.Fatalf("post-completion poll = %+v, want a frozen verified outcome", after)
	}
	if after.Message != "Interview already completed" {
		t.Errorf("Message = %q", after.Message)
	}
}

func TestVerifyIdentityRequiresSample(t *testing.T) {
	repo := &stubInterviewRepo{interview: inProgressInterview()}
	svc := NewProctorService(repo, &stubSampleService{}, &stubFaceService{}, &stubVoiceService{}, proctor.DefaultPolicy())

	_, err := svc.VerifyIdentity(context.Background(), 7, 1, 1, "snap.jpg", "")
	if !errors.Is(err, ErrNoSample) {
		t.Fatalf("VerifyIdentity() error = %v, want ErrNoSample", err)
	}
}

func TestVerifyIdentitySkipsVoiceWithoutClip(t *testing.T) {
	repo := &stubInterviewRepo{interview: inProgressInterview()}
	faces := &stubFaceService{match: true, reason: proctor.FaceMatch}
	voices := &stubVoiceService{match: false} // would alert if consulted
	svc := newTestProctorService(repo, faces, voices)

	outcome, err := svc.VerifyIdentity(context.Background(), 7, 1, 1, "snap.jpg", "")
	if err != nil {
		t.Fatalf("VerifyIdentity() error = %v", err)
	}
	if !outcome.Verified || outcome.Alert {
		t.Errorf("expected clean poll without audio clip, got %+v", outcome)
	}
}

func TestVerifyIdentityRunsVoiceCheck(t *testing.T) {
	repo := &stubInterviewRepo{interview: inProgressInterview()}
	faces := &stubFaceService{match: true, reason: proctor.FaceMatch}
	voices := &stubVoiceService{match: false}
	svc := newTestProctorService(repo, faces, voices)

	outcome, err := svc.VerifyIdentity(context.Background(), 7, 1, 1, "snap.jpg", "clip.webm")
	if err != nil {
		t.Fatalf("VerifyIdentity() error = %v", err)
	}
	if outcome.ViolationType != proctor.ViolationAudio {
		t.Errorf("ViolationType = %q, want audio_violation", outcome.ViolationType)
	}
}

func TestTerminateIsIdempotent(t *testing.T) {
	repo := &stubInterviewRepo{interview: inProgressInterview()}
	svc := newTestProctorService(repo, nil, nil)

	iv, err := svc.Terminate(7, 1, proctor.ViolationTabSwitch)
	if err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}
	if iv.Status != model.StatusTerminated {
		t.Fatalf("Status = %q, want terminated", iv.Status)
	}
	if iv.TerminationReason == nil || *iv.TerminationReason != string(proctor.ViolationTabSwitch) {
		t.Fatalf("TerminationReason = %v, want tab_switch", iv.TerminationReason)
	}

	again, err := svc.Terminate(7, 1, proctor.ViolationFace)
	if err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}
	if *again.TerminationReason != string(proctor.ViolationTabSwitch) {
		t.Errorf("second Terminate overwrote reason: %q", *again.TerminationReason)
	}
}

func TestTerminateCompletedInterviewKeepsStatus(t *testing.T) {
	iv := inProgressInterview()
	iv.Status = model.StatusCompleted
	repo := &stubInterviewRepo{interview: iv}
	svc := newTestProctorService(repo, nil, nil)

	out, err := svc.Terminate(7, 1, proctor.ViolationTabSwitch)
	if err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}
	if out.Status != model.StatusCompleted {
		t.Errorf("Status = %q, want completed to stay completed", out.Status)
	}
	if out.TerminationReason != nil {
		t.Errorf("TerminationReason = %q, want nil", *out.TerminationReason)
	}
}

func TestTerminateUnknownInterview(t *testing.T) {
	repo := &stubInterviewRepo{}
	svc := newTestProctorService(repo, nil, nil)

	if _, err := svc.Terminate(99, 1, proctor.ViolationTabSwitch); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Terminate() error = %v, want gorm.ErrRecordNotFound", err)
	}
}
