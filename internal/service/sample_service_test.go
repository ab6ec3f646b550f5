package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/sk800/ai-interview/config"
	"github.com/sk800/ai-interview/internal/model"
	"github.com/sk800/ai-interview/internal/proctor"
)

type stubSampleRepo struct {
	created *model.Sample
}

func (r *stubSampleRepo) Create(s *model.Sample) error {
	s.ID = 1
	r.created = s
	return nil
}

func (r *stubSampleRepo) Update(s *model.Sample) error { return nil }

func (r *stubSampleRepo) FindLatestByUser(userID uint) (*model.Sample, error) {
	return r.created, nil
}

type unavailableFaceService struct{}

func (s *unavailableFaceService) Available() bool { return false }
func (s *unavailableFaceService) Enroll(ctx context.Context, photoPath string) (string, error) {
	return "", ErrFaceUnavailable
}
func (s *unavailableFaceService) Verify(ctx context.Context, snapshotPath, storedFaceID string) (bool, proctor.FaceReason) {
	return true, proctor.FaceBypass
}

func newTestSampleService(t *testing.T, repo *stubSampleRepo, faces FaceVerificationService) SampleService {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.SampleDir = t.TempDir()
	return NewSampleService(cfg, repo, faces)
}

func TestStoreBaselineEnrollsAndPersists(t *testing.T) {
	repo := &stubSampleRepo{}
	svc := newTestSampleService(t, repo, &stubFaceService{})

	sample, err := svc.StoreBaseline(context.Background(), 1, strings.NewReader("jpeg"), strings.NewReader("webm"))
	if err != nil {
		t.Fatalf("StoreBaseline() error = %v", err)
	}
	if sample.FaceReference != "face-ref" {
		t.Errorf("FaceReference = %q, want enrolled id", sample.FaceReference)
	}
	for _, path := range []string{sample.PhotoPath, sample.AudioPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("stored file missing: %v", err)
		}
	}
	if repo.created == nil {
		t.Fatal("sample row not persisted")
	}
}

func TestStoreBaselineSkipsEnrollmentWhenUnavailable(t *testing.T) {
	repo := &stubSampleRepo{}
	svc := newTestSampleService(t, repo, &unavailableFaceService{})

	sample, err := svc.StoreBaseline(context.Background(), 1, strings.NewReader("jpeg"), strings.NewReader("webm"))
	if err != nil {
		t.Fatalf("StoreBaseline() error = %v", err)
	}
	if sample.FaceReference != "" {
		t.Errorf("FaceReference = %q, want empty bypass reference", sample.FaceReference)
	}
}
