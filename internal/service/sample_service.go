package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sk800/ai-interview/config"
	"github.com/sk800/ai-interview/internal/model"
	"github.com/sk800/ai-interview/internal/repository"
)

// SampleService stores a candidate's biometric baseline: one photo and one
// voice clip, plus the face reference token extracted during enrollment.
type SampleService interface {
	StoreBaseline(ctx context.Context, userID uint, photo, audio io.Reader) (*model.Sample, error)
	LatestFor(userID uint) (*model.Sample, error)
}

type sampleService struct {
	samples   repository.SampleRepository
	faces     FaceVerificationService
	sampleDir string
}

func NewSampleService(cfg *config.Config, samples repository.SampleRepository, faces FaceVerificationService) SampleService {
	return &sampleService{
		samples:   samples,
		faces:     faces,
		sampleDir: cfg.Storage.SampleDir,
	}
}

func (s *sampleService) StoreBaseline(ctx context.Context, userID uint, photo, audio io.Reader) (*model.Sample, error) {
	if err := os.MkdirAll(s.sampleDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sample dir: %w", err)
	}

	photoPath := filepath.Join(s.sampleDir, fmt.Sprintf("%d_%s_photo.jpg", userID, uuid.NewString()))
	if err := writeFile(photoPath, photo); err != nil {
		return nil, fmt.Errorf("failed to store photo sample: %w", err)
	}
	audioPath := filepath.Join(s.sampleDir, fmt.Sprintf("%d_%s_audio.webm", userID, uuid.NewString()))
	if err := writeFile(audioPath, audio); err != nil {
		return nil, fmt.Errorf("failed to store audio sample: %w", err)
	}

	// Enrollment is skipped when the verifier is unconfigured; polls then
	// run in bypass mode against the empty reference.
	faceID := ""
	if s.faces.Available() {
		var err error
		if faceID, err = s.faces.Enroll(ctx, photoPath); err != nil {
			return nil, err
		}
	}

	sample := model.Sample{
		UserID:        userID,
		PhotoPath:     photoPath,
		AudioPath:     audioPath,
		FaceReference: faceID,
	}
	if err := s.samples.Create(&sample); err != nil {
		return nil, fmt.Errorf("failed to persist sample: %w", err)
	}

	log.Info().Uint("userID", userID).Uint("sampleID", sample.ID).Msg("Biometric baseline stored")
	return &sample, nil
}

func (s *sampleService) LatestFor(userID uint) (*model.Sample, error) {
	return s.samples.FindLatestByUser(userID)
}

func writeFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}
