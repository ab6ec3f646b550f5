package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sk800/ai-interview/config"
	"github.com/sk800/ai-interview/internal/proctor"
)

// Confidence bands for face-to-face verification. Slightly lenient to reduce
// false alerts from lighting/angle changes, strict enough to catch a
// different person.
const (
	lenientMatchConfidence  = 0.4
	differentFaceConfidence = 0.3
)

// FaceVerificationService talks to the Azure Face API. Verify implements the
// fail-open contract in one place: every degraded outcome (service
// unconfigured, transport error, expired face id, missing reference) returns
// a non-violating reason so infrastructure failures never penalize a
// candidate. Only no_face and different_face are violations.
type FaceVerificationService interface {
	Available() bool
	// Enroll extracts the face reference token from a baseline photo.
	Enroll(ctx context.Context, photoPath string) (string, error)
	// Verify compares a live snapshot against a stored face reference.
	Verify(ctx context.Context, snapshotPath, storedFaceID string) (bool, proctor.FaceReason)
}

type azureFaceService struct {
	endpoint   string
	key        string
	httpClient *http.Client
}

func NewFaceVerificationService(cfg *config.Config) FaceVerificationService {
	if cfg.Face.Endpoint == "" || cfg.Face.Key == "" {
		log.Warn().Msg("Azure Face API credentials not configured, face verification will be bypassed")
	}
	return &azureFaceService{
		endpoint:   strings.TrimRight(cfg.Face.Endpoint, "/"),
		key:        cfg.Face.Key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *azureFaceService) Available() bool {
	return s.endpoint != "" && s.key != ""
}

type detectedFace struct {
	FaceID string `json:"faceId"`
}

type verifyResult struct {
	IsIdentical bool    `json:"isIdentical"`
	Confidence  float64 `json:"confidence"`
}

func (s *azureFaceService) Enroll(ctx context.Context, photoPath string) (string, error) {
	if !s.Available() {
		return "", ErrFaceUnavailable
	}
	faces, err := s.detect(ctx, photoPath)
	if err != nil {
		return "", fmt.Errorf("face detection failed: %w", err)
	}
	if len(faces) == 0 {
		return "", ErrNoFaceDetected
	}
	log.Info().Str("faceID", faces[0].FaceID).Msg("Face enrolled from baseline photo")
	return faces[0].FaceID, nil
}

func (s *azureFaceService) Verify(ctx context.Context, snapshotPath, storedFaceID string) (bool, proctor.FaceReason) {
	if !s.Available() {
		return true, proctor.FaceBypass
	}
	if storedFaceID == "" {
		// No stored reference: graceful degradation, never a violation.
		log.Warn().Msg("No stored face reference, bypassing face verification")
		return true, proctor.FaceBypass
	}

	faces, err := s.detect(ctx, snapshotPath)
	if err != nil {
		log.Error().Err(err).Msg("Face detection error during verification, allowing")
		return true, proctor.FaceError
	}
	if len(faces) == 0 {
		return false, proctor.FaceNoFace
	}

	result, err := s.verifyFaceToFace(ctx, storedFaceID, faces[0].FaceID)
	if err != nil {
		// Azure face ids expire after 24 hours; treat that distinctly but
		// still allow.
		msg := err.Error()
		if strings.Contains(msg, "FaceId") || strings.Contains(strings.ToLower(msg), "expired") || strings.Contains(msg, "ResourceNotFound") {
			log.Warn().Err(err).Msg("Stored face id may have expired, allowing")
			return true, proctor.FaceExpiredID
		}
		log.Error().Err(err).Msg("Face verification error, allowing")
		return true, proctor.FaceError
	}

	log.Debug().Bool("isIdentical", result.IsIdentical).Float64("confidence", result.Confidence).Msg("Face verification result")

	switch {
	case result.IsIdentical:
		return true, proctor.FaceMatch
	case result.Confidence >= lenientMatchConfidence:
		return true, proctor.FaceMatch
	case result.Confidence < differentFaceConfidence:
		return false, proctor.FaceDifferent
	default:
		// Medium confidence: likely the same person under different
		// lighting or angle.
		return true, proctor.FaceMatch
	}
}

func (s *azureFaceService) detect(ctx context.Context, imagePath string) ([]detectedFace, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", imagePath, err)
	}

	url := s.endpoint + "/face/v1.0/detect?returnFaceId=true&detectionModel=detection_01"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(imageData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", s.key)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("face detect returned status %d", resp.StatusCode)
	}

	var faces []detectedFace
	if err := json.NewDecoder(resp.Body).Decode(&faces); err != nil {
		return nil, fmt.Errorf("failed to decode detect response: %w", err)
	}
	return faces, nil
}

func (s *azureFaceService) verifyFaceToFace(ctx context.Context, faceID1, faceID2 string) (*verifyResult, error) {
	body, err := json.Marshal(map[string]string{"faceId1": faceID1, "faceId2": faceID2})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/face/v1.0/verify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", s.key)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw := new(bytes.Buffer)
		raw.ReadFrom(resp.Body)
		return nil, fmt.Errorf("face verify returned status %d: %s", resp.StatusCode, raw.String())
	}

	var result verifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}
	return &result, nil
}
