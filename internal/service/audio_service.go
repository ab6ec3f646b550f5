package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sk800/ai-interview/config"
)

// voiceMatchThreshold is the minimum speaker similarity accepted as the same
// voice.
const voiceMatchThreshold = 0.5

// VoiceVerificationService compares a live audio clip against the candidate's
// stored baseline through an external speaker-verification endpoint. The
// whole boundary fails open: unconfigured service, missing files, transport
// errors and timeouts all report a match so the candidate is never penalized
// for infrastructure trouble.
type VoiceVerificationService interface {
	Verify(ctx context.Context, clipPath, referencePath string) bool
}

type voiceVerificationService struct {
	endpoint   string
	key        string
	httpClient *http.Client
}

func NewVoiceVerificationService(cfg *config.Config) VoiceVerificationService {
	if cfg.Voice.Endpoint == "" {
		log.Warn().Msg("Voice verification endpoint not configured, audio checks will be bypassed")
	}
	return &voiceVerificationService{
		endpoint:   cfg.Voice.Endpoint,
		key:        cfg.Voice.Key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type voiceVerifyResponse struct {
	Similarity float64 `json:"similarity"`
}

func (s *voiceVerificationService) Verify(ctx context.Context, clipPath, referencePath string) bool {
	if s.endpoint == "" {
		return true
	}
	if referencePath == "" {
		log.Warn().Msg("No stored audio reference, allowing verification")
		return true
	}
	if _, err := os.Stat(referencePath); err != nil {
		log.Warn().Str("path", referencePath).Msg("Stored audio file not found, allowing verification")
		return true
	}
	if _, err := os.Stat(clipPath); err != nil {
		log.Warn().Str("path", clipPath).Msg("Live audio clip not found, allowing verification")
		return true
	}

	similarity, err := s.compare(ctx, clipPath, referencePath)
	if err != nil {
		log.Error().Err(err).Msg("Voice verification error, allowing")
		return true
	}

	log.Debug().Float64("similarity", similarity).Float64("threshold", voiceMatchThreshold).Msg("Voice verification result")
	return similarity >= voiceMatchThreshold
}

func (s *voiceVerificationService) compare(ctx context.Context, clipPath, referencePath string) (float64, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for field, path := range map[string]string{"sample": clipPath, "reference": referencePath} {
		part, err := writer.CreateFormFile(field, field)
		if err != nil {
			return 0, err
		}
		f, err := os.Open(path)
		if err != nil {
			return 0, err
		}
		_, err = io.Copy(part, f)
		f.Close()
		if err != nil {
			return 0, err
		}
	}
	if err := writer.Close(); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if s.key != "" {
		req.Header.Set("Authorization", "Bearer "+s.key)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("voice verification returned status %d", resp.StatusCode)
	}

	var result voiceVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}
	return result.Similarity, nil
}
