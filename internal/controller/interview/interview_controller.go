package interview

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sk800/ai-interview/config"
	"github.com/sk800/ai-interview/internal/dto"
	"github.com/sk800/ai-interview/internal/middleware"
	"github.com/sk800/ai-interview/internal/proctor"
	"github.com/sk800/ai-interview/internal/service"
	"gorm.io/gorm"
)

type InterviewController struct {
	interviewService service.InterviewService
	proctorService   service.ProctorService
	sampleService    service.SampleService
	tempDir          string
}

func NewInterviewController(
	cfg *config.Config,
	interviewService service.InterviewService,
	proctorService service.ProctorService,
	sampleService service.SampleService,
) *InterviewController {
	return &InterviewController{
		interviewService: interviewService,
		proctorService:   proctorService,
		sampleService:    sampleService,
		tempDir:          cfg.Storage.TempDir,
	}
}

// UploadSamples godoc
// @Summary Upload the biometric baseline
// @Description Stores one photo and one voice clip and enrolls the face reference. Required before starting an interview.
// @Tags Samples
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Baseline photo (JPEG)"
// @Param audio formData file true "Baseline voice clip"
// @Success 200 {object} dto.SampleUploadResponse
// @Failure 400 {object} dto.ErrorResponse "Missing files or no face detected"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /samples [post]
func (c *InterviewController) UploadSamples(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Unauthorized"})
		return
	}

	photoHeader, err := ctx.FormFile("photo")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Photo file is required"})
		return
	}
	audioHeader, err := ctx.FormFile("audio")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Audio file is required"})
		return
	}

	photo, err := photoHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Cannot read photo upload"})
		return
	}
	defer photo.Close()
	audio, err := audioHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Cannot read audio upload"})
		return
	}
	defer audio.Close()

	sample, err := c.sampleService.StoreBaseline(ctx.Request.Context(), userID, photo, audio)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFaceDetected):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Message: "No face detected in the photo. Ensure your face is clearly visible, well lit and unobstructed, then try again.",
			})
		default:
			log.Error().Err(err).Uint("userID", userID).Msg("UploadSamples: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Error processing samples", Details: []string{err.Error()}})
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.SampleUploadResponse{
		Message:  "Samples uploaded successfully",
		SampleID: sample.ID,
		FaceID:   sample.FaceReference,
	})
}

// StartInterview godoc
// @Summary Start a new interview
// @Description Creates an in-progress interview. Requires an existing biometric baseline.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param interview body dto.StartInterviewRequest true "Interview type"
// @Success 200 {object} dto.StartInterviewResponse
// @Failure 400 {object} dto.ErrorResponse "No biometric sample on file"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /interviews [post]
func (c *InterviewController) StartInterview(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Unauthorized"})
		return
	}

	var req dto.StartInterviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	interview, err := c.interviewService.Start(userID, req.InterviewType)
	if err != nil {
		if errors.Is(err, service.ErrNoSample) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Please upload photo and audio samples first"})
			return
		}
		log.Error().Err(err).Uint("userID", userID).Msg("StartInterview: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start interview"})
		return
	}

	ctx.JSON(http.StatusOK, dto.StartInterviewResponse{InterviewID: interview.ID, Message: "Interview started"})
}

// GetQuestion godoc
// @Summary Get the next interview question
// @Tags Interviews
// @Produce json
// @Param interview_id path int true "Interview ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /interviews/{interview_id}/question [get]
func (c *InterviewController) GetQuestion(ctx *gin.Context) {
	userID, interviewID, ok := c.pathIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.interviewService.NextQuestion(ctx.Request.Context(), interviewID, userID)
	if err != nil {
		c.renderError(ctx, err, "GetQuestion")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAnswer godoc
// @Summary Submit an answer for a question
// @Description Scores the answer and records it; the 10th answer completes the interview.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param interview_id path int true "Interview ID"
// @Param answer body dto.SubmitAnswerRequest true "Question id and answer text"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Interview already finalized"
// @Failure 404 {object} dto.ErrorResponse "Interview or question not found"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /interviews/{interview_id}/answer [post]
func (c *InterviewController) SubmitAnswer(ctx *gin.Context) {
	userID, interviewID, ok := c.pathIdentity(ctx)
	if !ok {
		return
	}

	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.interviewService.SubmitAnswer(ctx.Request.Context(), interviewID, userID, req)
	if err != nil {
		c.renderError(ctx, err, "SubmitAnswer")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// VerifyIdentity godoc
// @Summary Run one identity verification poll
// @Description Called on the polling cadence with a webcam snapshot and an optional audio clip. Returns the proctoring outcome; finalized interviews answer idempotently.
// @Tags Proctoring
// @Accept multipart/form-data
// @Produce json
// @Param interview_id path int true "Interview ID"
// @Param snapshot formData file true "Webcam snapshot"
// @Param audio_clip formData file false "Short live audio clip"
// @Param poll_seq formData int false "Monotonic poll sequence number for retry dedupe"
// @Success 200 {object} proctor.Outcome
// @Failure 400 {object} dto.ErrorResponse "No biometric sample on file"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /interviews/{interview_id}/verify [post]
func (c *InterviewController) VerifyIdentity(ctx *gin.Context) {
	userID, interviewID, ok := c.pathIdentity(ctx)
	if !ok {
		return
	}

	snapshotHeader, err := ctx.FormFile("snapshot")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Snapshot file is required"})
		return
	}

	var pollSeq int64
	if raw := ctx.PostForm("poll_seq"); raw != "" {
		if pollSeq, err = strconv.ParseInt(raw, 10, 64); err != nil || pollSeq < 1 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "poll_seq must be a positive integer"})
			return
		}
	}

	snapshotPath, err := c.saveTempUpload(snapshotHeader, fmt.Sprintf("%d_snapshot_%s.jpg", interviewID, uuid.NewString()))
	if err != nil {
		log.Error().Err(err).Msg("VerifyIdentity: failed to save snapshot")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to store snapshot"})
		return
	}
	defer removeTemp(snapshotPath)

	audioClipPath := ""
	if audioHeader, err := ctx.FormFile("audio_clip"); err == nil {
		audioClipPath, err = c.saveTempUpload(audioHeader, fmt.Sprintf("%d_audio_%s.webm", interviewID, uuid.NewString()))
		if err != nil {
			log.Error().Err(err).Msg("VerifyIdentity: failed to save audio clip")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to store audio clip"})
			return
		}
		defer removeTemp(audioClipPath)
	}

	outcome, err := c.proctorService.VerifyIdentity(ctx.Request.Context(), interviewID, userID, pollSeq, snapshotPath, audioClipPath)
	if err != nil {
		c.renderError(ctx, err, "VerifyIdentity")
		return
	}
	ctx.JSON(http.StatusOK, outcome)
}

// Terminate godoc
// @Summary Terminate the interview
// @Description External termination signal (e.g. the candidate switched tabs). Idempotent; an existing termination reason is never overwritten.
// @Tags Proctoring
// @Produce json
// @Param interview_id path int true "Interview ID"
// @Success 200 {object} dto.TerminateResponse
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /interviews/{interview_id}/terminate [post]
func (c *InterviewController) Terminate(ctx *gin.Context) {
	userID, interviewID, ok := c.pathIdentity(ctx)
	if !ok {
		return
	}

	interview, err := c.proctorService.Terminate(interviewID, userID, proctor.ViolationTabSwitch)
	if err != nil {
		c.renderError(ctx, err, "Terminate")
		return
	}

	ctx.JSON(http.StatusOK, dto.TerminateResponse{
		InterviewID:       interview.ID,
		Status:            interview.Status,
		TerminationReason: interview.TerminationReason,
		Message:           "Interview terminated",
	})
}

// Summary godoc
// @Summary Get the interview summary
// @Description Available once the interview is completed or terminated.
// @Tags Interviews
// @Produce json
// @Param interview_id path int true "Interview ID"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} dto.ErrorResponse "Interview not finalized yet"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /interviews/{interview_id}/summary [get]
func (c *InterviewController) Summary(ctx *gin.Context) {
	userID, interviewID, ok := c.pathIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.interviewService.Summary(ctx.Request.Context(), interviewID, userID)
	if err != nil {
		c.renderError(ctx, err, "Summary")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *InterviewController) pathIdentity(ctx *gin.Context) (userID uint, interviewID uint, ok bool) {
	userID, authed := middleware.CurrentUserID(ctx)
	if !authed {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Unauthorized"})
		return 0, 0, false
	}
	raw := ctx.Param("interview_id")
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid interview ID format"})
		return 0, 0, false
	}
	return userID, uint(parsed), true
}

func (c *InterviewController) renderError(ctx *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Not found"})
	case errors.Is(err, service.ErrInterviewFinalized):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Interview is already finalized"})
	case errors.Is(err, service.ErrNotFinalized):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Interview not completed or terminated yet"})
	case errors.Is(err, service.ErrNoSample):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "No samples found"})
	default:
		log.Error().Err(err).Str("op", op).Msg("Interview controller: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal error", Details: []string{err.Error()}})
	}
}

func (c *InterviewController) saveTempUpload(header *multipart.FileHeader, name string) (string, error) {
	if err := os.MkdirAll(c.tempDir, 0o755); err != nil {
		return "", err
	}
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(c.tempDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := dst.ReadFrom(src); err != nil {
		return "", err
	}
	return path, nil
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("Failed to clean up temp file")
	}
}
