package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sk800/ai-interview/internal/dto"
	"github.com/sk800/ai-interview/internal/model"
	"github.com/sk800/ai-interview/internal/repository"
)

// InterviewService owns the interview lifecycle outside of proctoring:
// starting a session, sequencing the 10 questions, recording scored answers
// and assembling the final summary.
type InterviewService interface {
	Start(userID uint, interviewType string) (*model.Interview, error)
	NextQuestion(ctx context.Context, interviewID, userID uint) (*dto.QuestionResponse, error)
	SubmitAnswer(ctx context.Context, interviewID, userID uint, req dto.SubmitAnswerRequest) (*dto.AnswerResponse, error)
	Summary(ctx context.Context, interviewID, userID uint) (*dto.SummaryResponse, error)
}

type interviewService struct {
	interviews repository.InterviewRepository
	questions  repository.QuestionRepository
	answers    repository.AnswerRepository
	samples    SampleService
	generator  QuestionService
	evaluator  EvaluationService
	verdicts   VerdictService
}

func NewInterviewService(
	interviews repository.InterviewRepository,
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
	samples SampleService,
	generator QuestionService,
	evaluator EvaluationService,
	verdicts VerdictService,
) InterviewService {
	return &interviewService{
		interviews: interviews,
		questions:  questions,
		answers:    answers,
		samples:    samples,
		generator:  generator,
		evaluator:  evaluator,
		verdicts:   verdicts,
	}
}

func (s *interviewService) Start(userID uint, interviewType string) (*model.Interview, error) {
	sample, err := s.samples.LatestFor(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up biometric sample: %w", err)
	}
	if sample == nil {
		return nil, ErrNoSample
	}

	interview := model.Interview{
		UserID:        userID,
		InterviewType: interviewType,
		Status:        model.StatusInProgress,
	}
	if err := s.interviews.Create(&interview); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}
	log.Info().Uint("interviewID", interview.ID).Uint("userID", userID).Str("type", interviewType).Msg("Interview started")
	return &interview, nil
}

func (s *interviewService) NextQuestion(ctx context.Context, interviewID, userID uint) (*dto.QuestionResponse, error) {
	interview, err := s.interviews.FindByIDAndUser(interviewID, userID)
	if err != nil {
		return nil, err
	}

	switch interview.Status {
	case model.StatusCompleted:
		return &dto.QuestionResponse{Completed: true, Message: "Interview already completed"}, nil
	case model.StatusTerminated:
		return &dto.QuestionResponse{Completed: true, Terminated: true, Message: "Interview was terminated"}, nil
	}

	answeredCount, err := s.answers.CountByInterview(interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to count answers: %w", err)
	}
	if answeredCount >= model.TotalQuestions {
		if err := s.complete(interview); err != nil {
			return nil, err
		}
		return &dto.QuestionResponse{Completed: true, Message: "Interview completed"}, nil
	}

	generated := s.generator.NextQuestion(ctx, interview.InterviewType, int(answeredCount))
	question := model.Question{
		InterviewID:  interviewID,
		QuestionText: generated.Question,
		QuestionType: generated.Type,
		TimeLimit:    generated.TimeLimit,
		Difficulty:   generated.Difficulty,
		Position:     int(answeredCount) + 1,
	}
	if err := s.questions.Create(&question); err != nil {
		return nil, fmt.Errorf("failed to persist question: %w", err)
	}

	answerMode := "writing"
	if rand.Intn(2) == 0 {
		answerMode = "speaking"
	}

	return &dto.QuestionResponse{
		QuestionID:     question.ID,
		Question:       question.QuestionText,
		Type:           question.QuestionType,
		TimeLimit:      question.TimeLimit,
		Difficulty:     question.Difficulty,
		QuestionNumber: question.Position,
		TotalQuestions: model.TotalQuestions,
		AnswerMode:     answerMode,
	}, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, interviewID, userID uint, req dto.SubmitAnswerRequest) (*dto.AnswerResponse, error) {
	interview, err := s.interviews.FindByIDAndUser(interviewID, userID)
	if err != nil {
		return nil, err
	}
	if interview.Finalized() {
		return nil, ErrInterviewFinalized
	}

	question, err := s.questions.FindByIDAndInterview(req.QuestionID, interviewID)
	if err != nil {
		return nil, err
	}

	// Evaluate whatever was provided, even an empty answer.
	score, feedback := s.evaluator.EvaluateAnswer(ctx, question, req.AnswerText, interview.InterviewType)

	answer := model.Answer{
		InterviewID: interviewID,
		QuestionID:  question.ID,
		AnswerText:  req.AnswerText,
		Score:       score,
		Feedback:    feedback,
	}
	if err := s.answers.Create(&answer); err != nil {
		return nil, fmt.Errorf("failed to persist answer: %w", err)
	}

	answeredCount, err := s.answers.CountByInterview(interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to count answers: %w", err)
	}
	completed := answeredCount >= model.TotalQuestions
	if completed {
		if err := s.complete(interview); err != nil {
			return nil, err
		}
	}

	return &dto.AnswerResponse{
		AnswerID:              answer.ID,
		Score:                 answer.Score,
		Feedback:              answer.Feedback,
		NextQuestionAvailable: !completed,
		InterviewCompleted:    completed,
	}, nil
}

// complete flips an in-progress interview to completed under the row lock,
// so a concurrent termination cannot be overwritten: whichever terminal
// status lands first freezes the session.
func (s *interviewService) complete(interview *model.Interview) error {
	updated, err := s.interviews.UpdateLocked(interview.ID, interview.UserID, func(iv *model.Interview) error {
		if iv.Finalized() {
			return nil
		}
		now := time.Now()
		iv.Status = model.StatusCompleted
		iv.CompletedAt = &now
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to complete interview: %w", err)
	}
	*interview = *updated
	log.Info().Uint("interviewID", interview.ID).Str("status", interview.Status).Msg("Interview finalized")
	return nil
}

func (s *interviewService) Summary(ctx context.Context, interviewID, userID uint) (*dto.SummaryResponse, error) {
	interview, err := s.interviews.FindByIDAndUser(interviewID, userID)
	if err != nil {
		return nil, err
	}
	if !interview.Finalized() {
		return nil, ErrNotFinalized
	}

	answers, err := s.answers.FindByInterviewWithQuestions(interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	totalScore := 0.0
	for _, answer := range answers {
		totalScore += answer.Score
	}
	averageScore := 0.0
	if len(answers) > 0 {
		averageScore = totalScore / float64(len(answers))
	}

	breakdown := make([]dto.AnswerBreakdown, len(answers))
	for i, answer := range answers {
		if err := copier.Copy(&breakdown[i], &answer); err != nil {
			log.Error().Err(err).Uint("answerID", answer.ID).Msg("Summary: failed to copy answer to breakdown")
			continue
		}
		breakdown[i].Question = answer.Question.QuestionText
		breakdown[i].Answer = answer.AnswerText
	}

	return &dto.SummaryResponse{
		InterviewID:       interview.ID,
		InterviewType:     interview.InterviewType,
		Status:            interview.Status,
		TerminationReason: interview.TerminationReason,
		TotalQuestions:    len(answers),
		TotalScore:        totalScore,
		AverageScore:      averageScore,
		Verdict:           s.verdicts.VerdictFor(averageScore),
		Summary:           s.evaluator.GenerateSummary(ctx, interview, answers),
		Answers:           breakdown,
		CompletedAt:       interview.CompletedAt,
	}, nil
}
