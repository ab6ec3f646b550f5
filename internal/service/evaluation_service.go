package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sk800/ai-interview/internal/model"
)

const maxAnswerScore = 100.0

// Fallback values used whenever the language model is unavailable or returns
// something unparseable. Scoring must never block an interview.
const (
	fallbackScore    = 50.0
	fallbackFeedback = "Answer received. Evaluation pending."
)

// EvaluationService scores free-text answers and writes the final interview
// summary. Both operations degrade deterministically instead of failing.
type EvaluationService interface {
	EvaluateAnswer(ctx context.Context, question *model.Question, answerText, interviewType string) (score float64, feedback string)
	GenerateSummary(ctx context.Context, interview *model.Interview, answers []model.Answer) string
}

type evaluationService struct {
	gemini GeminiClient
}

func NewEvaluationService(gemini GeminiClient) EvaluationService {
	return &evaluationService{gemini: gemini}
}

func (s *evaluationService) EvaluateAnswer(ctx context.Context, question *model.Question, answerText, interviewType string) (float64, string) {
	if !s.gemini.Available() {
		return fallbackScore, fallbackFeedback
	}

	var prompt strings.Builder
	prompt.WriteString("You are an expert interview evaluator.\n")
	prompt.WriteString("Evaluate the following interview answer.\n\n")
	prompt.WriteString(fmt.Sprintf("Interview Type: %s\n", interviewType))
	prompt.WriteString(fmt.Sprintf("Question: %s\n", question.QuestionText))
	prompt.WriteString(fmt.Sprintf("Answer: %s\n\n", answerText))
	prompt.WriteString(fmt.Sprintf(`Provide:
1. A numerical score from 0 to %.0f reflecting the quality of the answer.
2. Detailed, constructive feedback.

Format your response strictly as:
Score: [Your Numerical Score Here]
Feedback:
[Your Detailed Feedback Here]
`, maxAnswerScore))

	raw, err := s.gemini.GenerateText(ctx, prompt.String())
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("EvaluateAnswer: Gemini call failed, using fallback score")
		return fallbackScore, fallbackFeedback
	}

	scoreStr, feedback, err := parseScoreAndFeedback(raw)
	if err != nil {
		log.Warn().Err(err).Str("rawResponse", raw).Msg("EvaluateAnswer: Failed to parse score and feedback from response")
		return fallbackScore, fallbackFeedback
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(scoreStr), 64)
	if err != nil {
		log.Warn().Err(err).Str("scoreStr", scoreStr).Msg("EvaluateAnswer: Failed to parse score string to float")
		return fallbackScore, feedback
	}

	if score > maxAnswerScore {
		score = maxAnswerScore
	}
	if score < 0 {
		score = 0
	}
	return score, strings.TrimSpace(feedback)
}

func (s *evaluationService) GenerateSummary(ctx context.Context, interview *model.Interview, answers []model.Answer) string {
	totalScore := 0.0
	for _, answer := range answers {
		totalScore += answer.Score
	}
	averageScore := 0.0
	if len(answers) > 0 {
		averageScore = totalScore / float64(len(answers))
	}
	fallback := fmt.Sprintf("Interview completed. Average score: %.2f/100. Review your answers for detailed feedback.", averageScore)

	if !s.gemini.Available() {
		return fallback
	}

	var prompt strings.Builder
	prompt.WriteString("You are an expert interview evaluator providing comprehensive feedback.\n")
	prompt.WriteString("Generate a comprehensive interview summary.\n\n")
	prompt.WriteString(fmt.Sprintf("Interview Type: %s\n", interview.InterviewType))
	prompt.WriteString(fmt.Sprintf("Total Questions: %d\n", len(answers)))
	prompt.WriteString(fmt.Sprintf("Average Score: %.2f/100\n\n", averageScore))
	prompt.WriteString("Questions and Answers:\n")
	for i, answer := range answers {
		prompt.WriteString(fmt.Sprintf("Q%d: %s\nA%d: %s\nScore: %.1f\n\n", i+1, answer.Question.QuestionText, i+1, answer.AnswerText, answer.Score))
	}
	prompt.WriteString(`Provide a detailed summary including:
1. Overall performance assessment
2. Strengths
3. Areas for improvement
4. Final recommendation

Be professional and constructive.`)

	summary, err := s.gemini.GenerateText(ctx, prompt.String())
	if err != nil {
		log.Error().Err(err).Uint("interviewID", interview.ID).Msg("GenerateSummary: Gemini call failed, using fallback summary")
		return fallback
	}
	return strings.TrimSpace(summary)
}

// parseScoreAndFeedback splits a "Score: ...\nFeedback: ..." model response.
func parseScoreAndFeedback(rawResponse string) (scoreStr string, feedbackStr string, err error) {
	scorePrefix := "Score:"
	feedbackPrefix := "Feedback:"

	scoreIndex := strings.Index(rawResponse, scorePrefix)
	feedbackIndex := strings.Index(rawResponse, feedbackPrefix)

	if scoreIndex == -1 {
		return "", rawResponse, fmt.Errorf("response does not contain 'Score:' prefix")
	}

	endOfScoreLine := strings.Index(rawResponse[scoreIndex:], "\n")
	if endOfScoreLine == -1 {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix):])
	} else {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix) : scoreIndex+endOfScoreLine])
	}

	if feedbackIndex != -1 && feedbackIndex > scoreIndex {
		feedbackStr = strings.TrimSpace(rawResponse[feedbackIndex+len(feedbackPrefix):])
	} else if endOfScoreLine != -1 && len(rawResponse) > scoreIndex+endOfScoreLine+1 {
		feedbackStr = strings.TrimSpace(rawResponse[scoreIndex+endOfScoreLine+1:])
	} else {
		feedbackStr = "Feedback not found in the expected format after the score."
	}

	// The score line may carry trailing words; keep the leading number only.
	parts := strings.Fields(scoreStr)
	if len(parts) > 0 {
		scoreStr = parts[0]
	}

	return scoreStr, feedbackStr, nil
}
