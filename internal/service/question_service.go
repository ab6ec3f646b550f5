package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sk800/ai-interview/config"
	"github.com/sk800/ai-interview/internal/model"
	"gopkg.in/yaml.v3"
)

const defaultTimeLimit = 300 // seconds

// GeneratedQuestion is a question ready to be persisted for an interview.
type GeneratedQuestion struct {
	Question   string `yaml:"question"`
	Type       string `yaml:"type"`
	TimeLimit  int    `yaml:"time_limit"`
	Difficulty string `yaml:"difficulty"`
}

// questionBank maps an interview type to its ordered list of canned questions.
type questionBank map[string][]GeneratedQuestion

// QuestionService produces the next question of an interview: bank-first,
// then language-model generation, then a static fallback. It never fails.
type QuestionService interface {
	NextQuestion(ctx context.Context, interviewType string, questionNumber int) GeneratedQuestion
}

type questionService struct {
	bank   questionBank
	gemini GeminiClient
}

func NewQuestionService(cfg *config.Config, gemini GeminiClient) QuestionService {
	bank, err := loadQuestionBank(cfg.Storage.QuestionBankPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Storage.QuestionBankPath).Msg("Question bank not loaded, relying on generation")
		bank = questionBank{}
	}
	return &questionService{bank: bank, gemini: gemini}
}

func loadQuestionBank(path string) (questionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}
	var bank questionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	return bank, nil
}

// difficultyFor ramps the interview: questions 1-3 easy, 4-7 medium, rest hard.
// questionNumber is zero-based (the count of already answered questions).
func difficultyFor(questionNumber int) string {
	switch {
	case questionNumber < 3:
		return "easy"
	case questionNumber < 7:
		return "medium"
	default:
		return "hard"
	}
}

func (s *questionService) NextQuestion(ctx context.Context, interviewType string, questionNumber int) GeneratedQuestion {
	if questions, ok := s.bank[interviewType]; ok && questionNumber < len(questions) {
		q := questions[questionNumber]
		if q.Type == "" {
			q.Type = "text"
		}
		if q.TimeLimit <= 0 {
			q.TimeLimit = defaultTimeLimit
		}
		if q.Difficulty == "" {
			q.Difficulty = "medium"
		}
		return q
	}
	return s.generateQuestion(ctx, interviewType, questionNumber)
}

func (s *questionService) generateQuestion(ctx context.Context, interviewType string, questionNumber int) GeneratedQuestion {
	difficulty := difficultyFor(questionNumber)
	fallback := GeneratedQuestion{
		Question:   fmt.Sprintf("Tell me about your experience with %s.", interviewType),
		Type:       "text",
		TimeLimit:  defaultTimeLimit,
		Difficulty: "medium",
	}

	if !s.gemini.Available() {
		return fallback
	}

	prompt := fmt.Sprintf(`You are an expert interview question generator.
Generate an interview question for a %s interview.
Question number: %d out of %d
Difficulty: %s

The question should be:
- Clear and specific
- Appropriate for the difficulty level
- Can be answered in text or spoken format
- Have a time limit of 3-5 minutes

Return ONLY the question text, nothing else.`, interviewType, questionNumber+1, model.TotalQuestions, difficulty)

	text, err := s.gemini.GenerateText(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("interviewType", interviewType).Int("questionNumber", questionNumber).
			Msg("NextQuestion: generation failed, using fallback question")
		return fallback
	}

	return GeneratedQuestion{
		Question:   strings.TrimSpace(text),
		Type:       "text",
		TimeLimit:  defaultTimeLimit,
		Difficulty: difficulty,
	}
}
