package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sk800/ai-interview/internal/model"
)

type stubGeminiClient struct {
	available  bool
	response   string
	err        error
	lastPrompt string
}

func (c *stubGeminiClient) Available() bool { return c.available }

func (c *stubGeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	c.lastPrompt = prompt
	return c.response, c.err
}

func TestEvaluateAnswerFallbackWhenUnavailable(t *testing.T) {
	svc := NewEvaluationService(&stubGeminiClient{available: false})

	score, feedback := svc.EvaluateAnswer(context.Background(), &model.Question{QuestionText: "Q"}, "A", "ai")
	if score != fallbackScore {
		t.Errorf("score = %v, want %v", score, fallbackScore)
	}
	if feedback != fallbackFeedback {
		t.Errorf("feedback = %q, want %q", feedback, fallbackFeedback)
	}
}

func TestEvaluateAnswerFallbackOnError(t *testing.T) {
	svc := NewEvaluationService(&stubGeminiClient{available: true, err: errors.New("quota exceeded")})

	score, feedback := svc.EvaluateAnswer(context.Background(), &model.Question{QuestionText: "Q"}, "A", "ai")
	if score != fallbackScore || feedback != fallbackFeedback {
		t.Errorf("got (%v, %q), want fallback", score, feedback)
	}
}

func TestEvaluateAnswerParsesAndClamps(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		wantScore    float64
		wantFeedback string
	}{
		{
			name:         "well formed",
			response:     "Score: 82\nFeedback:\nSolid answer with concrete examples.",
			wantScore:    82,
			wantFeedback: "Solid answer with concrete examples.",
		},
		{
			name:         "score above ceiling is clamped",
			response:     "Score: 140\nFeedback: Excellent.",
			wantScore:    100,
			wantFeedback: "Excellent.",
		},
		{
			name:         "negative score is clamped to zero",
			response:     "Score: -10\nFeedback: Off topic.",
			wantScore:    0,
			wantFeedback: "Off topic.",
		},
		{
			name:         "trailing words on the score line",
			response:     "Score: 75 out of 100\nFeedback: Good coverage.",
			wantScore:    75,
			wantFeedback: "Good coverage.",
		},
		{
			name:         "missing score prefix falls back",
			response:     "The answer was decent overall.",
			wantScore:    fallbackScore,
			wantFeedback: fallbackFeedback,
		},
		{
			name:         "unparseable score keeps feedback",
			response:     "Score: excellent\nFeedback: Strong fundamentals.",
			wantScore:    fallbackScore,
			wantFeedback: "Strong fundamentals.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEvaluationService(&stubGeminiClient{available: true, response: tt.response})
			score, feedback := svc.EvaluateAnswer(context.Background(), &model.Question{QuestionText: "Q"}, "A", "ai")
			if score != tt.wantScore {
				t.Errorf("score = %v, want %v", score, tt.wantScore)
			}
			if feedback != tt.wantFeedback {
				t.Errorf("feedback = %q, want %q", feedback, tt.wantFeedback)
			}
		})
	}
}

func TestGenerateSummaryFallback(t *testing.T) {
	svc := NewEvaluationService(&stubGeminiClient{available: false})
	answers := []model.Answer{{Score: 80}, {Score: 60}}

	summary := svc.GenerateSummary(context.Background(), &model.Interview{}, answers)
	if !strings.Contains(summary, "70.00/100") {
		t.Errorf("summary = %q, want it to contain the 70.00/100 average", summary)
	}
}

func TestGenerateSummaryFallbackWithNoAnswers(t *testing.T) {
	svc := NewEvaluationService(&stubGeminiClient{available: false})

	summary := svc.GenerateSummary(context.Background(), &model.Interview{}, nil)
	if !strings.Contains(summary, "0.00/100") {
		t.Errorf("summary = %q, want the zero average", summary)
	}
}

func TestGenerateSummaryUsesModelText(t *testing.T) {
	svc := NewEvaluationService(&stubGeminiClient{available: true, response: "  Strong candidate overall.\n"})

	summary := svc.GenerateSummary(context.Background(), &model.Interview{}, []model.Answer{{Score: 90}})
	if summary != "Strong candidate overall." {
		t.Errorf("summary = %q", summary)
	}
}

func TestGenerateSummaryPromptCarriesScores(t *testing.T) {
	gemini := &stubGeminiClient{available: true, response: "ok"}
	svc := NewEvaluationService(gemini)

	answers := []model.Answer{
		{Question: model.Question{QuestionText: "Q one"}, AnswerText: "A one", Score: 87.5},
		{Question: model.Question{QuestionText: "Q two"}, AnswerText: "A two", Score: 42},
	}
	svc.GenerateSummary(context.Background(), &model.Interview{InterviewType: "ai"}, answers)

	for _, want := range []string{"Q1: Q one", "A1: A one", "Score: 87.5", "Score: 42.0"} {
		if !strings.Contains(gemini.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(gemini.lastPrompt, "%!") {
		t.Errorf("prompt contains a formatting error: %q", gemini.lastPrompt)
	}
}
