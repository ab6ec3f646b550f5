package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

type SampleUploadResponse struct {
	Message  string `json:"message"`
	SampleID uint   `json:"sample_id"`
	FaceID   string `json:"face_id,omitempty"`
}

type StartInterviewResponse struct {
	InterviewID uint   `json:"interview_id"`
	Message     string `json:"message"`
}

// QuestionResponse is returned by the next-question endpoint. When the
// interview is already finalized only Completed/Terminated/Message are set.
type QuestionResponse struct {
	Completed      bool   `json:"completed,omitempty"`
	Terminated     bool   `json:"terminated,omitempty"`
	QuestionID     uint   `json:"question_id,omitempty"`
	Question       string `json:"question,omitempty"`
	Type           string `json:"type,omitempty"`
	TimeLimit      int    `json:"time_limit,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
	QuestionNumber int    `json:"question_number,omitempty"`
	TotalQuestions int    `json:"total_questions,omitempty"`
	AnswerMode     string `json:"answer_mode,omitempty"` // "speaking" or "writing"
	Message        string `json:"message,omitempty"`
}

type AnswerResponse struct {
	AnswerID              uint    `json:"answer_id"`
	Score                 float64 `json:"score"`
	Feedback              string  `json:"feedback"`
	NextQuestionAvailable bool    `json:"next_question_available"`
	InterviewCompleted    bool    `json:"interview_completed"`
}

type TerminateResponse struct {
	InterviewID       uint    `json:"interview_id"`
	Status            string  `json:"status"`
	TerminationReason *string `json:"termination_reason,omitempty"`
	Message           string  `json:"message"`
}

type AnswerBreakdown struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

type SummaryResponse struct {
	InterviewID       uint              `json:"interview_id"`
	InterviewType     string            `json:"interview_type"`
	Status            string            `json:"status"`
	TerminationReason *string           `json:"termination_reason,omitempty"`
	TotalQuestions    int               `json:"total_questions"`
	TotalScore        float64           `json:"total_score"`
	AverageScore      float64           `json:"average_score"`
	Verdict           string            `json:"verdict"`
	Summary           string            `json:"summary"`
	Answers           []AnswerBreakdown `json:"answers"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
}
