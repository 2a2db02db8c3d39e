package domain

import (
	"encoding/json"
	"time"
)

// PassingThreshold is the percentage at or above which a respondent earns SWAG.
const PassingThreshold = 80

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID            int      `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// PublicQuestion is the view of a question sent to respondents before they answer.
type PublicQuestion struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// Submission maps question IDs to the option index the respondent picked.
type Submission map[int]int

// AnswerRecord is the per-question outcome inside a Result.
type AnswerRecord struct {
	QuestionID int  `json:"questionId"`
	Selected   *int `json:"selectedAnswer,omitempty"` // nil when unanswered
	IsCorrect  bool `json:"isCorrect"`
}

// Result is the scored outcome of a submission.
type Result struct {
	Score          int            `json:"score"`
	CorrectAnswers int            `json:"correctAnswers"`
	TotalQuestions int            `json:"totalQuestions"`
	Percentage     int            `json:"percentage"`
	Passed         bool           `json:"passed"`
	Answers        []AnswerRecord `json:"answers"`
}

// StoredResult is what the result store keeps per submission.
type StoredResult struct {
	ID        string          `json:"id"`
	Result    Result          `json:"result"`
	Timestamp string          `json:"timestamp"`
	LeadData  json.RawMessage `json:"leadData,omitempty"`
}

// SubmitRequest carries one quiz submission from the transport layer.
type SubmitRequest struct {
	LeadData  json.RawMessage
	Answers   Submission
	Timestamp string
}

// Submitted is returned to the submitter; it never includes lead data.
type Submitted struct {
	ID     string `json:"id"`
	Result Result `json:"result"`
}

// Retrieved is the public view of a stored result.
type Retrieved struct {
	Result    Result `json:"result"`
	Timestamp string `json:"timestamp"`
}

// Outcome is broadcast to feed subscribers after each submission.
type Outcome struct {
	ID             string    `json:"id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	Passed         bool      `json:"passed"`
	At             time.Time `json:"at"`
}

// ResultMessage is the headline copy shown alongside a result.
type ResultMessage struct {
	Title           string `json:"title"`
	Message         string `json:"message"`
	ShowSwagMessage bool   `json:"showSwagMessage"`
}

// AnswerReview pairs an answer with the question content for the results page.
type AnswerReview struct {
	QuestionID    int      `json:"questionId"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	Selected      *int     `json:"selectedAnswer,omitempty"`
	CorrectOption int      `json:"correctAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
	Explanation   string   `json:"explanation"`
}
