package model

import (
	"time"
)

// Score categories assigned to every answer.
const (
	CategoryCorrectness = "correctness"
	CategoryGrammar     = "grammar"
	CategoryVocabulary  = "vocabulary"
	CategoryFluency     = "fluency"
	CategoryConfidence  = "confidence"
	CategoryRelevance   = "relevance"
)

// Overall categories assigned once per session at finalization.
const (
	OverallTechnical      = "technical"
	OverallCommunication  = "communication"
	OverallProblemSolving = "problemSolving"
	OverallConfidence     = "confidence"
)

// ScoreCategories lists the per-answer categories in report order.
var ScoreCategories = []string{
	CategoryCorrectness,
	CategoryGrammar,
	CategoryVocabulary,
	CategoryFluency,
	CategoryConfidence,
	CategoryRelevance,
}

// OverallCategories lists the holistic categories in report order.
var OverallCategories = []string{
	OverallTechnical,
	OverallCommunication,
	OverallProblemSolving,
	OverallConfidence,
}

// Scores holds the six rubric scores for one answer. A nil field means the
// category was not reported.
type Scores struct {
	Correctness *int `json:"correctness,omitempty"`
	Grammar     *int `json:"grammar,omitempty"`
	Vocabulary  *int `json:"vocabulary,omitempty"`
	Fluency     *int `json:"fluency,omitempty"`
	Confidence  *int `json:"confidence,omitempty"`
	Relevance   *int `json:"relevance,omitempty"`
}

// Get returns the score for a category and whether it is present.
func (s Scores) Get(category string) (int, bool) {
	var p *int
	switch category {
	case CategoryCorrectness:
		p = s.Correctness
	case CategoryGrammar:
		p = s.Grammar
	case CategoryVocabulary:
		p = s.Vocabulary
	case CategoryFluency:
		p = s.Fluency
	case CategoryConfidence:
		p = s.Confidence
	case CategoryRelevance:
		p = s.Relevance
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// OverallEvaluation holds the holistic session scores.
type OverallEvaluation struct {
	Technical      *float64 `json:"technical,omitempty"`
	Communication  *float64 `json:"communication,omitempty"`
	ProblemSolving *float64 `json:"problemSolving,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
}

// Get returns the value for an overall category and whether it is present.
func (o OverallEvaluation) Get(category string) (float64, bool) {
	var p *float64
	switch category {
	case OverallTechnical:
		p = o.Technical
	case OverallCommunication:
		p = o.Communication
	case OverallProblemSolving:
		p = o.ProblemSolving
	case OverallConfidence:
		p = o.Confidence
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Evaluation is one scored answer.
type Evaluation struct {
	Question       string  `json:"question"`
	Answer         string  `json:"answer"`
	ResponseTime   float64 `json:"responseTime"`   // client-reported seconds
	ProcessingTime int64   `json:"processingTime"` // server-measured milliseconds
	Scores         Scores  `json:"scores"`
	Feedback       string  `json:"feedback"`
}

// AnswerEntry is an answer as recorded in the live session.
type AnswerEntry struct {
	Question     string  `json:"question"`
	Answer       string  `json:"answer"`
	ResponseTime float64 `json:"responseTime"`
}

// Session is the in-memory record of one user's in-progress answer sequence.
type Session struct {
	SessionID   string
	UserID      string
	Answers     []AnswerEntry
	Evaluations []Evaluation
	StartTime   time.Time
}

// EvaluationRecord is the persisted document for one session.
type EvaluationRecord struct {
	ID                int64              `json:"id"`
	UserID            string             `json:"userId"`
	SessionID         string             `json:"sessionId"`
	Evaluations       []Evaluation       `json:"evaluations"`
	OverallEvaluation *OverallEvaluation `json:"overallEvaluation,omitempty"`
	Strengths         []string           `json:"strengths,omitempty"`
	Weaknesses        []string           `json:"weaknesses,omitempty"`
	Recommendations   []string           `json:"recommendations,omitempty"`
	SessionDuration   int64              `json:"sessionDuration"` // milliseconds
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	FinalizedAt       *time.Time         `json:"finalizedAt,omitempty"`
}

// Summary is the holistic result produced at finalization.
type Summary struct {
	OverallEvaluation OverallEvaluation `json:"overallScores"`
	Strengths         []string          `json:"strengths"`
	Weaknesses        []string          `json:"weaknesses"`
	Recommendations   []string          `json:"recommendations"`
}

// ServiceConfig holds runtime parameters set via CLI flags.
type ServiceConfig struct {
	Lang           string  // UI and message language (en, ru)
	LLMModel       string
	LLMTemperature float32
}
