package llm

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/garvtayal-05/Interview-Platform-sub000/internal/model"
)

// ParsedScore is the decoded rubric result for one answer.
type ParsedScore struct {
	Scores   model.Scores
	Feedback string
}

type scorePayload struct {
	Scores   *model.Scores `json:"scores"`
	Feedback *string       `json:"feedback"`
}

type summaryPayload struct {
	OverallScores   *model.OverallEvaluation `json:"overallScores"`
	Strengths       []string                 `json:"strengths"`
	Weaknesses      []string                 `json:"weaknesses"`
	Recommendations []string                 `json:"recommendations"`
}

// ParseScore decodes a rubric response. Scores are taken as reported; values
// outside 1..10 are not clamped.
func ParseScore(raw string) (*ParsedScore, error) {
	var p scorePayload
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &p); err != nil {
		return nil, &model.ParseError{Raw: raw, Err: err}
	}
	if p.Scores == nil {
		return nil, &model.ParseError{Raw: raw, Err: errors.New("missing field: scores")}
	}
	if p.Feedback == nil {
		return nil, &model.ParseError{Raw: raw, Err: errors.New("missing field: feedback")}
	}
	return &ParsedScore{Scores: *p.Scores, Feedback: *p.Feedback}, nil
}

// ParseSummary decodes a holistic session summary. Missing lists become
// empty lists.
func ParseSummary(raw string) (*model.Summary, error) {
	var p summaryPayload
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &p); err != nil {
		return nil, &model.ParseError{Raw: raw, Err: err}
	}

	s := &model.Summary{
		Strengths:       nonNil(p.Strengths),
		Weaknesses:      nonNil(p.Weaknesses),
		Recommendations: nonNil(p.Recommendations),
	}
	if p.OverallScores != nil {
		s.OverallEvaluation = *p.OverallScores
	}
	return s, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CleanJSONBlock removes markdown code fences and any prose around the
// outermost JSON object.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop a language tag such as "json" on the fence line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			first := strings.TrimSpace(text[:idx])
			if len(first) < 20 && !strings.ContainsAny(first, " {") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return text
}
