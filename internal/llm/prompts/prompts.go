package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/garvtayal-05/Interview-Platform-sub000/internal/model"
)

const maxAnswerRunes = 10000

var (
	answerTagRegex   = regexp.MustCompile(`(?i)</?\s*candidate-answer\b[^>]*>`)
	questionTagRegex = regexp.MustCompile(`(?i)</?\s*question\b[^>]*>`)
	evalTagRegex     = regexp.MustCompile(`(?i)</?\s*evaluations\b[^>]*>`)
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// AnswerData holds template data for the per-answer rubric prompt.
type AnswerData struct {
	Question string
	Answer   string
}

// SummaryData holds template data for the holistic session prompt.
type SummaryData struct {
	Count       int
	Evaluations string
}

// BuildAnswerPrompt builds the rubric prompt for one answer.
func BuildAnswerPrompt(question, answer string) (string, error) {
	data := AnswerData{
		Question: stripTags(strings.TrimSpace(question)),
		Answer:   sanitizeAnswer(answer),
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "answer.tmpl", data); err != nil {
		return "", fmt.Errorf("render answer prompt: %w", err)
	}
	return buf.String(), nil
}

// BuildSummaryPrompt builds the holistic prompt embedding every evaluation of
// the session.
func BuildSummaryPrompt(evaluations []model.Evaluation) (string, error) {
	type entry struct {
		Question string       `json:"question"`
		Answer   string       `json:"answer"`
		Scores   model.Scores `json:"scores"`
		Feedback string       `json:"feedback"`
	}
	entries := make([]entry, 0, len(evaluations))
	for _, e := range evaluations {
		entries = append(entries, entry{
			Question: e.Question,
			Answer:   sanitizeAnswer(e.Answer),
			Scores:   e.Scores,
			Feedback: e.Feedback,
		})
	}
	encoded, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode evaluations: %w", err)
	}

	data := SummaryData{
		Count:       len(evaluations),
		Evaluations: evalTagRegex.ReplaceAllString(string(encoded), ""),
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "summary.tmpl", data); err != nil {
		return "", fmt.Errorf("render summary prompt: %w", err)
	}
	return buf.String(), nil
}

func stripTags(s string) string {
	s = answerTagRegex.ReplaceAllString(s, "")
	return questionTagRegex.ReplaceAllString(s, "")
}

func sanitizeAnswer(answer string) string {
	answer = strings.TrimSpace(stripTags(answer))
	if answer == "" {
		return "[No answer provided]"
	}

	if utf8.RuneCountInString(answer) > maxAnswerRunes {
		runes := []rune(answer)
		answer = string(runes[:maxAnswerRunes]) + "\n\n[Answer truncated due to length]"
	}
	return answer
}
