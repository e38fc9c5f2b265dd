package analytics

import (
	"strings"

	"github.com/garvtayal-05/Interview-Platform-sub000/internal/model"
)

// Translator resolves a message ID to display text.
type Translator func(messageID string) string

// Advice message IDs.
const (
	AdviceTechnicalFundamentals  = "AdviceTechnicalFundamentals"
	AdviceTechnicalPractice      = "AdviceTechnicalPractice"
	AdviceCommunicationStructure = "AdviceCommunicationStructure"
	AdviceCommunicationPractice  = "AdviceCommunicationPractice"
	AdviceConfidenceMockSessions = "AdviceConfidenceMockSessions"
	AdviceConfidencePreparation  = "AdviceConfidencePreparation"
	AdviceProblemSolvingThinking = "AdviceProblemSolvingThinking"
	AdviceGeneralRegularPractice = "AdviceGeneralRegularPractice"
	AdviceGeneralReviewFeedback  = "AdviceGeneralReviewFeedback"
	AdviceGeneralTimeAnswers     = "AdviceGeneralTimeAnswers"
)

// weaknessRules map a phrase found in a weakness to the advice it triggers.
var weaknessRules = []struct {
	phrase string
	advice []string
}{
	{"technical knowledge", []string{AdviceTechnicalFundamentals, AdviceTechnicalPractice}},
	{"communication", []string{AdviceCommunicationStructure, AdviceCommunicationPractice}},
	{"confidence", []string{AdviceConfidenceMockSessions, AdviceConfidencePreparation}},
	{"problem solving", []string{AdviceProblemSolvingThinking}},
}

var generalAdvice = []string{
	AdviceGeneralRegularPractice,
	AdviceGeneralReviewFeedback,
	AdviceGeneralTimeAnswers,
}

// GenerateRecommendations derives advice from the top weaknesses, followed by
// the general advice, without duplicates. A nil tr returns message IDs.
func GenerateRecommendations(topWeaknesses []model.FeedbackCount, tr Translator) []string {
	if tr == nil {
		tr = func(id string) string { return id }
	}

	var ids []string
	for _, w := range topWeaknesses {
		text := strings.ToLower(w.Text)
		for _, rule := range weaknessRules {
			if strings.Contains(text, rule.phrase) {
				ids = append(ids, rule.advice...)
			}
		}
	}
	ids = append(ids, generalAdvice...)

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, tr(id))
	}
	return dedupe(out)
}
