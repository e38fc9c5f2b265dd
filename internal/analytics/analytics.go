// Package analytics turns a user's persisted evaluation history into a
// performance report.
//
// Every aggregate is computed independently. A record that lacks the field an
// aggregate needs is skipped for that aggregate only, so a single malformed
// record never breaks the whole report. Input records are expected in
// ascending creation order.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/garvtayal-05/Interview-Platform-sub000/internal/model"
)

const topFeedbackLimit = 5

// RecordLister reads a user's history, oldest first.
type RecordLister interface {
	ListRecordsByUser(ctx context.Context, userID string) ([]model.EvaluationRecord, error)
}

// Load reads the user's history and builds the report.
func Load(ctx context.Context, lister RecordLister, userID string, tr Translator) (*model.PerformanceReport, error) {
	records, err := lister.ListRecordsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return BuildReport(userID, records, tr)
}

// BuildReport combines all aggregates into one report. It fails with
// model.ErrNotFound when the user has no history and model.ErrNoData when no
// record holds an evaluation.
func BuildReport(userID string, records []model.EvaluationRecord, tr Translator) (*model.PerformanceReport, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no evaluation history for user %s", model.ErrNotFound, userID)
	}

	total := totalQuestions(records)
	if total == 0 {
		return nil, fmt.Errorf("%w: no evaluated answers for user %s", model.ErrNoData, userID)
	}

	first, last := activityRange(records)
	feedback := FeedbackAnalysis(records)
	return &model.PerformanceReport{
		UserID:              userID,
		TotalSessions:       len(records),
		TotalQuestions:      total,
		FirstActivity:       first,
		LastActivity:        last,
		OverallScores:       OverallScoreAverages(records),
		CategoryPerformance: CategoryPerformance(records),
		ProgressTrends:      ProgressTrends(records),
		FeedbackAnalysis:    feedback,
		TimingMetrics:       TimingMetrics(records),
		Recommendations:     GenerateRecommendations(feedback.TopWeaknesses, tr),
	}, nil
}

// OverallScoreAverages averages each overall category over the records that
// carry it.
func OverallScoreAverages(records []model.EvaluationRecord) map[string]model.CategoryAverage {
	out := make(map[string]model.CategoryAverage, len(model.OverallCategories))
	for _, cat := range model.OverallCategories {
		var sum float64
		var n int
		for _, r := range records {
			if r.OverallEvaluation == nil {
				continue
			}
			if v, ok := r.OverallEvaluation.Get(cat); ok {
				sum += v
				n++
			}
		}
		out[cat] = model.CategoryAverage{Average: average(sum, n), Count: n}
	}
	return out
}

// CategoryPerformance averages each per-answer category over every answer
// that carries it. Percentage is the share of all answered questions that
// carry the category.
func CategoryPerformance(records []model.EvaluationRecord) map[string]model.CategoryPerformance {
	total := totalQuestions(records)
	out := make(map[string]model.CategoryPerformance, len(model.ScoreCategories))
	for _, cat := range model.ScoreCategories {
		var sum, n int
		for _, r := range records {
			for _, e := range r.Evaluations {
				if v, ok := e.Scores.Get(cat); ok {
					sum += v
					n++
				}
			}
		}
		var pct float64
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		out[cat] = model.CategoryPerformance{
			Average:    average(float64(sum), n),
			Count:      n,
			Percentage: pct,
		}
	}
	return out
}

// ProgressTrends groups finalized records by calendar month of creation and
// averages each overall category per month. Months without a finalized
// record are omitted.
func ProgressTrends(records []model.EvaluationRecord) model.ProgressTrends {
	type acc struct {
		sessions int
		sum      map[string]float64
		n        map[string]int
	}
	months := make(map[string]*acc)
	var keys []string
	for _, r := range records {
		if r.OverallEvaluation == nil {
			continue
		}
		key := r.CreatedAt.UTC().Format("2006-01")
		a, ok := months[key]
		if !ok {
			a = &acc{sum: make(map[string]float64), n: make(map[string]int)}
			months[key] = a
			keys = append(keys, key)
		}
		a.sessions++
		for _, cat := range model.OverallCategories {
			if v, ok := r.OverallEvaluation.Get(cat); ok {
				a.sum[cat] += v
				a.n[cat]++
			}
		}
	}
	sort.Strings(keys)

	trends := model.ProgressTrends{
		Monthly: make([]model.MonthlyTrend, 0, len(keys)),
		Series:  make(map[string][]model.TrendPoint, len(model.OverallCategories)),
	}
	for _, cat := range model.OverallCategories {
		trends.Series[cat] = []model.TrendPoint{}
	}
	for _, key := range keys {
		a := months[key]
		mt := model.MonthlyTrend{Month: key, Sessions: a.sessions, Scores: make(map[string]float64)}
		for _, cat := range model.OverallCategories {
			if a.n[cat] == 0 {
				continue
			}
			avg := average(a.sum[cat], a.n[cat])
			mt.Scores[cat] = avg
			trends.Series[cat] = append(trends.Series[cat], model.TrendPoint{Month: key, Value: avg})
		}
		trends.Monthly = append(trends.Monthly, mt)
	}
	return trends
}

// FeedbackAnalysis counts exact strength and weakness strings and keeps the
// most frequent five of each. Ties keep first-seen order. Recommendations are
// deduplicated in first-seen order.
func FeedbackAnalysis(records []model.EvaluationRecord) model.FeedbackAnalysis {
	var strengths, weaknesses, recs []string
	for _, r := range records {
		strengths = append(strengths, r.Strengths...)
		weaknesses = append(weaknesses, r.Weaknesses...)
		recs = append(recs, r.Recommendations...)
	}
	return model.FeedbackAnalysis{
		TopStrengths:    topCounts(strengths, topFeedbackLimit),
		TopWeaknesses:   topCounts(weaknesses, topFeedbackLimit),
		Recommendations: dedupe(recs),
	}
}

func topCounts(items []string, limit int) []model.FeedbackCount {
	index := make(map[string]int)
	counts := []model.FeedbackCount{}
	for _, s := range items {
		if i, ok := index[s]; ok {
			counts[i].Count++
			continue
		}
		index[s] = len(counts)
		counts = append(counts, model.FeedbackCount{Text: s, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// TimingMetrics reduces each record with evaluations to its mean response and
// processing time, then describes those means. The median is the element at
// index n/2 of the sorted means, which for an even count is the upper of the
// two middle values.
func TimingMetrics(records []model.EvaluationRecord) model.TimingMetrics {
	var response, processing []float64
	for _, r := range records {
		if len(r.Evaluations) == 0 {
			continue
		}
		var rt, pt float64
		for _, e := range r.Evaluations {
			rt += e.ResponseTime
			pt += float64(e.ProcessingTime)
		}
		n := float64(len(r.Evaluations))
		response = append(response, rt/n)
		processing = append(processing, pt/n)
	}
	return model.TimingMetrics{
		Sessions:       len(response),
		ResponseTime:   describe(response),
		ProcessingTime: describe(processing),
	}
}

func describe(values []float64) model.TimingStats {
	if len(values) == 0 {
		return model.TimingStats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var total float64
	for _, v := range sorted {
		total += v
	}
	return model.TimingStats{
		Average: round2(total / float64(len(sorted))),
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		Total:   total,
		Median:  sorted[len(sorted)/2],
	}
}

func totalQuestions(records []model.EvaluationRecord) int {
	n := 0
	for _, r := range records {
		n += len(r.Evaluations)
	}
	return n
}

func activityRange(records []model.EvaluationRecord) (first, last time.Time) {
	for _, r := range records {
		if first.IsZero() || r.CreatedAt.Before(first) {
			first = r.CreatedAt
		}
		seen := r.UpdatedAt
		if seen.Before(r.CreatedAt) {
			seen = r.CreatedAt
		}
		if seen.After(last) {
			last = seen
		}
	}
	return first, last
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := []string{}
	for _, s := range items {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func average(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
