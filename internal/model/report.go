package model

import "time"

// CategoryAverage is an average over the records or answers that carry a
// category.
type CategoryAverage struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// CategoryPerformance is a per-answer category aggregated over history.
type CategoryPerformance struct {
	Average    float64 `json:"average"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthlyTrend holds averaged overall scores for one calendar month.
type MonthlyTrend struct {
	Month    string             `json:"month"` // YYYY-MM
	Sessions int                `json:"sessions"`
	Scores   map[string]float64 `json:"scores"`
}

// TrendPoint is one sample of a per-category time series.
type TrendPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// ProgressTrends groups overall scores by month.
type ProgressTrends struct {
	Monthly []MonthlyTrend          `json:"monthly"`
	Series  map[string][]TrendPoint `json:"series"`
}

// FeedbackCount is a feedback string and how often it occurred.
type FeedbackCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// FeedbackAnalysis summarises strengths, weaknesses and recommendations.
type FeedbackAnalysis struct {
	TopStrengths    []FeedbackCount `json:"topStrengths"`
	TopWeaknesses   []FeedbackCount `json:"topWeaknesses"`
	Recommendations []string        `json:"recommendations"`
}

// TimingStats describes a distribution of per-session mean times.
type TimingStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Total   float64 `json:"total"`
	Median  float64 `json:"median"`
}

// TimingMetrics holds response and processing time statistics.
type TimingMetrics struct {
	Sessions       int         `json:"sessions"`
	ResponseTime   TimingStats `json:"responseTime"`
	ProcessingTime TimingStats `json:"processingTime"`
}

// PerformanceReport is the full analytics report for one user.
type PerformanceReport struct {
	UserID              string                         `json:"userId"`
	TotalSessions       int                            `json:"totalSessions"`
	TotalQuestions      int                            `json:"totalQuestions"`
	FirstActivity       time.Time                      `json:"firstActivity"`
	LastActivity        time.Time                      `json:"lastActivity"`
	OverallScores       map[string]CategoryAverage     `json:"overallScores"`
	CategoryPerformance map[string]CategoryPerformance `json:"categoryPerformance"`
	ProgressTrends      ProgressTrends                 `json:"progressTrends"`
	FeedbackAnalysis    FeedbackAnalysis               `json:"feedbackAnalysis"`
	TimingMetrics       TimingMetrics                  `json:"timingMetrics"`
	Recommendations     []string                       `json:"recommendations"`
}
