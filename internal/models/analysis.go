package models

import (
	"fmt"
	"math"
	"strings"
)

// AnalysisResult is the job-category prediction returned by POST /predict.
type AnalysisResult struct {
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Skills     []string `json:"skills"`
}

type ConfidenceLevel string

const (
	LevelHigh   ConfidenceLevel = "High"
	LevelMedium ConfidenceLevel = "Medium"
	LevelLow    ConfidenceLevel = "Low"
)

// Percentage is round(confidence*100).
func (r *AnalysisResult) Percentage() int {
	return int(math.Round(r.Confidence * 100))
}

func (r *AnalysisResult) Level() ConfidenceLevel {
	switch {
	case r.Confidence >= 0.8:
		return LevelHigh
	case r.Confidence >= 0.6:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Insight is one templated recommendation shown under the result.
type Insight struct {
	Title string
	Text  string
}

func (r *AnalysisResult) Insights() []Insight {
	top := r.Skills
	if len(top) > 2 {
		top = top[:2]
	}

	return []Insight{
		{
			Title: "Strong Match Indicators",
			Text: fmt.Sprintf("Your resume shows strong alignment with %s roles, "+
				"particularly in technical skills and relevant experience patterns.", r.Category),
		},
		{
			Title: "Career Advancement Tips",
			Text: fmt.Sprintf("Consider highlighting your %s skills when applying for %s positions.",
				strings.Join(top, " and "), r.Category),
		},
	}
}
