package services

import (
	"context"
	"math"
	"strings"
	"unicode"

	"alfredoptarigan/resume-predictor/internal/models"
)

const (
	DefaultCategory = "General"
	maxSkills       = 10
)

var fallbackSkills = []string{"Communication", "Teamwork"}

// JobCategory is a category and the lower-case keywords that vote for it.
type JobCategory struct {
	Name     string
	Keywords []string
}

// Categories is ordered; on equal scores the earlier category wins.
var Categories = []JobCategory{
	{"Data Science", []string{"python", "pandas", "numpy", "machine learning", "statistics", "sql", "scikit", "tensorflow", "pytorch", "data analysis"}},
	{"Software Engineering", []string{"javascript", "typescript", "react", "node", "java", "c++", "c#", "go", "docker", "kubernetes", "git", "api", "microservices"}},
	{"DevOps / Cloud", []string{"aws", "azure", "gcp", "terraform", "ansible", "ci/cd", "jenkins", "kubernetes", "docker", "linux", "sre"}},
	{"Product Management", []string{"product", "roadmap", "stakeholder", "metrics", "kpi", "user research", "backlog", "agile", "scrum"}},
	{"UI/UX Design", []string{"figma", "sketch", "wireframe", "prototype", "ux", "ui", "usability", "design system", "adobe"}},
	{"Data Engineering", []string{"spark", "airflow", "kafka", "hadoop", "etl", "data pipeline", "snowflake", "redshift", "databricks"}},
	{"Cybersecurity", []string{"security", "siem", "soc", "incident response", "vulnerability", "nist", "owasp", "splunk", "iso 27001"}},
}

// Classifier turns résumé text into an analysis.
type Classifier interface {
	Classify(ctx context.Context, text string) (*models.AnalysisResult, error)
	Source() models.PredictionSource
}

type keywordClassifier struct {
	categories []JobCategory
}

func NewKeywordClassifier() Classifier {
	return &keywordClassifier{categories: Categories}
}

func (k *keywordClassifier) Source() models.PredictionSource {
	return models.SourceHeuristic
}

// Classify implements Classifier. Keywords are matched as substrings of the lower-cased text.
func (k *keywordClassifier) Classify(_ context.Context, text string) (*models.AnalysisResult, error) {
	textLower := strings.ToLower(text)

	bestCategory := DefaultCategory
	bestScore := 0
	var bestSkills []string

	for _, category := range k.categories {
		var matched []string
		for _, kw := range category.Keywords {
			if strings.Contains(textLower, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > bestScore {
			bestScore = len(matched)
			bestCategory = category.Name
			bestSkills = matched
		}
	}

	confidence := 0.5
	if bestScore > 0 {
		confidence = math.Min(0.95, 0.5+float64(bestScore)/10.0)
	}

	return &models.AnalysisResult{
		Category:   bestCategory,
		Confidence: round2(confidence),
		Skills:     displaySkills(bestSkills),
	}, nil
}

// ExtractSkills collects keywords from every category, first occurrence order.
func ExtractSkills(text string) []string {
	textLower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var matched []string

	for _, category := range Categories {
		for _, kw := range category.Keywords {
			if _, ok := seen[kw]; ok {
				continue
			}
			if strings.Contains(textLower, kw) {
				seen[kw] = struct{}{}
				matched = append(matched, kw)
			}
		}
	}

	return displaySkills(matched)
}

func displaySkills(keywords []string) []string {
	if len(keywords) == 0 {
		return append([]string(nil), fallbackSkills...)
	}
	if len(keywords) > maxSkills {
		keywords = keywords[:maxSkills]
	}
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = TitleCase(kw)
	}
	return out
}

// TitleCase upper-cases every letter that follows a non-letter and lower-cases the rest,
// so "ci/cd" becomes "Ci/Cd" and "iso 27001" becomes "Iso 27001".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
