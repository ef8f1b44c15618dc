package services

import (
	"context"
	"reflect"
	"testing"
)

func TestKeywordClassifierPicksBestCategory(t *testing.T) {
	c := NewKeywordClassifier()

	got, err := c.Classify(context.Background(), "Experienced in Python, pandas, numpy and SQL. Machine learning projects.")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if got.Category != "Data Science" {
		t.Fatalf("category = %q, want Data Science", got.Category)
	}
	if got.Confidence != 0.95 {
		t.Fatalf("confidence = %v, want capped 0.95", got.Confidence)
	}
	want := []string{"Python", "Pandas", "Numpy", "Machine Learning", "Sql"}
	if !reflect.DeepEqual(got.Skills, want) {
		t.Fatalf("skills = %v, want %v", got.Skills, want)
	}
}

func TestKeywordClassifierConfidenceScale(t *testing.T) {
	c := NewKeywordClassifier()

	got, _ := c.Classify(context.Background(), "Terraform and Ansible")
	if got.Category != "DevOps / Cloud" {
		t.Fatalf("category = %q", got.Category)
	}
	if got.Confidence != 0.7 {
		t.Fatalf("confidence = %v, want 0.7", got.Confidence)
	}
}

func TestKeywordClassifierNoMatchFallsBack(t *testing.T) {
	c := NewKeywordClassifier()

	for _, text := range []string{"", "hello world"} {
		got, err := c.Classify(context.Background(), text)
		if err != nil {
			t.Fatalf("Classify(%q): %v", text, err)
		}
		if got.Category != DefaultCategory || got.Confidence != 0.5 {
			t.Fatalf("Classify(%q) = %+v", text, got)
		}
		if !reflect.DeepEqual(got.Skills, []string{"Communication", "Teamwork"}) {
			t.Fatalf("skills = %v", got.Skills)
		}
	}
}

func TestKeywordClassifierTieKeepsEarlierCategory(t *testing.T) {
	c := NewKeywordClassifier()

	got, _ := c.Classify(context.Background(), "figma kafka")
	if got.Category != "UI/UX Design" {
		t.Fatalf("category = %q, want UI/UX Design", got.Category)
	}
}

func TestKeywordClassifierCapsSkills(t *testing.T) {
	c := NewKeywordClassifier()

	text := "javascript typescript react node java c++ c# go docker kubernetes git api microservices"
	got, _ := c.Classify(context.Background(), text)
	if got.Category != "Software Engineering" {
		t.Fatalf("category = %q", got.Category)
	}
	if len(got.Skills) != maxSkills {
		t.Fatalf("expected %d skills, got %d", maxSkills, len(got.Skills))
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"ci/cd":            "Ci/Cd",
		"c++":              "C++",
		"iso 27001":        "Iso 27001",
		"machine learning": "Machine Learning",
		"SQL":              "Sql",
	}
	for in, want := range tests {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractSkillsDeduplicatesAcrossCategories(t *testing.T) {
	got := ExtractSkills("docker and kubernetes, python")
	want := []string{"Python", "Docker", "Kubernetes"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractSkills = %v, want %v", got, want)
	}
}
