package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

type fakeSearcher struct {
	results []SearchResult
	err     error
}

func (f *fakeSearcher) SearchSimilar(_ context.Context, _ []float32, _ int) ([]SearchResult, error) {
	return f.results, f.err
}

func TestVectorClassifierVotesByScore(t *testing.T) {
	searcher := &fakeSearcher{results: []SearchResult{
		{Category: "Data Science", Score: 0.6},
		{Category: "Data Engineering", Score: 0.2},
		{Category: "Data Science", Score: 0.2},
		{Category: "", Score: 0.9},
	}}
	c := NewVectorClassifier(&fakeEmbedder{}, searcher)

	got, err := c.Classify(context.Background(), "python and spark pipelines")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Category != "Data Science" {
		t.Fatalf("category = %q", got.Category)
	}
	if got.Confidence != 0.8 {
		t.Fatalf("confidence = %v, want 0.8", got.Confidence)
	}
	if len(got.Skills) != 2 || got.Skills[0] != "Python" || got.Skills[1] != "Spark" {
		t.Fatalf("skills = %v", got.Skills)
	}
}

func TestVectorClassifierLimitsChunks(t *testing.T) {
	embedder := &fakeEmbedder{}
	searcher := &fakeSearcher{results: []SearchResult{{Category: "A", Score: 1}}}
	c := NewVectorClassifier(embedder, searcher)

	paragraph := strings.Repeat("x", 900)
	text := strings.Repeat(paragraph+"\n\n", 6)

	if _, err := c.Classify(context.Background(), text); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if embedder.calls != vectorMaxChunks {
		t.Fatalf("embedded %d chunks, want %d", embedder.calls, vectorMaxChunks)
	}
}

func TestVectorClassifierErrors(t *testing.T) {
	ctx := context.Background()

	c := NewVectorClassifier(&fakeEmbedder{}, &fakeSearcher{})
	if _, err := c.Classify(ctx, "   "); !errors.Is(err, ErrNoText) {
		t.Fatalf("blank text: got %v", err)
	}
	if _, err := c.Classify(ctx, "some resume"); !errors.Is(err, errNoNeighbours) {
		t.Fatalf("empty collection: got %v", err)
	}

	boom := errors.New("boom")
	c = NewVectorClassifier(&fakeEmbedder{err: boom}, &fakeSearcher{})
	if _, err := c.Classify(ctx, "some resume"); !errors.Is(err, boom) {
		t.Fatalf("embed failure: got %v", err)
	}
}

func TestTallyVotesBreaksTiesByName(t *testing.T) {
	name, share, ok := tallyVotes(map[string]float64{"B": 1, "A": 1})
	if !ok || name != "A" || share != 0.5 {
		t.Fatalf("tallyVotes = %q %v %v", name, share, ok)
	}
}
