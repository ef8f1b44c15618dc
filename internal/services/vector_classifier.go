package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"alfredoptarigan/resume-predictor/internal/models"
)

const (
	vectorChunkSize    = 1000
	vectorChunkOverlap = 100
	vectorMaxChunks    = 3
	vectorTopK         = 10
)

var errNoNeighbours = errors.New("no labelled neighbours found")

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type VectorSearcher interface {
	SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error)
}

// vectorClassifier votes over the nearest labelled résumé chunks loaded by the ingest script.
type vectorClassifier struct {
	embedder Embedder
	searcher VectorSearcher
	chunker  TextChunker
}

func NewVectorClassifier(embedder Embedder, searcher VectorSearcher) Classifier {
	return &vectorClassifier{
		embedder: embedder,
		searcher: searcher,
		chunker:  NewTextChunker(),
	}
}

func (v *vectorClassifier) Source() models.PredictionSource {
	return models.SourceVector
}

// Classify implements Classifier. Confidence is the winning category's share of the
// summed similarity scores.
func (v *vectorClassifier) Classify(ctx context.Context, text string) (*models.AnalysisResult, error) {
	chunks := v.chunker.ChunkText(text, vectorChunkSize, vectorChunkOverlap)
	if len(chunks) == 0 {
		return nil, ErrNoText
	}
	if len(chunks) > vectorMaxChunks {
		chunks = chunks[:vectorMaxChunks]
	}

	votes := make(map[string]float64)
	for i, chunk := range chunks {
		embedding, err := v.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", i, err)
		}

		neighbours, err := v.searcher.SearchSimilar(ctx, embedding, vectorTopK)
		if err != nil {
			return nil, fmt.Errorf("search chunk %d: %w", i, err)
		}

		for _, n := range neighbours {
			if n.Category == "" || n.Score <= 0 {
				continue
			}
			votes[n.Category] += float64(n.Score)
		}
	}

	category, share, ok := tallyVotes(votes)
	if !ok {
		return nil, errNoNeighbours
	}

	return &models.AnalysisResult{
		Category:   category,
		Confidence: round2(share),
		Skills:     ExtractSkills(text),
	}, nil
}

// tallyVotes picks the highest-scoring category, breaking ties by name.
func tallyVotes(votes map[string]float64) (string, float64, bool) {
	if len(votes) == 0 {
		return "", 0, false
	}

	names := make([]string, 0, len(votes))
	total := 0.0
	for name, score := range votes {
		names = append(names, name)
		total += score
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if votes[name] > votes[best] {
			best = name
		}
	}

	if total <= 0 {
		return "", 0, false
	}
	return best, votes[best] / total, true
}
