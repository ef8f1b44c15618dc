package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/config"
	"alfredoptarigan/resume-predictor/internal/logger"
	"alfredoptarigan/resume-predictor/internal/services"
)

// Loads a labelled résumé CSV (columns Category and Resume) into the qdrant collection
// the vector classifier votes over.
//
//	DATASET_PATH=./data/resumes.csv go run scripts/ingest_dataset.go
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !cfg.VectorEnabled() {
		log.Fatal("QDRANT_URL and GEMINI_API_KEY are required for ingestion")
	}

	datasetPath := os.Getenv("DATASET_PATH")
	if datasetPath == "" {
		datasetPath = "./data/resumes.csv"
	}
	maxPerCategory := 0
	if v, err := strconv.Atoi(os.Getenv("INGEST_MAX_PER_CATEGORY")); err == nil && v > 0 {
		maxPerCategory = v
	}

	ctx := context.Background()

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
	if err != nil {
		log.Fatal("failed to initialize gemini", zap.Error(err))
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		log.Fatal("failed to initialize qdrant", zap.Error(err))
	}
	defer qdrantService.Close()

	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatal("failed to initialize collection", zap.Error(err))
	}

	file, err := os.Open(datasetPath)
	if err != nil {
		log.Fatal("failed to open dataset", zap.String("path", datasetPath), zap.Error(err))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		log.Fatal("failed to read dataset header", zap.Error(err))
	}
	categoryCol, resumeCol := column(header, "category"), column(header, "resume")
	if categoryCol < 0 || resumeCol < 0 {
		log.Fatal("dataset needs Category and Resume columns", zap.Strings("header", header))
	}

	chunker := services.NewTextChunker()
	perCategory := make(map[string]int)
	stored, failed, skipped := 0, 0, 0

	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("skipping malformed row", zap.Int("row", row), zap.Error(err))
			skipped++
			continue
		}
		if len(record) <= categoryCol || len(record) <= resumeCol {
			skipped++
			continue
		}

		category := strings.TrimSpace(record[categoryCol])
		text := services.CleanText(record[resumeCol])
		if category == "" || text == "" {
			skipped++
			continue
		}
		if maxPerCategory > 0 && perCategory[category] >= maxPerCategory {
			skipped++
			continue
		}

		for i, chunk := range chunker.ChunkText(text, 1000, 100) {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Warn("failed to embed chunk", zap.Int("row", row), zap.Int("chunk", i+1), zap.Error(err))
				failed++
				continue
			}
			if err := qdrantService.UpsertExample(ctx, category, chunk, embedding); err != nil {
				log.Warn("failed to store chunk", zap.Int("row", row), zap.Int("chunk", i+1), zap.Error(err))
				failed++
				continue
			}
			stored++
		}
		perCategory[category]++

		if row%50 == 0 {
			log.Info("progress", zap.Int("rows", row), zap.Int("chunks_stored", stored))
		}
	}

	log.Info("ingestion finished",
		zap.Int("categories", len(perCategory)),
		zap.Int("chunks_stored", stored),
		zap.Int("chunks_failed", failed),
		zap.Int("rows_skipped", skipped),
	)
	if failed > 0 {
		os.Exit(1)
	}
}

func column(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), name) {
			return i
		}
	}
	return -1
}
