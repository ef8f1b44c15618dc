package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/models"
	"alfredoptarigan/resume-predictor/internal/repositories"
)

var ErrEmptyFile = errors.New("empty file")

// ParseError marks an upload that is not a readable PDF.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse PDF: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type PredictorService interface {
	Predict(ctx context.Context, filename string, data []byte) (*models.AnalysisResult, error)
}

type predictorService struct {
	pdfParser      PDFParserService
	classifiers    []Classifier
	predictionRepo repositories.PredictionRepository
	log            *zap.Logger
}

// NewPredictorService tries classifiers in order; the last one should never fail.
func NewPredictorService(
	pdfParser PDFParserService,
	predictionRepo repositories.PredictionRepository,
	log *zap.Logger,
	classifiers ...Classifier,
) PredictorService {
	if len(classifiers) == 0 {
		classifiers = []Classifier{NewKeywordClassifier()}
	}
	return &predictorService{
		pdfParser:      pdfParser,
		classifiers:    classifiers,
		predictionRepo: predictionRepo,
		log:            log,
	}
}

// Predict implements PredictorService.
func (p *predictorService) Predict(ctx context.Context, filename string, data []byte) (*models.AnalysisResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	text, err := p.pdfParser.ExtractText(data)
	if err != nil && !errors.Is(err, ErrNoText) {
		return nil, &ParseError{Err: err}
	}

	var (
		result *models.AnalysisResult
		source models.PredictionSource
	)
	for _, classifier := range p.classifiers {
		result, err = classifier.Classify(ctx, text)
		if err == nil {
			source = classifier.Source()
			break
		}
		p.log.Warn("classifier failed, falling back",
			zap.String("source", string(classifier.Source())),
			zap.Error(err),
		)
	}
	if result == nil {
		return nil, fmt.Errorf("classify %s: %w", filename, err)
	}

	p.log.Info("resume classified",
		zap.String("file", filename),
		zap.String("category", result.Category),
		zap.Float64("confidence", result.Confidence),
		zap.String("source", string(source)),
	)

	p.record(filename, result, source)
	return result, nil
}

func (p *predictorService) record(filename string, result *models.AnalysisResult, source models.PredictionSource) {
	if p.predictionRepo == nil {
		return
	}

	prediction := &models.Prediction{
		ID:         uuid.New(),
		Filename:   filename,
		Category:   result.Category,
		Confidence: result.Confidence,
		Skills:     result.Skills,
		Source:     source,
		CreatedAt:  time.Now().UTC(),
	}
	if err := p.predictionRepo.Create(prediction); err != nil {
		p.log.Warn("failed to record prediction", zap.String("file", filename), zap.Error(err))
	}
}
