package repositories

import (
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	"alfredoptarigan/resume-predictor/internal/models"
)

type PredictionRepository interface {
	Create(prediction *models.Prediction) error
	ListRecent(limit int) ([]models.Prediction, error)
}

type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

// Create implements PredictionRepository.
func (r *predictionRepository) Create(prediction *models.Prediction) error {
	if err := r.db.Create(prediction).Error; err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

// ListRecent implements PredictionRepository.
func (r *predictionRepository) ListRecent(limit int) ([]models.Prediction, error) {
	var predictions []models.Prediction
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&predictions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	return predictions, nil
}

// memoryPredictionRepository keeps history when no database is configured.
type memoryPredictionRepository struct {
	mu          sync.RWMutex
	predictions []models.Prediction
	capacity    int
}

func NewMemoryPredictionRepository(capacity int) PredictionRepository {
	if capacity <= 0 {
		capacity = 100
	}
	return &memoryPredictionRepository{capacity: capacity}
}

func (r *memoryPredictionRepository) Create(prediction *models.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *prediction
	cp.Skills = append([]string(nil), prediction.Skills...)
	r.predictions = append(r.predictions, cp)
	if len(r.predictions) > r.capacity {
		r.predictions = r.predictions[len(r.predictions)-r.capacity:]
	}
	return nil
}

func (r *memoryPredictionRepository) ListRecent(limit int) ([]models.Prediction, error) {
	r.mu.RLock()
	out := make([]models.Prediction, len(r.predictions))
	copy(out, r.predictions)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
