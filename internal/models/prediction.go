package models

import (
	"time"

	"github.com/google/uuid"
)

type PredictionSource string

const (
	SourceHeuristic PredictionSource = "heuristic"
	SourceVector    PredictionSource = "vector"
)

// Prediction is the stored history record of one /predict call.
type Prediction struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Filename   string           `gorm:"type:text" json:"filename"`
	Category   string           `gorm:"type:text;not null" json:"category"`
	Confidence float64          `gorm:"type:decimal(3,2)" json:"confidence"`
	Skills     []string         `gorm:"type:jsonb;serializer:json" json:"skills"`
	Source     PredictionSource `gorm:"type:text;not null" json:"source"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (Prediction) TableName() string {
	return "predictions"
}
