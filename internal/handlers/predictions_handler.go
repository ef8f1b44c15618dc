package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-predictor/internal/repositories"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type PredictionsHandler struct {
	predictionRepo repositories.PredictionRepository
}

func NewPredictionsHandler(predictionRepo repositories.PredictionRepository) *PredictionsHandler {
	return &PredictionsHandler{
		predictionRepo: predictionRepo,
	}
}

// HandleListPredictions handles GET /predictions?limit=N
func (h *PredictionsHandler) HandleListPredictions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	predictions, err := h.predictionRepo.ListRecent(limit)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, "Failed to load predictions")
	}

	return c.JSON(fiber.Map{
		"predictions": predictions,
		"count":       len(predictions),
	})
}

// HandleHealth handles GET /health
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
