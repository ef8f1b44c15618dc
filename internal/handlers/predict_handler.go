package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/models"
	"alfredoptarigan/resume-predictor/internal/services"
)

var acceptedUploadTypes = map[string]struct{}{
	models.ContentTypePDF:      {},
	"application/octet-stream": {},
}

type PredictHandler struct {
	predictor   services.PredictorService
	maxFileSize int64
	log         *zap.Logger
}

func NewPredictHandler(predictor services.PredictorService, maxFileSize int64, log *zap.Logger) *PredictHandler {
	return &PredictHandler{
		predictor:   predictor,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// HandlePredict handles POST /predict
func (h *PredictHandler) HandlePredict(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "Field 'file' is required")
	}

	if _, ok := acceptedUploadTypes[services.DeclaredType(fh)]; !ok {
		return detail(c, fiber.StatusBadRequest, "Only PDF files are supported")
	}

	if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
		return detail(c, fiber.StatusRequestEntityTooLarge, "File too large")
	}

	src, err := fh.Open()
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "Failed to read upload")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "Failed to read upload")
	}

	result, err := h.predictor.Predict(c.UserContext(), fh.Filename, data)
	if err != nil {
		var parseErr *services.ParseError
		switch {
		case errors.Is(err, services.ErrEmptyFile):
			return detail(c, fiber.StatusBadRequest, "Empty file")
		case errors.As(err, &parseErr):
			return detail(c, fiber.StatusInternalServerError, parseErr.Error())
		default:
			h.log.Error("prediction failed", zap.String("file", fh.Filename), zap.Error(err))
			return detail(c, fiber.StatusInternalServerError, "Prediction failed")
		}
	}

	return c.JSON(result)
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(models.ErrorResponse{Detail: msg})
}
