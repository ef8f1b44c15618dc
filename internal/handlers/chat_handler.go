package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-predictor/internal/models"
	"alfredoptarigan/resume-predictor/internal/services"
)

// APIKeyHeader lets a caller supply their own OpenAI key instead of the server's.
const APIKeyHeader = "X-OpenAI-Api-Key"

type ChatHandler struct {
	chat services.ChatService
}

func NewChatHandler(chat services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// HandleChat handles POST /chat
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid request payload")
	}

	if req.Messages == nil {
		return detail(c, fiber.StatusUnprocessableEntity, "messages is required")
	}

	reply, err := h.chat.Reply(c.UserContext(), req, c.Get(APIKeyHeader))
	if err != nil {
		var completionErr *services.CompletionError
		switch {
		case errors.Is(err, services.ErrMissingAPIKey):
			return detail(c, fiber.StatusInternalServerError, "Server missing OPENAI_API_KEY")
		case errors.As(err, &completionErr):
			return detail(c, fiber.StatusInternalServerError, completionErr.Error())
		default:
			return detail(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(models.NewChatResponse(reply))
}
