package services

import (
	"strings"

	"alfredoptarigan/resume-predictor/internal/models"
)

const coachSystemPrompt = "You are ResumeAI Coach. Provide precise, actionable guidance: resume improvement, " +
	"skill gaps, matching roles based on provided analysis, and concrete next steps."

type PromptBuilder struct {
	system string
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{system: coachSystemPrompt}
}

// BuildChatMessages prepends the coach prompt to the caller's conversation.
// Messages with an unknown role are sent as user turns, blank ones are dropped.
func (pb *PromptBuilder) BuildChatMessages(history []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(history)+1)
	out = append(out, models.ChatMessage{Role: models.RoleSystem, Content: pb.system})

	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := m.Role
		switch role {
		case models.RoleSystem, models.RoleUser, models.RoleAssistant:
		default:
			role = models.RoleUser
		}
		out = append(out, models.ChatMessage{Role: role, Content: m.Content})
	}
	return out
}
