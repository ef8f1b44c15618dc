package models

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Model    string        `json:"model,omitempty"`
	Messages []ChatMessage `json:"messages"`
}

// ChatChoice mirrors the chat-completions choice shape so browser-era clients keep working.
type ChatChoice struct {
	Message ChatMessage `json:"message"`
}

// ChatResponse carries the reply both flat and in chat-completions form.
type ChatResponse struct {
	Content string       `json:"content"`
	Choices []ChatChoice `json:"choices"`
}

func NewChatResponse(reply string) ChatResponse {
	return ChatResponse{
		Content: reply,
		Choices: []ChatChoice{{Message: ChatMessage{Role: RoleAssistant, Content: reply}}},
	}
}

// Reply returns choices[0].message.content, falling back to the flat content field.
func (r *ChatResponse) Reply() string {
	if len(r.Choices) > 0 && r.Choices[0].Message.Content != "" {
		return r.Choices[0].Message.Content
	}
	return r.Content
}

// ErrorResponse is the failure body of the api service.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
