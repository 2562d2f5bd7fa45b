package domain

// ChatMessage is the provider-agnostic chat message shape used by the resolver
// and LLM integrations.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	// RoleModel is Gemini's name for the assistant side of a conversation.
	RoleModel = "model"
)

// ChatRequest is the body accepted by POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the body returned by POST /api/chat. Error is only set when
// the request fails validation.
type ChatResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the body returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}
