package entity

// Chat roles understood by the completion service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one role-tagged message in a completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the wire request for the chat completions endpoint.
type CompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// CompletionResponse is the wire response for the chat completions endpoint.
type CompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// ValidationResult is the oracle's verdict on a user answer. When the
// answer is rejected, Reply carries the model's re-prompt verbatim.
type ValidationResult struct {
	Accepted bool
	Reply    string
}
