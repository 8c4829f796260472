package dify

// ChatMessageRequest is the body of POST /chat-messages.
type ChatMessageRequest struct {
	// Query is the user's message.
	Query string `json:"query"`
	// Inputs are the app's prompt-template variables.
	Inputs map[string]string `json:"inputs"`
	// User identifies the end user within the Dify app.
	User string `json:"user,omitempty"`
}

// ChatMessageResponse is the subset of the blocking chat-messages response the relay uses.
type ChatMessageResponse struct {
	MessageID      string `json:"message_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	// Answer is nil when the response has no answer field.
	Answer *string `json:"answer"`
}

// APIError is the error body returned by Dify on non-2xx responses.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
