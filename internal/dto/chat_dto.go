package dto

type ChatRequest struct {
	Query          string `json:"query" validate:"required"`
	ConversationId string `json:"conversation_id,omitempty"`
}

// ChatResponse carries a nil conversation id for stateless requests.
type ChatResponse struct {
	ConversationId *string `json:"conversation_id"`
	Response       string  `json:"response"`
}

type QueryRequest struct {
	Query string `json:"query" validate:"required"`
}

type QueryResponse struct {
	Result string `json:"result"`
}

// ChatSocketError is sent on the websocket when a frame cannot be answered.
type ChatSocketError struct {
	Error string `json:"error"`
}
