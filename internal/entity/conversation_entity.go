package entity

const (
	RoleUser      = "User"
	RoleAssistant = "Assistant"
)

type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
