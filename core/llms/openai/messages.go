package openai

import "github.com/sage-agents/sage-core/core/llms"

type messageType string

const messageTypeMessage messageType = "message"

type messageRole string

const (
	messageRoleSystem    messageRole = "system"
	messageRoleUser      messageRole = "user"
	messageRoleAssistant messageRole = "assistant"
)

type openAIMessage struct {
	Type    messageType `json:"type"`
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

func toOpenAIMessages(instructions string, turns []llms.Turn) []openAIMessage {
	messages := []openAIMessage{}
	if instructions != "" {
		messages = append(messages, openAIMessage{
			Type:    messageTypeMessage,
			Role:    messageRoleSystem,
			Content: instructions,
		})
	}

	for _, turn := range turns {
		role := messageRoleUser
		if turn.Role == llms.TurnRoleAssistant {
			role = messageRoleAssistant
		}
		messages = append(messages, openAIMessage{
			Type:    messageTypeMessage,
			Role:    role,
			Content: turn.Content,
		})
	}

	return messages
}
