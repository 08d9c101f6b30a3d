package llms

type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// Turn is a single finalized turn taken in the conversation.
type Turn struct {
	ID   string
	Role TurnRole

	// Content is the content of the turn. In the user's turn it is the
	// transcript, in the assistant's turn it is the response.
	Content string
}

// Usage reports token accounting for one generation.
type Usage struct {
	// InputTokens represents the number of input tokens.
	InputTokens int
	// OutputTokens represents the number of output tokens.
	OutputTokens int
	// TotalTokens represents the total number of tokens used.
	TotalTokens int
}
