package llms

type BaseOptions struct {
	Instructions string
	Turns        []Turn
}

type StreamingPromptOptions struct {
	BaseOptions
}

type StreamingPromptOption interface {
	ApplyToStreaming(*StreamingPromptOptions)
}

type promptOption func(*BaseOptions)

func (f promptOption) ApplyToStreaming(o *StreamingPromptOptions) {
	f(&o.BaseOptions)
}

// WithSystemPrompt sets the system prompt for the generation.
// Repeating this option overwrites the previous system prompt.
func WithSystemPrompt(prompt string) StreamingPromptOption {
	return promptOption(func(o *BaseOptions) {
		o.Instructions = prompt
	})
}

// WithTurns provides the conversation history the generation builds on.
// Ordering: oldest -> newest.
func WithTurns(turns ...Turn) StreamingPromptOption {
	return promptOption(func(o *BaseOptions) {
		o.Turns = turns
	})
}
