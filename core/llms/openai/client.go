package openai

import (
	"fmt"
	"os"

	"github.com/sage-agents/sage-core/core/jobs"
)

type Client struct {
	apiKey string
	model  string
}

// NewClient creates an OpenAI streaming client. The API key is read from
// OPENAI_API_KEY; an empty model selects the default interview model.
func NewClient(model string) (*Client, error) {
	apiKey, ok := os.LookupEnv("OPENAI_API_KEY")
	if !ok {
		return nil, fmt.Errorf("openai api key not found")
	}

	if model == "" {
		model = jobs.DefaultLLMModel
	}

	return &Client{apiKey: apiKey, model: model}, nil
}
