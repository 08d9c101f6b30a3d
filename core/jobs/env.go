package jobs

import (
	"os"
	"strconv"
	"strings"
)

// Provider and voice identifiers used by surrounding wiring when a job does
// not override them. They select which clients the session is started with;
// none of them alter resolution behavior.
const (
	DefaultAgentName = "Sage-266e"
	DefaultHTTPPort  = 8081

	DefaultSTTModel    = "nova-2"
	DefaultSTTLanguage = "ja"
	DefaultLLMModel    = "gpt-4o"
	DefaultTTSModel    = "eleven_multilingual_v2"
	DefaultTTSVoice    = "XrExE9yKIg1WjnnlVkGX"
	DefaultTTSLanguage = "ja"
)

// AgentName returns the dispatch name for this agent, from AGENT_NAME.
func AgentName() string {
	if name := strings.TrimSpace(os.Getenv("AGENT_NAME")); name != "" {
		return name
	}
	return DefaultAgentName
}

// HTTPPort returns the agent's health/debug port, from AGENT_HTTP_PORT.
func HTTPPort() int {
	raw := strings.TrimSpace(os.Getenv("AGENT_HTTP_PORT"))
	if raw == "" {
		return DefaultHTTPPort
	}

	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 {
		return DefaultHTTPPort
	}
	return port
}
