package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/sage-agents/sage-core/core/llms"
)

// conversation accumulates finalized turns in completion order.
type conversation struct {
	mu    sync.RWMutex
	turns []llms.Turn
}

func (c *conversation) appendTurn(role llms.TurnRole, content string) llms.Turn {
	turn := llms.Turn{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
	}

	c.mu.Lock()
	c.turns = append(c.turns, turn)
	c.mu.Unlock()

	return turn
}

// History returns a point-in-time deep copy of the finalized turns.
func (c *conversation) History() []llms.Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var history []llms.Turn
	if err := copier.Copy(&history, &c.turns); err != nil {
		logger.Warn("failed to copy conversation history", "error", err)
		history = make([]llms.Turn, len(c.turns))
		copy(history, c.turns)
	}
	return history
}

func (c *conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.turns)
}
