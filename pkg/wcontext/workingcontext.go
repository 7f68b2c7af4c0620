package wcontext

import (
	"fmt"
	"strings"
)

// HistoryTurn is one role/content pair in WorkingContext.History.
type HistoryTurn struct {
	Role    string
	Content string
}

// MemoryHit is a compiled memory recall result attached to WorkingContext.
type MemoryHit struct {
	Key      string
	Content  string
	Category string
}

// ArtifactRef references an externalized payload from WorkingContext.
type ArtifactRef struct {
	Handle    string
	Summary   string
	SizeBytes int
	Source    string
}

// ToolResult is a pending tool output still inline in WorkingContext,
// before ArtifactAttacher has had a chance to externalize it.
type ToolResult struct {
	Tool   string
	Result string
}

// WorkingContext is the budget-aware compiled view of a Session, ready for
// an LLM call, matching the original's WorkingContext dataclass exactly.
type WorkingContext struct {
	SystemPrompt string
	History      []HistoryTurn
	MemoryHits   []MemoryHit
	ArtifactRefs []ArtifactRef
	ToolResults  []ToolResult
	TokenCount   int
	Budget       int
}

func (c WorkingContext) IsWithinBudget() bool { return c.TokenCount <= c.Budget }

func (c WorkingContext) Overflow() int {
	if over := c.TokenCount - c.Budget; over > 0 {
		return over
	}
	return 0
}

// ChatMessage is one entry of the flattened message list ToMessages
// produces, ready for a provider.Request.Messages slice.
type ChatMessage struct {
	Role    string
	Content string
}

// ToMessages formats the compiled context as a message list for an LLM
// provider call: one system message assembling the prompt, memory hits,
// artifact references, and tool results sections, followed by history.
func (c WorkingContext) ToMessages() []ChatMessage {
	var parts []string
	parts = append(parts, c.SystemPrompt)

	if len(c.MemoryHits) > 0 {
		parts = append(parts, "\n\n## Relevant memories")
		for _, hit := range c.MemoryHits {
			parts = append(parts, fmt.Sprintf("- [%s]: %s", hit.Key, hit.Content))
		}
	}

	if len(c.ArtifactRefs) > 0 {
		parts = append(parts, "\n\n## Available artifacts (use handle to retrieve)")
		for _, ref := range c.ArtifactRefs {
			parts = append(parts, fmt.Sprintf("- [%s] (%d bytes): %s", ref.Handle, ref.SizeBytes, ref.Summary))
		}
	}

	if len(c.ToolResults) > 0 {
		parts = append(parts, "\n\n## Recent tool results")
		for _, tr := range c.ToolResults {
			tool := tr.Tool
			if tool == "" {
				tool = "unknown"
			}
			parts = append(parts, fmt.Sprintf("- %s: %s", tool, tr.Result))
		}
	}

	messages := []ChatMessage{{Role: "system", Content: strings.Join(parts, "\n")}}
	for _, h := range c.History {
		messages = append(messages, ChatMessage{Role: h.Role, Content: h.Content})
	}
	return messages
}
