package guard

import (
	"fmt"
	"strings"
	"sync"
)

// ToolInvocationGuard is a stateful, per-session guard over tool-call
// strings of the form "name:args" (spec §4.4). One instance is owned by a
// single session — it is not safe to share across sessions, matching
// spec §5's "TieredMemory is not required to be concurrent-safe and is
// owned by one Session" posture for session-scoped state.
type ToolInvocationGuard struct {
	mu            sync.Mutex
	allowed       map[string]struct{}
	maxCalls      int
	callCount     int
	priorMessages []string
}

// NewToolInvocationGuard builds a guard restricted to allowedNames, capping
// tool-call count at maxCalls for the session's lifetime.
func NewToolInvocationGuard(allowedNames []string, maxCalls int) *ToolInvocationGuard {
	set := make(map[string]struct{}, len(allowedNames))
	for _, n := range allowedNames {
		set[n] = struct{}{}
	}
	return &ToolInvocationGuard{allowed: set, maxCalls: maxCalls}
}

func (g *ToolInvocationGuard) Name() string { return "tool_invocation" }

// RecordMessage appends a previously seen message to the Log-to-Leak
// verbatim-repetition check. Callers record user/assistant/tool messages as
// the session progresses.
func (g *ToolInvocationGuard) RecordMessage(msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.priorMessages = append(g.priorMessages, msg)
}

// Check applies the three rules in order: unknown tool name -> CRITICAL;
// call count exceeding the per-session cap -> HIGH; a "Log-to-Leak" verbatim
// prior-message leak of more than 20 characters in args -> HIGH; else
// allowed.
func (g *ToolInvocationGuard) Check(toolCall string) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	name, args, _ := strings.Cut(toolCall, ":")

	if _, ok := g.allowed[name]; !ok {
		return Result{
			Allowed:     false,
			ThreatLevel: ThreatCritical,
			Reason:      fmt.Sprintf("unknown tool: %s", name),
			Score:       scoreCritical,
		}
	}

	g.callCount++
	if g.callCount > g.maxCalls {
		return Result{
			Allowed:     false,
			ThreatLevel: ThreatHigh,
			Reason:      fmt.Sprintf("tool-call cap exceeded: %d > %d", g.callCount, g.maxCalls),
			Score:       scoreHigh,
		}
	}

	for _, msg := range g.priorMessages {
		if len(msg) > 20 && strings.Contains(args, msg) {
			return Result{
				Allowed:     false,
				ThreatLevel: ThreatHigh,
				Reason:      "log-to-leak: args contain a verbatim prior message",
				Score:       scoreHigh,
			}
		}
	}

	return Result{Allowed: true, ThreatLevel: ThreatNone, Reason: "tool call allowed"}
}
