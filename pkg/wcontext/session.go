// Package wcontext implements the Context Compiler: a Session's append-only
// EventLog paired with its EvidencePack, and a processor pipeline that
// compiles a token-budgeted WorkingContext ready for an LLM call.
//
// Named wcontext (working context) rather than pkg/context because the
// teacher's own pkg/context is an unrelated, large (~8500-line) RAG
// document-retrieval subsystem (chunking, reranking, HyDE query expansion);
// see DESIGN.md for why it is handled separately rather than overwritten.
package wcontext

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yannabadie/ygn-brain/pkg/evidence"
)

// SessionEvent is a single typed entry in a Session's timeline.
type SessionEvent struct {
	EventID        string
	Timestamp      time.Time
	Kind           string
	Data           map[string]interface{}
	TokenEstimate  int
}

// Event kind constants, matching the original's SessionEvent.kind values.
const (
	EventUserInput     = "user_input"
	EventMemoryHit     = "memory_hit"
	EventToolCall      = "tool_call"
	EventToolSuccess   = "tool_success"
	EventToolError     = "tool_error"
	EventToolTimeout   = "tool_timeout"
	EventGuardDecision = "guard_decision"
	EventPhaseResult   = "phase_result"
	EventArtifactStored = "artifact_stored"
)

// kindToEvidence maps a SessionEvent kind to the evidence.Kind it is
// recorded under, matching the original's _KIND_TO_EVIDENCE table.
var kindToEvidence = map[string]evidence.Kind{
	EventUserInput:      evidence.KindInput,
	EventMemoryHit:      evidence.KindSource,
	EventToolCall:       evidence.KindToolCall,
	EventToolSuccess:    evidence.KindOutput,
	EventToolError:      evidence.KindError,
	EventToolTimeout:    evidence.KindError,
	EventGuardDecision:  evidence.KindDecision,
	EventPhaseResult:    evidence.KindOutput,
	EventArtifactStored: evidence.KindOutput,
}

// EventLog is an append-only ordered log of SessionEvents.
type EventLog struct {
	events []SessionEvent
}

// Append records a new event and returns it.
func (l *EventLog) Append(kind string, data map[string]interface{}, tokenEstimate int) SessionEvent {
	evt := SessionEvent{
		EventID:       fmt.Sprintf("%012x-%s", time.Now().UnixMilli(), uuid.NewString()[:12]),
		Timestamp:     time.Now(),
		Kind:          kind,
		Data:          data,
		TokenEstimate: tokenEstimate,
	}
	l.events = append(l.events, evt)
	return evt
}

// Events returns the full event timeline in append order.
func (l *EventLog) Events() []SessionEvent { return l.events }

// Filter returns events whose kind is in kinds.
func (l *EventLog) Filter(kinds ...string) []SessionEvent {
	set := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	var out []SessionEvent
	for _, e := range l.events {
		if _, ok := set[e.Kind]; ok {
			out = append(out, e)
		}
	}
	return out
}

// TotalTokens sums TokenEstimate across every event.
func (l *EventLog) TotalTokens() int {
	total := 0
	for _, e := range l.events {
		total += e.TokenEstimate
	}
	return total
}

// Since returns events at or after ts.
func (l *EventLog) Since(ts time.Time) []SessionEvent {
	var out []SessionEvent
	for _, e := range l.events {
		if !e.Timestamp.Before(ts) {
			out = append(out, e)
		}
	}
	return out
}

// Session wraps an EventLog and its EvidencePack: the single source of
// truth for one execution, matching the original's Session.
type Session struct {
	SessionID string
	EventLog  *EventLog
	Evidence  *evidence.Pack
}

// NewSession builds a session, generating a session id when empty.
func NewSession(sessionID string) *Session {
	if sessionID == "" {
		sessionID = evidence.NewSessionID()
	}
	return &Session{
		SessionID: sessionID,
		EventLog:  &EventLog{},
		Evidence:  evidence.NewPack(sessionID),
	}
}

// Record appends to the event log and mirrors the same data into the
// evidence pack under the mapped evidence.Kind.
func (s *Session) Record(kind string, data map[string]interface{}, tokenEstimate int) SessionEvent {
	evt := s.EventLog.Append(kind, data, tokenEstimate)
	evidenceKind, ok := kindToEvidence[kind]
	if !ok {
		evidenceKind = evidence.KindOutput
	}
	s.Evidence.Add(kind, evidenceKind, data)
	return evt
}
