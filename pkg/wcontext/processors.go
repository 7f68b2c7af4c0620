package wcontext

import (
	"strings"

	"github.com/yannabadie/ygn-brain/pkg/artifact"
	"github.com/yannabadie/ygn-brain/pkg/tieredmemory"
)

// Processor is a named, composable context-compiler pipeline stage.
type Processor interface {
	Name() string
	Process(session *Session, ctx WorkingContext, budget int) WorkingContext
}

// HistorySelector selects recent turns, keeping the first keepFirst and
// last keepLast, dropping the middle when the total exceeds that window.
type HistorySelector struct {
	KeepFirst int
	KeepLast  int
}

// NewHistorySelector defaults to keep_first=2, keep_last=5 as in the
// original.
func NewHistorySelector(keepFirst, keepLast int) HistorySelector {
	if keepFirst <= 0 {
		keepFirst = 2
	}
	if keepLast <= 0 {
		keepLast = 5
	}
	return HistorySelector{KeepFirst: keepFirst, KeepLast: keepLast}
}

func (HistorySelector) Name() string { return "history_selector" }

func (s HistorySelector) Process(session *Session, ctx WorkingContext, budget int) WorkingContext {
	var history []HistoryTurn
	for _, evt := range session.EventLog.events {
		if evt.Kind != EventUserInput && evt.Kind != EventPhaseResult {
			continue
		}
		role, _ := evt.Data["role"].(string)
		if role == "" {
			role = "user"
		}
		content, _ := evt.Data["content"].(string)
		if content == "" {
			content, _ = evt.Data["text"].(string)
		}
		history = append(history, HistoryTurn{Role: role, Content: content})
	}

	if len(history) == 0 {
		return ctx
	}

	total := len(history)
	var selected []HistoryTurn
	if total <= s.KeepFirst+s.KeepLast {
		selected = history
	} else {
		selected = append(selected, history[:s.KeepFirst]...)
		selected = append(selected, history[total-s.KeepLast:]...)
	}

	tokenCount := EstimateTokens(ctx.SystemPrompt)
	for _, h := range selected {
		tokenCount += EstimateTokens(h.Content)
	}

	ctx.History = selected
	ctx.TokenCount = tokenCount
	ctx.Budget = budget
	return ctx
}

// Compactor merges consecutive same-role messages and trims whitespace.
type Compactor struct{}

func (Compactor) Name() string { return "compactor" }

func (Compactor) Process(_ *Session, ctx WorkingContext, budget int) WorkingContext {
	if len(ctx.History) == 0 {
		return ctx
	}

	var merged []HistoryTurn
	for _, msg := range ctx.History {
		content := strings.TrimSpace(msg.Content)
		if n := len(merged); n > 0 && merged[n-1].Role == msg.Role {
			merged[n-1].Content += "\n" + content
		} else {
			merged = append(merged, HistoryTurn{Role: msg.Role, Content: content})
		}
	}

	tokenCount := EstimateTokens(ctx.SystemPrompt)
	for _, h := range merged {
		tokenCount += EstimateTokens(h.Content)
	}

	ctx.History = merged
	ctx.TokenCount = tokenCount
	ctx.Budget = budget
	return ctx
}

// MemoryPreloader queries a memory service for the latest user input and
// injects the top-K relevant memories into the context.
type MemoryPreloader struct {
	memory tieredmemory.Service
	topK   int
}

// NewMemoryPreloader defaults topK to 5 as in the original.
func NewMemoryPreloader(memory tieredmemory.Service, topK int) MemoryPreloader {
	if topK <= 0 {
		topK = 5
	}
	return MemoryPreloader{memory: memory, topK: topK}
}

func (MemoryPreloader) Name() string { return "memory_preloader" }

func (p MemoryPreloader) Process(session *Session, ctx WorkingContext, budget int) WorkingContext {
	userEvents := session.EventLog.Filter(EventUserInput)
	if len(userEvents) == 0 {
		return ctx
	}
	last := userEvents[len(userEvents)-1]
	query, _ := last.Data["text"].(string)
	if query == "" {
		query, _ = last.Data["content"].(string)
	}
	if query == "" {
		return ctx
	}

	entries, err := p.memory.Recall(query, p.topK, "")
	if err != nil || len(entries) == 0 {
		return ctx
	}

	extraTokens := 0
	hits := make([]MemoryHit, 0, len(entries))
	for _, e := range entries {
		hits = append(hits, MemoryHit{Key: e.Key, Content: e.Content, Category: string(e.Category)})
		extraTokens += EstimateTokens(e.Content)
	}

	ctx.MemoryHits = hits
	ctx.TokenCount += extraTokens
	ctx.Budget = budget
	return ctx
}

// ArtifactAttacher replaces tool results at or above thresholdBytes with
// artifact handles and summaries, shrinking the compiled context.
type ArtifactAttacher struct {
	store     artifact.Store
	threshold int
}

// NewArtifactAttacher defaults thresholdBytes to 1024 as in the original.
func NewArtifactAttacher(store artifact.Store, thresholdBytes int) ArtifactAttacher {
	if thresholdBytes <= 0 {
		thresholdBytes = 1024
	}
	return ArtifactAttacher{store: store, threshold: thresholdBytes}
}

func (ArtifactAttacher) Name() string { return "artifact_attacher" }

func (a ArtifactAttacher) Process(session *Session, ctx WorkingContext, budget int) WorkingContext {
	var remaining []ToolResult
	refs := append([]ArtifactRef(nil), ctx.ArtifactRefs...)
	savedTokens := 0

	for _, tr := range ctx.ToolResults {
		if len(tr.Result) < a.threshold {
			remaining = append(remaining, tr)
			continue
		}
		handle, err := a.store.Store([]byte(tr.Result), "tool:"+nonEmpty(tr.Tool, "unknown"), "text/plain")
		if err != nil {
			remaining = append(remaining, tr)
			continue
		}
		refs = append(refs, ArtifactRef{
			Handle:    handle.ArtifactID,
			Summary:   handle.Summary,
			SizeBytes: handle.SizeBytes,
			Source:    handle.Source,
		})
		savedTokens += EstimateTokens(tr.Result)
		session.Record(EventArtifactStored, map[string]interface{}{
			"handle":     handle.ArtifactID,
			"source":     handle.Source,
			"size_bytes": handle.SizeBytes,
		}, 10)
	}

	refTokens := 0
	for _, r := range refs {
		refTokens += EstimateTokens(r.Summary)
	}

	ctx.ArtifactRefs = refs
	ctx.ToolResults = remaining
	ctx.TokenCount = ctx.TokenCount - savedTokens + refTokens
	ctx.Budget = budget
	return ctx
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
