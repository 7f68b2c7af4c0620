package wcontext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yannabadie/ygn-brain/pkg/artifact"
	"github.com/yannabadie/ygn-brain/pkg/tieredmemory"
)

func TestEventLogAppendAndFilter(t *testing.T) {
	log := &EventLog{}
	log.Append(EventUserInput, map[string]interface{}{"content": "hi"}, 1)
	log.Append(EventToolCall, map[string]interface{}{}, 2)
	assert.Len(t, log.Filter(EventUserInput), 1)
	assert.Equal(t, 3, log.TotalTokens())
}

func TestSessionRecordMirrorsToEvidence(t *testing.T) {
	s := NewSession("")
	s.Record(EventUserInput, map[string]interface{}{"content": "hello"}, 5)
	assert.Equal(t, 1, s.Evidence.Len())
	assert.True(t, s.Evidence.Verify())
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Greater(t, EstimateTokens("one two three four"), 0)
}

func TestTokenBudgetOverflow(t *testing.T) {
	b, err := NewTokenBudget(100)
	require.NoError(t, err)
	b.Consume(150)
	assert.False(t, b.IsWithinBudget())
	assert.Equal(t, 50, b.Overflow())
}

func TestTokenBudgetRejectsNonPositiveMax(t *testing.T) {
	_, err := NewTokenBudget(0)
	assert.Error(t, err)
}

func TestWorkingContextToMessages(t *testing.T) {
	ctx := WorkingContext{
		SystemPrompt: "You are an assistant.",
		MemoryHits:   []MemoryHit{{Key: "k1", Content: "remembered fact"}},
		ArtifactRefs: []ArtifactRef{{Handle: "abc123", Summary: "a summary", SizeBytes: 42}},
		ToolResults:  []ToolResult{{Tool: "search", Result: "some result"}},
		History:      []HistoryTurn{{Role: "user", Content: "hello"}},
	}
	messages := ctx.ToMessages()
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "## Relevant memories")
	assert.Contains(t, messages[0].Content, "## Available artifacts")
	assert.Contains(t, messages[0].Content, "## Recent tool results")
	assert.Equal(t, "user", messages[1].Role)
}

func TestHistorySelectorDropsMiddle(t *testing.T) {
	session := NewSession("")
	for i := 0; i < 10; i++ {
		session.EventLog.Append(EventUserInput, map[string]interface{}{"role": "user", "content": "msg"}, 1)
	}
	selector := NewHistorySelector(2, 3)
	ctx := selector.Process(session, WorkingContext{}, 1000)
	assert.Len(t, ctx.History, 5)
}

func TestCompactorMergesConsecutiveRoles(t *testing.T) {
	ctx := WorkingContext{History: []HistoryTurn{
		{Role: "user", Content: "a"},
		{Role: "user", Content: "b"},
		{Role: "assistant", Content: "c"},
	}}
	merged := Compactor{}.Process(nil, ctx, 1000)
	require.Len(t, merged.History, 2)
	assert.Equal(t, "a\nb", merged.History[0].Content)
}

func TestMemoryPreloaderInjectsHits(t *testing.T) {
	session := NewSession("")
	session.EventLog.Append(EventUserInput, map[string]interface{}{"text": "deploy the service"}, 1)
	tiered := tieredmemory.NewTieredService(0, 0)
	tiered.Store("k1", "deploy instructions here", tieredmemory.CategoryCore, "", nil, tieredmemory.TierHot)
	preloader := NewMemoryPreloader(tieredmemory.AsService(tiered), 5)
	ctx := preloader.Process(session, WorkingContext{}, 1000)
	require.Len(t, ctx.MemoryHits, 1)
}

func TestArtifactAttacherExternalizesLargeResults(t *testing.T) {
	session := NewSession("")
	store := artifact.NewInMemoryStore()
	attacher := NewArtifactAttacher(store, 10)
	ctx := WorkingContext{ToolResults: []ToolResult{{Tool: "fetch", Result: strings.Repeat("x", 100)}}}
	out := attacher.Process(session, ctx, 1000)
	assert.Empty(t, out.ToolResults)
	require.Len(t, out.ArtifactRefs, 1)
}

func TestCompilerRunsProcessorsInOrder(t *testing.T) {
	session := NewSession("")
	session.EventLog.Append(EventUserInput, map[string]interface{}{"role": "user", "content": "hi there"}, 1)
	compiler := NewCompiler(NewHistorySelector(2, 5), Compactor{})
	ctx := compiler.Compile(session, 1000, "system prompt")
	assert.True(t, ctx.IsWithinBudget())
	require.Len(t, ctx.History, 1)
}
