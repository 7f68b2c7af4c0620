package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yannabadie/ygn-brain/pkg/artifact"
	"github.com/yannabadie/ygn-brain/pkg/guard"
	"github.com/yannabadie/ygn-brain/pkg/provider"
	"github.com/yannabadie/ygn-brain/pkg/tieredmemory"
)

func TestOrchestratorRunHappyPath(t *testing.T) {
	o := New(nil, nil, provider.StubProvider{})
	result := o.Run("what is the weather today?")
	assert.False(t, result.Blocked)
	assert.NotEmpty(t, result.Output)
	assert.NotEmpty(t, result.SessionID)
}

type blockingBackend struct{}

func (blockingBackend) Name() string { return "blocking" }
func (blockingBackend) Check(string) guard.Result {
	return guard.Result{Allowed: false, ThreatLevel: guard.ThreatHigh, Reason: "test block"}
}

func TestOrchestratorRunGuardBlocksShortCircuits(t *testing.T) {
	pipeline := guard.NewPipeline(blockingBackend{})
	o := New(pipeline, nil, provider.StubProvider{})
	result := o.Run("anything")
	assert.True(t, result.Blocked)
	assert.Contains(t, result.Output, "Blocked: test block")
}

func TestOrchestratorRunAsync(t *testing.T) {
	o := New(nil, nil, provider.StubProvider{})
	result, err := o.RunAsync(context.Background(), "tell me about go routines")
	require.NoError(t, err)
	assert.False(t, result.Blocked)
	assert.NotEmpty(t, result.Output)
}

func TestOrchestratorRunCompiledReportsBudget(t *testing.T) {
	memory := tieredmemory.AsService(tieredmemory.NewTieredService(0, 0))
	store := artifact.NewInMemoryStore()
	o := New(nil, memory, provider.StubProvider{})
	result := o.RunCompiled("hello there", 1000, "", store)
	assert.False(t, result.Blocked)
	assert.True(t, result.WithinBudget)
	assert.Greater(t, result.BudgetUsed, 0)
}
