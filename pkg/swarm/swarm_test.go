package swarm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yannabadie/ygn-brain/pkg/provider"
)

func TestTaskAnalyzerTrivial(t *testing.T) {
	a := NewTaskAnalyzer()
	result := a.Analyze("hi there")
	assert.Equal(t, provider.ComplexityTrivial, result.Complexity)
	assert.Equal(t, ModeSequential, result.SuggestedMode)
}

func TestTaskAnalyzerDetectsDomains(t *testing.T) {
	a := NewTaskAnalyzer()
	result := a.Analyze("please refactor this function and also analyze the dataset for patterns")
	assert.Contains(t, result.Domains, "code")
	assert.Contains(t, result.Domains, "research")
}

func TestTaskAnalyzerExpertOnManyDomains(t *testing.T) {
	a := NewTaskAnalyzer()
	result := a.Analyze("design a database architecture, write an essay, calculate a formula, and debug the code")
	assert.Equal(t, provider.ComplexityExpert, result.Complexity)
	assert.Equal(t, ModeSpecialist, result.SuggestedMode)
}

func TestEngineRunSequential(t *testing.T) {
	e := NewEngine(nil)
	result := e.Run("hi")
	assert.Equal(t, ModeSequential, result.Mode)
	assert.Contains(t, result.Output, "Processed: hi")
}

func TestEngineRunFallsBackForUnmappedMode(t *testing.T) {
	e := NewEngine(nil)
	// moderate complexity with a single domain suggests lead_support, which
	// has no registered executor and must fall back to sequential.
	result := e.Run("please take some time to carefully design a thoughtful and reasonably detailed wireframe layout for our new user page here")
	assert.Equal(t, ModeSequential, result.Mode)
}

func TestEngineExecuteWithProviderSpecialist(t *testing.T) {
	e := NewEngine(nil)
	p := provider.StubProvider{}
	result, err := e.ExecuteWithProvider(context.Background(), "design an architecture, write an essay, calculate a proof, and debug code", p, "")
	require.NoError(t, err)
	assert.Equal(t, ModeSpecialist, result.Mode)
	assert.NotEmpty(t, result.Output)
}

func TestEngineExecuteWithProviderSequentialChainsSteps(t *testing.T) {
	e := NewEngine(nil)
	p := provider.StubProvider{}
	result, err := e.ExecuteWithProvider(context.Background(), "hi", p, "")
	require.NoError(t, err)
	assert.Equal(t, ModeSequential, result.Mode)
	assert.Equal(t, sequentialSteps, result.Metadata["steps"])
}

func TestEngineExecuteWithProviderParallelFansOut(t *testing.T) {
	e := NewEngine(nil)
	p := provider.StubProvider{}
	result, err := e.ExecuteWithProvider(context.Background(), "please refactor this code and carefully analyze the approach for a while longer than usual now", p, "")
	require.NoError(t, err)
	assert.Equal(t, ModeParallel, result.Mode)
}
