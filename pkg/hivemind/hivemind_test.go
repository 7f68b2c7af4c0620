package hivemind

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yannabadie/ygn-brain/pkg/evidence"
	"github.com/yannabadie/ygn-brain/pkg/provider"
)

func TestFSMStateLegalTransitions(t *testing.T) {
	s := NewFSMState()
	assert.True(t, s.CanTransition(PhaseDiagnosis))
	assert.False(t, s.CanTransition(PhaseExecution))
	s = s.Transition(PhaseDiagnosis)
	assert.Equal(t, PhaseDiagnosis, s.Phase)
}

func TestFSMStateValidationCanRetryToExecution(t *testing.T) {
	s := FSMState{Phase: PhaseValidation}
	assert.True(t, s.CanTransition(PhaseSynthesis))
	assert.True(t, s.CanTransition(PhaseExecution))
}

func TestFSMStateInvalidTransitionPanics(t *testing.T) {
	s := NewFSMState()
	assert.Panics(t, func() { s.Transition(PhaseComplete) })
}

func TestPipelineRunProducesSevenPhases(t *testing.T) {
	pack := evidence.NewPack("")
	results := Pipeline{}.Run("what is the weather today?", pack)
	require.Len(t, results, 7)
	assert.Equal(t, "diagnosis", results[0].Phase)
	assert.Equal(t, "complete", results[6].Phase)
	assert.True(t, pack.Verify())
}

func TestPipelineRunValidationConfidence(t *testing.T) {
	pack := evidence.NewPack("")
	results := Pipeline{}.Run("hi", pack)
	validation := results[4]
	assert.Equal(t, "validation", validation.Phase)
	assert.Equal(t, 0.9, validation.Confidence)
}

func TestPipelineRunWithProvider(t *testing.T) {
	pack := evidence.NewPack("")
	p := provider.StubProvider{}
	results, err := Pipeline{}.RunWithProvider(context.Background(), "tell me a story", pack, p, "")
	require.NoError(t, err)
	require.Len(t, results, 7)
	assert.True(t, pack.Verify())
}
