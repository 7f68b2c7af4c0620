package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackHashChain(t *testing.T) {
	p := NewPack("sess-1")
	p.Add("diagnosis", KindInput, map[string]interface{}{"user_input": "hello"})
	p.Add("analysis", KindDecision, map[string]interface{}{"strategy": "direct"})
	p.Add("synthesis", KindOutput, map[string]interface{}{"final": "4"})

	require.Equal(t, "", p.Entries[0].PrevHash)
	for i := 1; i < len(p.Entries); i++ {
		assert.Equal(t, p.Entries[i-1].EntryHash, p.Entries[i].PrevHash)
	}
	assert.True(t, p.Verify())
}

func TestPackVerifyDetectsTamper(t *testing.T) {
	p := NewPack("sess-2")
	p.Add("diagnosis", KindInput, map[string]interface{}{"user_input": "hello"})
	p.Add("synthesis", KindOutput, map[string]interface{}{"final": "4"})
	require.True(t, p.Verify())

	p.Entries[0].Data["user_input"] = "tampered"
	assert.False(t, p.Verify())
}

func TestMerkleRootDeterministic(t *testing.T) {
	p1 := NewPack("sess-3")
	p2 := NewPack("sess-3")
	for _, p := range []*Pack{p1, p2} {
		p.Add("diagnosis", KindInput, map[string]interface{}{"a": 1})
		p.Add("analysis", KindDecision, map[string]interface{}{"b": 2})
		p.Add("planning", KindDecision, map[string]interface{}{"c": 3})
	}
	// Hashes embed timestamps, so roots differ across packs created at
	// different instants; what must hold is determinism for a fixed entry
	// set and the literal 64-hex-char shape required by spec scenario 1.
	root := p1.MerkleRootHash()
	assert.Len(t, root, 64)
	assert.Equal(t, root, p1.MerkleRootHash())
}

func TestScenarioOneShape(t *testing.T) {
	p := NewPack(NewSessionID())
	for i := 0; i < 7; i++ {
		p.Add("phase", KindDecision, map[string]interface{}{"i": i})
	}
	require.GreaterOrEqual(t, p.Len(), 7)
	require.True(t, p.Verify())
	assert.Len(t, p.MerkleRootHash(), 64)
}
