// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package harness

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yannabadie/ygn-brain/pkg/evidence"
	"github.com/yannabadie/ygn-brain/pkg/tieredmemory"
)

func TestDefaultConfigMirrorsPreset(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.MaxRounds)
	assert.Equal(t, 0.8, cfg.MinScore)
	assert.True(t, cfg.Ensemble)
	assert.Equal(t, []string{"gemini", "codex"}, cfg.Providers)
	assert.Equal(t, 2, cfg.CandidatesPerProvider)
}

func TestDefaultPolicyShouldContinue(t *testing.T) {
	p := NewDefaultPolicy(3, 0.8)
	assert.True(t, p.ShouldContinue(0, 0.0, nil))
	assert.True(t, p.ShouldContinue(2, 0.5, nil))
	assert.False(t, p.ShouldContinue(3, 0.5, nil))
	assert.False(t, p.ShouldContinue(1, 0.9, nil))
}

func TestDefaultPolicyRefinePrompt(t *testing.T) {
	p := NewDefaultPolicy(0, 0)
	out := p.RefinePrompt("do the thing", Feedback{Score: 0.4, Diagnostics: "too short"})
	assert.Contains(t, out, "do the thing")
	assert.Contains(t, out, "too short")
	assert.Contains(t, out, "0.40")
}

func TestTextVerifierScoresGoodOutput(t *testing.T) {
	v := TextVerifier{}
	c := Candidate{Output: "Here is a thoughtful, structured answer to your question.\nIt addresses the task directly."}
	fb := v.Verify(context.Background(), c, "answer the question about the task")
	assert.True(t, fb.Score > 0.5)
}

func TestTextVerifierFlagsRefusal(t *testing.T) {
	v := TextVerifier{}
	c := Candidate{Output: "I cannot help with that request."}
	fb := v.Verify(context.Background(), c, "do something")
	assert.False(t, fb.Passed)
	assert.Contains(t, fb.Diagnostics, "refusal")
}

func TestTextVerifierFlagsEmpty(t *testing.T) {
	v := TextVerifier{}
	fb := v.Verify(context.Background(), Candidate{Output: ""}, "task")
	assert.False(t, fb.Passed)
	assert.Equal(t, 0.0, fb.Score)
}

func TestCommandVerifierSuccess(t *testing.T) {
	v := NewCommandVerifier(5 * time.Second)
	c := Candidate{Prompt: "cat", Output: "hello"}
	fb := v.Verify(context.Background(), c, "")
	require.True(t, fb.Passed)
	assert.Equal(t, 1.0, fb.Score)
}

func TestCommandVerifierFailure(t *testing.T) {
	v := NewCommandVerifier(5 * time.Second)
	c := Candidate{Prompt: "exit 1", Output: ""}
	fb := v.Verify(context.Background(), c, "")
	assert.False(t, fb.Passed)
	assert.Equal(t, 0.0, fb.Score)
}

func TestConsensusSelectorPicksMajority(t *testing.T) {
	s := ConsensusSelector{}
	scored := []Scored{
		{Candidate: Candidate{ID: "a", Output: "the answer is 42", LatencyMs: 100}, Feedback: Feedback{Score: 0.7}},
		{Candidate: Candidate{ID: "b", Output: "the answer is 42", LatencyMs: 50}, Feedback: Feedback{Score: 0.7}},
		{Candidate: Candidate{ID: "c", Output: "a totally different answer", LatencyMs: 10}, Feedback: Feedback{Score: 0.75}},
	}
	winner := s.Select(scored)
	assert.Equal(t, "b", winner.Candidate.ID) // consensus bonus (0.85) beats lone candidate c (0.75); lower latency breaks the a/b tie
}

func TestConsensusSelectorBreaksTiesByLatency(t *testing.T) {
	s := ConsensusSelector{}
	scored := []Scored{
		{Candidate: Candidate{ID: "slow", Output: "same output text", LatencyMs: 200}, Feedback: Feedback{Score: 0.9}},
		{Candidate: Candidate{ID: "fast", Output: "different output", LatencyMs: 20}, Feedback: Feedback{Score: 0.9}},
	}
	winner := s.Select(scored)
	assert.Equal(t, "fast", winner.Candidate.ID)
}

func TestStubGeneratorProducesConfiguredCount(t *testing.T) {
	g := NewStubGenerator("")
	cfg := Config{Providers: []string{"p1", "p2"}, CandidatesPerProvider: 2}
	candidates := g.Generate(context.Background(), "task", "", cfg)
	assert.Len(t, candidates, 4)
	for _, c := range candidates {
		assert.Equal(t, "stub output", c.Output)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	svc := tieredmemory.NewTieredService(time.Minute, time.Hour)
	store := NewMemoryStore(svc)

	c := Candidate{ID: "c1", Provider: "gemini", Model: "gemini-pro", Prompt: "summarize the report"}
	fb := Feedback{Score: 0.9}
	store.StorePattern("summarize the report", c, fb)

	patterns := store.RecallPatterns("summarize the report", 3)
	require.Len(t, patterns, 1)
	assert.Equal(t, "gemini", patterns[0].Provider)
	assert.Equal(t, 0.9, patterns[0].Score)
}

func TestHarnessRunSelectsWinnerAndTracesEvidence(t *testing.T) {
	pack := evidence.NewPack("sess-harness")
	gen := NewStubGenerator("a well structured and relevant answer.\nIt has more than one sentence.")
	cfg := Config{Providers: []string{"gemini"}, CandidatesPerProvider: 2, MaxRounds: 1, MinScore: 0.8}

	h := New(gen, TextVerifier{}, NewDefaultPolicy(1, 0.8), ConsensusSelector{}, nil, pack)
	result := h.Run(context.Background(), "write a well structured and relevant answer", cfg)

	assert.Equal(t, 1, result.RoundsUsed)
	assert.Equal(t, 2, result.TotalCandidates)
	assert.NotEmpty(t, result.Winner.ID)
	assert.True(t, pack.Len() >= 3)
}
