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
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/yannabadie/ygn-brain/pkg/evidence"
)

// Harness orchestrates the generate-verify-refine loop.
//
// It composes a Generator, Verifier, Policy, and Selector to iteratively
// produce, evaluate, and refine LLM outputs until a quality threshold is
// met or the round budget is exhausted. Each step is traced to an
// optional evidence.Pack for auditable execution.
type Harness struct {
	generator Generator
	verifier  Verifier
	policy    Policy
	selector  Selector
	memory    *MemoryStore
	evidence  *evidence.Pack
}

// New builds a refinement harness. memory and pack may be nil.
func New(generator Generator, verifier Verifier, policy Policy, selector Selector, memory *MemoryStore, pack *evidence.Pack) *Harness {
	return &Harness{
		generator: generator,
		verifier:  verifier,
		policy:    policy,
		selector:  selector,
		memory:    memory,
		evidence:  pack,
	}
}

type scoredPair struct {
	candidate Candidate
	feedback  Feedback
}

// Run executes the generate-verify-refine loop for task under cfg.
func (h *Harness) Run(ctx context.Context, task string, cfg Config) Result {
	promptContext := ""
	if h.memory != nil {
		if patterns := h.memory.RecallPatterns(task, 3); len(patterns) > 0 {
			promptContext = fmt.Sprintf("Previous patterns: %+v", patterns[0])
		}
	}

	if h.evidence != nil {
		h.evidence.Add("harness", evidence.KindInput, map[string]interface{}{
			"task":               task,
			"has_memory_context": promptContext != "",
		})
	}

	var all []scoredPair
	bestScore := 0.0
	currentTask := task
	roundNum := 0

	feedbacks := func() []Feedback {
		fs := make([]Feedback, len(all))
		for i, p := range all {
			fs[i] = p.feedback
		}
		return fs
	}

	for h.policy.ShouldContinue(roundNum, bestScore, feedbacks()) {
		candidates := h.generator.Generate(ctx, currentTask, promptContext, cfg)

		for _, candidate := range candidates {
			feedback := h.verifier.Verify(ctx, candidate, task)
			all = append(all, scoredPair{candidate: candidate, feedback: feedback})

			if h.evidence != nil {
				sum := sha256.Sum256([]byte(candidate.Output))
				h.evidence.Add("harness", evidence.KindOutput, map[string]interface{}{
					"round":        roundNum,
					"candidate_id": candidate.ID,
					"provider":     candidate.Provider,
					"output_hash":  hex.EncodeToString(sum[:])[:16],
					"score":        feedback.Score,
					"passed":       feedback.Passed,
				})
			}

			if feedback.Score > bestScore {
				bestScore = feedback.Score
			}
		}

		roundNum++

		if h.policy.ShouldContinue(roundNum, bestScore, feedbacks()) {
			worst := all[0]
			for _, p := range all[1:] {
				if p.feedback.Score < worst.feedback.Score {
					worst = p
				}
			}
			currentTask = h.policy.RefinePrompt(task, worst.feedback)
		}
	}

	scored := make([]Scored, len(all))
	for i, p := range all {
		scored[i] = Scored{Candidate: p.candidate, Feedback: p.feedback}
	}
	winner := h.selector.Select(scored)

	roundsToConverge.Observe(float64(roundNum))
	winnerScore.Observe(winner.Feedback.Score)
	candidatesTotal.Add(float64(len(all)))

	if h.memory != nil {
		h.memory.StorePattern(task, winner.Candidate, winner.Feedback)
	}

	if h.evidence != nil {
		h.evidence.Add("harness", evidence.KindDecision, map[string]interface{}{
			"action":          "selection",
			"winner_id":       winner.Candidate.ID,
			"winner_score":    winner.Feedback.Score,
			"total_candidates": len(all),
			"rounds_used":     roundNum,
		})
	}

	return Result{
		Winner:          winner.Candidate,
		Feedback:        winner.Feedback,
		RoundsUsed:      roundNum,
		TotalCandidates: len(all),
	}
}
