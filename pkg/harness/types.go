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

// Package harness implements the Refinement Harness: a generate-verify-
// refine loop that produces candidates from one or more providers, scores
// them against a Verifier, decides whether to keep refining via a
// Policy, and picks a winner via a Selector, tracing every step
// to an evidence.Pack.
package harness

// Candidate is a single candidate output from a provider.
type Candidate struct {
	ID         string
	Provider   string
	Model      string
	Prompt     string
	Output     string
	LatencyMs  float64
	TokenCount int
}

// Feedback is the verification result for a candidate.
type Feedback struct {
	Passed      bool
	Score       float64 // 0.0 - 1.0
	Diagnostics string
	Artifacts   map[string]interface{}
}

// Config configures a refinement harness run.
type Config struct {
	MaxRounds            int
	MinScore             float64
	Ensemble             bool
	Providers            []string
	CandidatesPerProvider int
	Verifier             string
	Command              string
}

// DefaultConfig mirrors the original's POETIQ_PRESET.
func DefaultConfig() Config {
	return Config{
		MaxRounds:             3,
		MinScore:              0.8,
		Ensemble:              true,
		Providers:             []string{"gemini", "codex"},
		CandidatesPerProvider: 2,
		Verifier:              "text",
	}
}

// Result is the result of a complete harness run.
type Result struct {
	Winner         Candidate
	Feedback       Feedback
	RoundsUsed     int
	TotalCandidates int
}
